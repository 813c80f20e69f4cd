package netbox

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError describes a non-success response from the inventory API.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("inventory API %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("inventory API %s %s returned %d", e.Method, e.URL, e.StatusCode)
}

// IsNotFound reports whether err is an API 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
