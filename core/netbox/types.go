package netbox

import (
	"github.com/devopstales/netbox-registrator/core/utils"
)

// Params holds filter parameters for a list request, e.g. {"name": "srv01"}.
type Params map[string]string

// Body is a JSON request body for create, update and replace calls.
type Body map[string]any

// Row is a single decoded inventory object. The API returns arbitrary JSON,
// so fields are accessed through typed helpers instead of a fixed struct.
type Row map[string]any

// List is the envelope of a list response.
type List struct {
	Count   int   `json:"count"`
	Results []Row `json:"results"`
}

// ID returns the numeric id of the row, or 0 if absent.
func (r Row) ID() int {
	return utils.ToInt(r["id"])
}

// Str returns the string value stored under key, or "" if absent.
func (r Row) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return utils.ToString(v)
}

// Int returns the numeric value stored under key, or 0 if absent.
func (r Row) Int(key string) int {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	return utils.ToInt(v)
}

// Bool returns the boolean value stored under key, or false if absent.
func (r Row) Bool(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	return utils.ToBool(v)
}

// Has reports whether key is present with a non-null value.
func (r Row) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Nested returns the object stored under key as a Row.
// It returns nil when the value is absent, null or not an object,
// so chained access like r.Nested("device").ID() is safe.
func (r Row) Nested(key string) Row {
	switch v := r[key].(type) {
	case map[string]any:
		return Row(v)
	case Row:
		return v
	default:
		return nil
	}
}

// Choice returns the value of a choice field, which the API renders as
// {"value": "...", "label": "..."}. Plain strings are returned as-is.
func (r Row) Choice(key string) string {
	if nested := r.Nested(key); nested != nil {
		return nested.Str("value")
	}
	return r.Str(key)
}

// Ref returns the id of a reference field. The API renders references as
// nested objects, request bodies and terse serializers keep them as plain
// ids; both forms are handled.
func (r Row) Ref(key string) int {
	if nested := r.Nested(key); nested != nil {
		return nested.ID()
	}
	return r.Int(key)
}
