package netbox

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of an error response gets copied into APIError.
const maxErrorBody = 512

// HTTPClient talks to a NetBox-compatible HTTP API.
type HTTPClient struct {
	base   string
	token  string
	client *http.Client
	log    *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewClient creates an HTTP inventory client from the configuration.
func NewClient(cfg *Config, log *zap.Logger) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &HTTPClient{
		base:   strings.TrimRight(cfg.URL, "/") + "/api",
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout, Transport: transport},
		log:    log,
	}, nil
}

// Get runs a filtered list query and follows pagination until exhausted.
func (c *HTTPClient) Get(ctx context.Context, collection string, params Params) (*List, error) {
	u := c.base + "/" + collection + "/"
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}

	list := &List{}
	for u != "" {
		var page struct {
			Count   int     `json:"count"`
			Next    *string `json:"next"`
			Results []Row   `json:"results"`
		}
		if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
			return nil, err
		}
		list.Count = page.Count
		list.Results = append(list.Results, page.Results...)
		if page.Next == nil || *page.Next == "" {
			break
		}
		u = *page.Next
	}
	return list, nil
}

// Create posts a new object to the collection and returns the stored row.
func (c *HTTPClient) Create(ctx context.Context, collection string, body Body) (Row, error) {
	var row Row
	if err := c.do(ctx, http.MethodPost, c.base+"/"+collection+"/", body, &row); err != nil {
		return nil, err
	}
	c.log.Debug("created inventory object",
		zap.String("collection", collection), zap.Int("id", row.ID()))
	return row, nil
}

// Update patches only the fields present in body.
func (c *HTTPClient) Update(ctx context.Context, collection string, id int, body Body) (Row, error) {
	var row Row
	u := fmt.Sprintf("%s/%s/%d/", c.base, collection, id)
	if err := c.do(ctx, http.MethodPatch, u, body, &row); err != nil {
		return nil, err
	}
	c.log.Debug("updated inventory object",
		zap.String("collection", collection), zap.Int("id", id))
	return row, nil
}

// Replace swaps the whole object for body.
func (c *HTTPClient) Replace(ctx context.Context, collection string, id int, body Body) (Row, error) {
	var row Row
	u := fmt.Sprintf("%s/%s/%d/", c.base, collection, id)
	if err := c.do(ctx, http.MethodPut, u, body, &row); err != nil {
		return nil, err
	}
	c.log.Debug("replaced inventory object",
		zap.String("collection", collection), zap.Int("id", id))
	return row, nil
}

func (c *HTTPClient) do(ctx context.Context, method, rawURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("inventory request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &APIError{StatusCode: resp.StatusCode, Method: method, URL: rawURL, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
