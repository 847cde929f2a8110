// Package backend is the HTTP client for the upstream service the dashboard
// fronts. It forwards the caller's bearer credential, decodes JSON replies,
// and propagates upstream failures verbatim so callers can diagnose them.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError carries a non-2xx upstream reply. Status and body are preserved
// as received; the dashboard never retries or masks backend errors.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	body := string(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, body)
}

// Response is a raw upstream reply, used by pass-through handlers that relay
// status and body without interpretation.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Do sends one request upstream and returns the reply whatever its status.
// The error return covers transport failures only.
func (c *Client) Do(ctx context.Context, method, path, token string, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// JSON sends a request with an optional JSON body and decodes a 2xx reply
// into out. Non-2xx replies come back as *APIError with the upstream status
// and body intact.
func (c *Client) JSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	resp, err := c.Do(ctx, method, path, token, reader)
	if err != nil {
		return err
	}
	if resp.Status < 200 || resp.Status > 299 {
		return &APIError{Status: resp.Status, Body: resp.Body}
	}
	if out != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("%s %s: decode body: %w", method, path, err)
		}
	}
	return nil
}
