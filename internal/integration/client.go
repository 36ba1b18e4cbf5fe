// Package integration holds an HTTP client for the inference service and the
// end to end tests that drive it.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type prefixRoundTripper struct {
	addr string
	rt   http.RoundTripper
}

func (p *prefixRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	u := r.URL
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	if u.Host == "" {
		u.Host = p.addr
	}

	return p.rt.RoundTrip(r)
}

func NewClient(addr string) *Client {
	return &Client{client: &http.Client{Transport: &prefixRoundTripper{addr: addr, rt: http.DefaultTransport}}}
}

type Client struct {
	client *http.Client
}

// Predict posts body as JSON and decodes the answer. The status code is
// returned alongside so callers can check 400 responses.
func (c *Client) Predict(ctx context.Context, body interface{}) (int, *PredictResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("unable marshal predict request: %w", err)
	}
	return c.PredictRaw(ctx, "application/json", b)
}

func (c *Client) PredictRaw(ctx context.Context, contentType string, body []byte) (int, *PredictResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/predict", bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create new request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error with sending request: %w", err)
	}
	defer resp.Body.Close()

	var out PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode predict response: %w", err)
	}
	return resp.StatusCode, &out, nil
}

func (c *Client) Health(ctx context.Context) (int, *HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode health response: %w", err)
	}
	return resp.StatusCode, &out, nil
}
