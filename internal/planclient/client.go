// Package planclient posts plan requests to the planning service.
package planclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finance-advisor/internal/plan"
	"finance-advisor/internal/shared/telemetry"
)

const maxResponseBytes = 4 << 20

// DefaultTimeout bounds a single plan request.
const DefaultTimeout = 120 * time.Second

// TransportError reports that no usable response came back from the planning service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the planning service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A zero timeout disables the deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// BaseURL reports the planning service root.
func (c *Client) BaseURL() string { return c.baseURL }

// RequestPlan sends req and returns the raw JSON body for normalization.
func (c *Client) RequestPlan(ctx context.Context, req plan.PlanRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/plan", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	fields := map[string]any{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"bytes":       len(data),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		telemetry.Warn("planclient.non_2xx", fields)
	} else {
		telemetry.Info("planclient.response", fields)
	}

	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, &TransportError{Op: "decode response", Err: fmt.Errorf("status %d: body is not JSON", resp.StatusCode)}
	}
	return json.RawMessage(trimmed), nil
}
