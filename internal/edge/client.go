// Package edge implements the client-facing proxy tier. It forwards requests
// to the bookstore API and lets a FallbackPolicy decide what the client sees
// when the API is slow, down, or answers with an error.
package edge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxUpstreamBody = 4 << 20

// Upstream is a buffered backend response, or a synthesised one.
type Upstream struct {
	Status int
	Header http.Header
	Body   []byte
	// Fallback marks a canned response produced without the backend.
	Fallback bool
}

// BackendConfig holds client configuration.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Backend is a minimal client for the bookstore API.
type Backend struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewBackend creates a backend client. Every call is bounded by Timeout.
func NewBackend(cfg BackendConfig) *Backend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Backend{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Do sends one request and buffers the response. A non-nil error means the
// backend could not be reached or did not answer before the deadline.
func (b *Backend) Do(ctx context.Context, method, path string, header http.Header, body []byte) (*Upstream, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var rdr io.Reader
	if len(body) > 0 {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Upstream{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: data}, nil
}

// Ping checks the backend liveness endpoint.
func (b *Backend) Ping(ctx context.Context) error {
	up, err := b.Do(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return err
	}
	if up.Status != http.StatusOK {
		return fmt.Errorf("backend health returned %d", up.Status)
	}
	return nil
}
