package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single call when no other timeout is configured.
const DefaultTimeout = 10 * time.Second

// Client performs normalized JSON calls against one backend.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	header     http.Header
	logger     *slog.Logger
}

type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithHeader sets a header sent with every call.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithBearerToken authenticates every call with the given token.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.header.Set("Authorization", "Bearer "+token)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client. An empty baseURL makes paths relative, which suits a
// same-origin deployment behind a reverse proxy.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		header: http.Header{
			"Content-Type": []string{"application/json"},
			"Accept":       []string{"application/json"},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one call. Body is JSON-encoded when non-nil.
type Request struct {
	Method  string
	Path    string
	Body    any
	Header  http.Header
	Timeout time.Duration
}

// Do performs req and decodes a successful JSON body into out (which may be nil).
// Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	status, err := c.do(ctx, req, out)
	if err != nil {
		err = c.normalizeFailure(ctx, err)
	}

	c.logger.Debug("api call",
		slog.String("method", req.method()),
		slog.String("path", req.Path),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
		slog.Any("error", err),
	)
	return err
}

func (c *Client) do(ctx context.Context, req Request, out any) (int, error) {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method(), c.baseURL+req.Path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.header {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	for key, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed any
		if len(raw) > 0 && json.Unmarshal(raw, &parsed) != nil {
			parsed = nil
		}
		return resp.StatusCode, normalize(resp.StatusCode, parsed)
	}

	if out != nil && len(raw) > 0 && json.Valid(raw) {
		if err := json.Unmarshal(raw, out); err != nil {
			c.logger.Warn("api response did not match expected shape",
				slog.String("path", req.Path),
				slog.String("error", err.Error()),
			)
		}
	}
	return resp.StatusCode, nil
}

// normalizeFailure guarantees that only *Error leaves the client.
func (c *Client) normalizeFailure(ctx context.Context, err error) error {
	if apiErr, ok := AsError(err); ok {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeoutError()
	}
	return networkError()
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// Get performs a GET and decodes the result into T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: path}, &out)
	return out, err
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, &out)
	return out, err
}

func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, &out)
	return out, err
}

// Delete performs a DELETE; the backend answers 204 on success.
func Delete(ctx context.Context, c *Client, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}
