package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/audioscript/resilience"
)

// Adapter is a configurable HTTP adapter with auth, request ids and an
// optional circuit breaker. It is safe for concurrent use.
type Adapter struct {
	httpClient *http.Client
	config     Config
	cb         *resilience.CircuitBreaker
	newID      func() string
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) { a.httpClient.Transport = rt }
}

// WithRequestIDFunc replaces the request id generator used when RequestID is enabled.
func WithRequestIDFunc(fn func() string) Option {
	return func(a *Adapter) { a.newID = fn }
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		newID:  uuid.NewString,
	}
	if cfg.CircuitBreaker != nil {
		a.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Do executes an HTTP request and returns the complete response. Requests
// are never retried here; callers decide whether a failure is worth another
// attempt.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	if a.cb == nil {
		return a.executeRequest(ctx, req)
	}

	var resp *Response
	err := a.cb.Execute(func() error {
		var execErr error
		resp, execErr = a.executeRequest(ctx, req)
		return execErr
	})
	if err == resilience.ErrCircuitOpen {
		return nil, NewCircuitOpenError(a.config.Name)
	}
	return resp, err
}

// IsAvailable reports false while the circuit breaker is open.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.cb != nil {
		return a.cb.State() != resilience.StateOpen
	}
	return true
}

// Close releases idle connections held by the adapter.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the adapter's configuration.
func (a *Adapter) Config() Config {
	return a.config
}

// executeRequest builds and sends the HTTP request.
func (a *Adapter) executeRequest(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if a.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if a.config.RequestID && httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, a.newID())
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
