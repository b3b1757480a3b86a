package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TypedResponse wraps a response with a decoded body of type T.
type TypedResponse[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, a *Adapter, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, a, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request and decodes the JSON response into type T.
// body may be a *MultipartBody or any JSON-encodable value.
func Post[T any](ctx context.Context, a *Adapter, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, a, http.MethodPost, path, body, opts...)
}

// doTyped executes a request and decodes the JSON response. Error
// responses are returned as the classified error, never decoded.
func doTyped[T any](ctx context.Context, a *Adapter, method, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	req := Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := a.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var data T
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return nil, fmt.Errorf("httpclient: decode response: %w", err)
		}
	}

	return &TypedResponse[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       data,
	}, nil
}
