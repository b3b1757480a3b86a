package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestAdapter_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/status/abc123" {
			t.Errorf("expected /status/abc123, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "processing"})
	}))
	defer srv.Close()

	a, err := New(Config{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/status/abc123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
}

func TestAdapter_Do_HeadersAuthAndRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Client"); got != "audioscript" {
			t.Errorf("expected X-Client=audioscript, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		if got := r.Header.Get(HeaderRequestID); got != "req-1" {
			t.Errorf("expected request id req-1, got %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a, err := New(Config{
		BaseURL:   srv.URL,
		Headers:   map[string]string{"X-Client": "audioscript"},
		Auth:      BearerAuth("secret"),
		RequestID: true,
	}, WithRequestIDFunc(func() string { return "req-1" }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.Do(context.Background(), Request{Method: http.MethodPost, Path: "/cancel/x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Do_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{http.StatusNotFound, IsNotFound, "not found"},
		{http.StatusForbidden, IsAuth, "auth"},
		{http.StatusBadGateway, IsServerError, "server"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"detail":"nope"}`))
			}))
			defer srv.Close()

			a, _ := New(Config{BaseURL: srv.URL})
			resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected classification for %d: %v", tt.status, err)
			}
			if resp == nil || resp.StatusCode != tt.status {
				t.Errorf("expected response with status %d", tt.status)
			}
			if StatusCode(err) != tt.status {
				t.Errorf("StatusCode(err) = %d, want %d", StatusCode(err), tt.status)
			}
		})
	}
}

func TestAdapter_Do_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a, _ := New(Config{BaseURL: url, Timeout: time.Second})
	_, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("connection errors should be retryable")
	}
}

func TestAdapter_Do_CanceledContextIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestAdapter_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cb := DefaultCircuitBreakerConfig("transcription")
	cb.MaxFailures = 2
	a, _ := New(Config{BaseURL: srv.URL, CircuitBreaker: cb})

	for i := 0; i < 2; i++ {
		_, _ = a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	}
	if a.IsAvailable(context.Background()) {
		t.Error("expected adapter to be unavailable with an open circuit")
	}

	_, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsCircuitOpen(err) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 server calls, got %d", calls.Load())
	}
}

func TestAdapter_CircuitBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cb := DefaultCircuitBreakerConfig("transcription")
	cb.MaxFailures = 1
	a, _ := New(Config{BaseURL: srv.URL, CircuitBreaker: cb})

	for i := 0; i < 3; i++ {
		_, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
		if !IsNotFound(err) {
			t.Fatalf("attempt %d: expected not found, got %v", i, err)
		}
	}
}

func TestTypedGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc123"}`))
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})
	resp, err := Get[struct {
		ID string `json:"id"`
	}](context.Background(), a, "/x", WithHeader("Accept", "application/json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.ID != "abc123" {
		t.Errorf("expected id abc123, got %q", resp.Data.ID)
	}
}

func TestTypedGet_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})
	if _, err := Get[map[string]any](context.Background(), a, "/x"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.Name != "http" {
		t.Errorf("expected default name, got %q", cfg.Name)
	}
}

func TestBearerAuth_EmptyToken(t *testing.T) {
	if BearerAuth("") != nil {
		t.Error("expected nil auth for empty token")
	}
}
