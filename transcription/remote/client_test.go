package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/audioscript/httpclient"
	"github.com/kbukum/audioscript/transcription"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.Endpoint = srv.URL + "/"
	c, err := New(cfg, httpclient.WithRequestIDFunc(func() string { return "req-1" }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_InvalidEndpoint(t *testing.T) {
	if _, err := New(Config{Endpoint: "not a url"}); err == nil {
		t.Fatal("expected error for invalid endpoint")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != DefaultEndpoint || cfg.Timeout != 30*time.Second {
		t.Errorf("ApplyDefaults() = %+v", cfg)
	}
}

func TestUpload(t *testing.T) {
	var gotOptions map[string]any
	var gotFile, gotName, gotType, gotAuth, gotReqID string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(httpclient.HeaderRequestID)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		if err := json.Unmarshal([]byte(r.FormValue("options")), &gotOptions); err != nil {
			t.Errorf("options not JSON: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile() error = %v", err)
		}
		data, _ := io.ReadAll(f)
		gotFile, gotName, gotType = string(data), hdr.Filename, hdr.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"job-42"}`))
	}, Config{Token: "secret"})

	file := transcription.FileFromBytes("talk.wav", "audio/x-wav", []byte("RIFFdata"))
	id, err := c.Upload(context.Background(), file, transcription.Effective(transcription.DefaultOptions()))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if id != "job-42" {
		t.Errorf("id = %q, want job-42", id)
	}
	if gotFile != "RIFFdata" || gotName != "talk.wav" || gotType != "audio/wav" {
		t.Errorf("file part = %q %q %q", gotFile, gotName, gotType)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReqID != "req-1" {
		t.Errorf("X-Request-ID = %q", gotReqID)
	}
	if _, ok := gotOptions["language"]; ok {
		t.Errorf("language should be omitted: %v", gotOptions)
	}
	if gotOptions["detectLanguage"] != true || gotOptions["punctuationStyle"] != "auto" {
		t.Errorf("options = %v", gotOptions)
	}
}

func TestUpload_MissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, Config{})
	file := transcription.FileFromBytes("a.wav", "audio/wav", []byte("x"))
	if _, err := c.Upload(context.Background(), file, transcription.EffectiveOptions{}); err == nil {
		t.Fatal("expected error for response without id")
	}
}

func TestUpload_ErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Unsupported file type"}`))
	}, Config{})
	file := transcription.FileFromBytes("a.wav", "audio/wav", []byte("x"))
	_, err := c.Upload(context.Background(), file, transcription.EffectiveOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Unsupported file type") {
		t.Errorf("error = %v, want service detail", err)
	}
	if httpclient.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", httpclient.StatusCode(err))
	}
}

func TestStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/status/job-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"PROCESSING","progress":37.6}`))
	}, Config{})

	job, err := c.Status(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if job.ID != "job-1" || job.Status != transcription.StatusProcessing {
		t.Errorf("job = %+v", job)
	}
	if job.Progress == nil || *job.Progress != 38 {
		t.Errorf("Progress = %v, want 38", job.Progress)
	}
}

func TestStatus_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, Config{})
	_, err := c.Status(context.Background(), "gone")
	if !httpclient.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestCancel(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}, Config{})
	if err := c.Cancel(context.Background(), "job-7"); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if path != "POST /cancel/job-7" {
		t.Errorf("request = %q", path)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, Config{CircuitBreaker: true})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, _ = c.Status(ctx, "job")
	}
	if c.IsAvailable(ctx) {
		t.Error("client should be unavailable once the circuit opens")
	}
	if n := calls.Load(); n >= 10 {
		t.Errorf("calls = %d, circuit never short-circuited", n)
	}
	_, err := c.Status(ctx, "job")
	if !httpclient.IsCircuitOpen(err) {
		t.Errorf("error = %v, want circuit open", err)
	}
}
