package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func newJSON(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := &Config{Level: level, Format: "json"}
	return NewWithWriter(cfg, "audioscript", &buf), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l, buf := newJSON("invalid-level")
	l.Info("still logs at info")
	if buf.Len() == 0 {
		t.Fatal("expected invalid level to fall back to info")
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSON("warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponentAndJob(t *testing.T) {
	l, buf := newJSON("debug")
	l.WithComponent("poller").WithJob("abc123").Info("polling")

	m := decodeLine(t, buf)
	if m[FieldComponent] != "poller" {
		t.Errorf("expected component=poller, got %v", m[FieldComponent])
	}
	if m[FieldJobID] != "abc123" {
		t.Errorf("expected job_id=abc123, got %v", m[FieldJobID])
	}
	if m["service"] != "audioscript" {
		t.Errorf("expected service=audioscript, got %v", m["service"])
	}
}

func TestFieldsAreEmitted(t *testing.T) {
	l, buf := newJSON("debug")
	l.Info("snapshot", Fields(FieldStatus, "processing", FieldProgress, 40))

	m := decodeLine(t, buf)
	if m[FieldStatus] != "processing" {
		t.Errorf("expected status=processing, got %v", m[FieldStatus])
	}
	if m[FieldProgress] != float64(40) {
		t.Errorf("expected progress=40, got %v", m[FieldProgress])
	}
}

func TestWithError(t *testing.T) {
	l, buf := newJSON("debug")
	l.WithError(errors.New("boom")).Error("failed")

	m := decodeLine(t, buf)
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	l := NewDefault("test")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when ctx carries no span")
	}
}

func TestWithContext_Span(t *testing.T) {
	l, buf := newJSON("debug")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1},
		SpanID:  trace.SpanID{2},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	l.WithContext(ctx).Info("traced")

	m := decodeLine(t, buf)
	if m[FieldTraceID] != sc.TraceID().String() {
		t.Errorf("expected trace_id %s, got %v", sc.TraceID(), m[FieldTraceID])
	}
}

func TestNop(t *testing.T) {
	Nop().Info("discarded")
}

func TestInitAndGlobal(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	Init(Config{Level: "debug", Format: "json", ServiceName: "svc"})
	if GetGlobalLogger().service != "svc" {
		t.Errorf("expected global service 'svc', got %q", GetGlobalLogger().service)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp on by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "info", Format: "json"}, false},
		{"valid pretty", Config{Level: "debug", Format: "pretty"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("upload", errors.New("refused"))
	if ef[FieldOperation] != "upload" || ef[FieldError] != "refused" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("poll", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
}
