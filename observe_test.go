package fluenthttp

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestSend_LogsDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	b := New(NewPool(), srv.URL, false).
		WithLogger(zerolog.New(&buf))

	if _, err := Get(context.Background(), b, Bytes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"method":"GET"`) {
		t.Errorf("expected method field in log output, got %s", out)
	}
	if !strings.Contains(out, `"status":200`) {
		t.Errorf("expected status field in log output, got %s", out)
	}
}

func TestSend_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	b := New(NewPool(), "http://127.0.0.1:1/unreachable", false).
		WithLogger(zerolog.New(&buf))

	if _, err := Get(context.Background(), b, Bytes()); err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(buf.String(), "request failed") {
		t.Errorf("expected failure log, got %s", buf.String())
	}
}

func TestSend_WithTracer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	tracer := noop.NewTracerProvider().Tracer("test")
	b := New(NewPool(), srv.URL, false).WithTracer(tracer)

	if _, err := Get(context.Background(), b, Bytes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
