package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentExport, Output: &buf})
	l.Info("wrote report", "rows", 3)
	out := buf.String()
	if !strings.Contains(out, "component=export") || !strings.Contains(out, "rows=3") {
		t.Fatalf("log line = %q", out)
	}

	buf.Reset()
	l.WithComponent(ComponentStore).Warn("slow")
	if !strings.Contains(buf.String(), "component=store") {
		t.Fatalf("log line = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Output: &buf})
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("handling")
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	out := buf.String()
	if !strings.Contains(out, "request_id=") || !strings.Contains(out, "status_code=418") {
		t.Fatalf("log output = %q", out)
	}
}
