package server

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/streamml/aleval/internal/logging"
	"github.com/streamml/aleval/internal/metrics"
)

func newTestServer() *Server {
	logger := logging.NewStdLoggerAdapter(log.New(io.Discard, "", 0))
	return New("127.0.0.1:0", metrics.New().Registry(), logger)
}

func TestHandleMetrics(t *testing.T) {
	s := newTestServer()

	t.Run("GET returns exposition", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleMetrics(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "aleval_aggregation_rounds_total") {
			t.Error("exposition should contain the rounds counter")
		}
		if !strings.Contains(body, "go_") {
			t.Error("exposition should contain Go runtime metrics")
		}
	})

	t.Run("POST returns method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/metrics", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleMetrics(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestHandleHealthz(t *testing.T) {
	s := newTestServer()

	t.Run("GET returns ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleHealthz(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if got := rec.Body.String(); got != "ok\n" {
			t.Errorf("body = %q, want %q", got, "ok\n")
		}
	})

	t.Run("DELETE returns method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/healthz", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleHealthz(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestSecurityHeaders(t *testing.T) {
	nextCalled := false
	handler := securityHeaders(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if !nextCalled {
		t.Fatal("next handler was not called")
	}
	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	}
	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}
}
