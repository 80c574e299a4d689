package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/middleware"
)

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var trace []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, name+">")
				next.ServeHTTP(w, r)
				trace = append(trace, "<"+name)
			})
		}
	}
	final := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { trace = append(trace, "handler") })

	tests := []struct {
		name  string
		chain []func(http.Handler) http.Handler
		want  []string
	}{
		{name: "empty", want: []string{"handler"}},
		{
			name:  "outermost first",
			chain: []func(http.Handler) http.Handler{tag("recovery"), tag("request_id"), tag("logging")},
			want:  []string{"recovery>", "request_id>", "logging>", "handler", "<logging", "<request_id", "<recovery"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace = nil
			middleware.Chain(tt.chain...)(final).
				ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, declarationPath, http.NoBody))

			if !slices.Equal(trace, tt.want) {
				t.Errorf("trace = %v, want %v", trace, tt.want)
			}
		})
	}
}

func TestChain_ServerPipeline(t *testing.T) {
	t.Parallel()

	pipeline := func(buf *bytes.Buffer) func(http.Handler) http.Handler {
		logger := testLogger(buf)
		return middleware.Chain(
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.Logging(logger),
			middleware.Timeout(5*time.Second),
		)
	}

	t.Run("ids reach the handler and the response", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var seen string
		h := pipeline(&buf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.RequestIDFromContext(r.Context())
			if middleware.CorrelationIDFromContext(r.Context()) != seen {
				t.Error("correlation ID did not fall back to the request ID")
			}
			w.WriteHeader(http.StatusAccepted)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, declarationPath, http.NoBody))

		if rec.Code != http.StatusAccepted {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
		}
		if seen == "" || rec.Header().Get("X-Request-ID") != seen {
			t.Errorf("X-Request-ID = %q, handler saw %q", rec.Header().Get("X-Request-ID"), seen)
		}
		if !strings.Contains(buf.String(), "request completed") || !strings.Contains(buf.String(), seen) {
			t.Errorf("log = %q, want a completion line with the request ID", buf.String())
		}
	})

	t.Run("panic inside the pipeline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := pipeline(&buf)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, declarationPath, http.NoBody))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(buf.String(), "panic recovered") {
			t.Errorf("log = %q, want the recovered panic", buf.String())
		}
	})
}
