package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/middleware"
)

func TestCorrelationID(t *testing.T) {
	t.Parallel()

	const requestID = "req-42"

	tests := []struct {
		name     string
		incoming string
		want     string
	}{
		{name: "keeps caller id", incoming: "deploy-7f3a", want: "deploy-7f3a"},
		{name: "falls back to request id", incoming: "", want: requestID},
		{name: "rejects overlong id", incoming: strings.Repeat("c", 129), want: requestID},
		{name: "rejects control characters", incoming: "corr\t1", want: requestID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			h := middleware.RequestID()(middleware.CorrelationID()(
				http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
					got = middleware.CorrelationIDFromContext(r.Context())
				}),
			))

			req := httptest.NewRequest(http.MethodPut, declarationPath, http.NoBody)
			req.Header.Set("X-Request-ID", requestID)
			if tt.incoming != "" {
				req.Header.Set("X-Correlation-ID", tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got != tt.want {
				t.Errorf("CorrelationIDFromContext = %q, want %q", got, tt.want)
			}
			if header := rec.Header().Get("X-Correlation-ID"); header != tt.want {
				t.Errorf("response X-Correlation-ID = %q, want %q", header, tt.want)
			}
		})
	}
}

func TestCorrelationIDFromContext_Empty(t *testing.T) {
	t.Parallel()

	if id := middleware.CorrelationIDFromContext(context.Background()); id != "" {
		t.Errorf("CorrelationIDFromContext = %q, want empty", id)
	}
}
