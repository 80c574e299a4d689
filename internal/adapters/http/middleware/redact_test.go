package middleware_test

import (
	"net/http"
	"testing"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/middleware"
)

const redactedValue = "[REDACTED]"

func TestRedactHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers http.Header
		want    map[string]string
	}{
		{
			name:    "authorization",
			headers: http.Header{"Authorization": {"Bearer secret-token"}},
			want:    map[string]string{"Authorization": redactedValue},
		},
		{
			name:    "api key",
			headers: http.Header{"X-Api-Key": {"my-api-key-value"}},
			want:    map[string]string{"X-Api-Key": redactedValue},
		},
		{
			name:    "cookie",
			headers: http.Header{"Cookie": {"session=abc123"}},
			want:    map[string]string{"Cookie": redactedValue},
		},
		{
			name:    "declaration upload",
			headers: http.Header{"Content-Type": {"application/yaml"}, "Authorization": {"Bearer x"}},
			want:    map[string]string{"Content-Type": "application/yaml", "Authorization": redactedValue},
		},
		{
			name:    "multi-value joined",
			headers: http.Header{"Accept": {"application/problem+json", "application/json"}},
			want:    map[string]string{"Accept": "application/problem+json,application/json"},
		},
		{
			name:    "empty",
			headers: http.Header{},
			want:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			attrs := middleware.RedactHeaders(tt.headers)
			if len(attrs) != len(tt.want) {
				t.Fatalf("len(attrs) = %d, want %d", len(attrs), len(tt.want))
			}
			for _, a := range attrs {
				if got := a.Value.String(); got != tt.want[a.Key] {
					t.Errorf("%s = %q, want %q", a.Key, got, tt.want[a.Key])
				}
			}
		})
	}
}
