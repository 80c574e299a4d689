package httpclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/resource-reconciler/internal/platform/config"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/httpclient"
)

const deliveryBody = `{"stream":"/release/acme-web/stable","version":1,"kind":"ReleaseStatusChanged"}`

func clientConfig(maxFailures int) *config.ClientConfig {
	return &config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   maxFailures,
			Timeout:       50 * time.Millisecond,
			HalfOpenLimit: 1,
		},
	}
}

// receiver answers each delivery with the next status in statuses, repeating
// the last one, and records what it saw.
type receiver struct {
	statuses []int
	calls    atomic.Int32
	bodies   chan string
	headers  chan http.Header
}

func newReceiver(t *testing.T, statuses ...int) (*receiver, string) {
	t.Helper()

	rc := &receiver{
		statuses: statuses,
		bodies:   make(chan string, 16),
		headers:  make(chan http.Header, 16),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(rc.calls.Add(1))
		body, _ := io.ReadAll(r.Body)
		rc.bodies <- string(body)
		rc.headers <- r.Header.Clone()
		w.WriteHeader(rc.statuses[min(n, len(rc.statuses))-1])
	}))
	t.Cleanup(srv.Close)
	return rc, srv.URL + "/hooks/releases"
}

func deliver(ctx context.Context, t *testing.T, c *httpclient.Client, url string) (*http.Response, error) {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(deliveryBody))
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(ctx, req)
	if resp != nil {
		t.Cleanup(func() { _ = resp.Body.Close() })
	}
	return resp, err
}

func newClient(maxFailures int) *httpclient.Client {
	return httpclient.New(clientConfig(maxFailures), "webhook", nil, slog.New(slog.DiscardHandler))
}

func TestDo_Retries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statuses   []int
		wantStatus int
		wantCalls  int32
		wantErr    bool
	}{
		{name: "accepted first time", statuses: []int{http.StatusAccepted}, wantStatus: http.StatusAccepted, wantCalls: 1},
		{name: "recovers from 503", statuses: []int{503, 503, 204}, wantStatus: http.StatusNoContent, wantCalls: 3},
		{name: "recovers from 429", statuses: []int{429, 200}, wantStatus: http.StatusOK, wantCalls: 2},
		{name: "client error is final", statuses: []int{http.StatusUnprocessableEntity}, wantStatus: http.StatusUnprocessableEntity, wantCalls: 1},
		{name: "attempts exhausted", statuses: []int{http.StatusBadGateway}, wantStatus: http.StatusBadGateway, wantCalls: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc, url := newReceiver(t, tt.statuses...)
			resp, err := deliver(context.Background(), t, newClient(10), url)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Do() error = %v, wantErr %v", err, tt.wantErr)
			}
			if resp == nil {
				t.Fatal("Do() response = nil, want the last response")
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if got := rc.calls.Load(); got != tt.wantCalls {
				t.Errorf("deliveries = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestDo_ReplaysBodyOnEveryAttempt(t *testing.T) {
	t.Parallel()

	rc, url := newReceiver(t, http.StatusServiceUnavailable, http.StatusOK)
	if _, err := deliver(context.Background(), t, newClient(10), url); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	for i := range 2 {
		if got := <-rc.bodies; got != deliveryBody {
			t.Errorf("attempt %d body = %q, want %q", i+1, got, deliveryBody)
		}
	}
}

func TestDo_PropagatesIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		ctx             func(context.Context) context.Context
		wantRequestID   string
		wantCorrelation string
	}{
		{
			name: "both set",
			ctx: func(ctx context.Context) context.Context {
				ctx = httpclient.WithRequestID(ctx, "req-7")
				return httpclient.WithCorrelationID(ctx, "corr-9")
			},
			wantRequestID:   "req-7",
			wantCorrelation: "corr-9",
		},
		{
			name: "engine delivery without inbound request",
			ctx:  func(ctx context.Context) context.Context { return ctx },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc, url := newReceiver(t, http.StatusOK)
			if _, err := deliver(tt.ctx(context.Background()), t, newClient(10), url); err != nil {
				t.Fatalf("Do() error: %v", err)
			}

			h := <-rc.headers
			if got := h.Get("X-Request-ID"); got != tt.wantRequestID {
				t.Errorf("X-Request-ID = %q, want %q", got, tt.wantRequestID)
			}
			if got := h.Get("X-Correlation-ID"); got != tt.wantCorrelation {
				t.Errorf("X-Correlation-ID = %q, want %q", got, tt.wantCorrelation)
			}
			if got := h.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", got)
			}
		})
	}
}

func TestDo_CircuitBreaker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rc, url := newReceiver(t, 500, 500, 500, http.StatusOK)
	c := newClient(1)

	if err := c.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck() before failures = %v, want nil", err)
	}

	// One exhausted delivery opens the circuit.
	_, err := deliver(ctx, t, c, url)
	if err == nil {
		t.Fatal("Do() error = nil, want exhausted retries")
	}

	_, err = deliver(ctx, t, c, url)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Do() on open circuit error = %v, want ErrOpenState", err)
	}
	if err := c.HealthCheck(ctx); err == nil || !strings.Contains(err.Error(), "open") {
		t.Errorf("HealthCheck() = %v, want open circuit failure", err)
	}

	time.Sleep(80 * time.Millisecond)
	if err := c.HealthCheck(ctx); err == nil || !strings.Contains(err.Error(), "half-open") {
		t.Errorf("HealthCheck() = %v, want half-open degradation", err)
	}

	resp, err := deliver(ctx, t, c, url)
	if err != nil {
		t.Fatalf("probe Do() error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("probe status = %d, want 200", resp.StatusCode)
	}
	if err := c.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() after recovery = %v, want nil", err)
	}
	if got := rc.calls.Load(); got != 4 {
		t.Errorf("deliveries = %d, want 4 (three attempts and one probe)", got)
	}
}

func TestDo_CanceledContext(t *testing.T) {
	t.Parallel()

	rc, url := newReceiver(t, http.StatusOK)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := deliver(ctx, t, newClient(10), url); !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
	if got := rc.calls.Load(); got != 0 {
		t.Errorf("deliveries = %d, want 0", got)
	}
}

func TestDo_RateLimited(t *testing.T) {
	t.Parallel()

	cfg := clientConfig(10)
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1}
	c := httpclient.New(cfg, "webhook", nil, slog.New(slog.DiscardHandler))

	_, url := newReceiver(t, http.StatusOK)
	if _, err := deliver(context.Background(), t, c, url); err != nil {
		t.Fatalf("first Do() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := deliver(ctx, t, c, url); err == nil {
		t.Error("second Do() error = nil, want limiter to refuse within the deadline")
	}
}

func TestClient_Name(t *testing.T) {
	t.Parallel()

	if got := newClient(1).Name(); got != "webhook" {
		t.Errorf("Name() = %q, want webhook", got)
	}
}
