package fanout_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/app/fanout"
)

var errRejected = errors.New("append rejected")

// build stands in for a child build command: it answers with the stream it
// would write and fails for streams ending in "broken".
func build(_ context.Context, stream string) (string, error) {
	if strings.HasSuffix(stream, "broken") {
		return "", fmt.Errorf("building %s: %w", stream, errRejected)
	}
	return stream + "@1", nil
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		workers    int
		streams    []string
		wantValues []string
		wantFailed []int
	}{
		{
			name:       "no children",
			workers:    4,
			streams:    []string{},
			wantValues: []string{},
		},
		{
			name:       "all children accepted",
			workers:    2,
			streams:    []string{"/boundary/acme/core", "/project/acme/core/web", "/release/acme-web/stable"},
			wantValues: []string{"/boundary/acme/core@1", "/project/acme/core/web@1", "/release/acme-web/stable@1"},
		},
		{
			name:       "one child fails, siblings still run",
			workers:    3,
			streams:    []string{"/project/acme/-/web", "/project/acme/-/broken", "/release/acme-web/stable"},
			wantValues: []string{"/project/acme/-/web@1", "", "/release/acme-web/stable@1"},
			wantFailed: []int{1},
		},
		{
			name:       "more workers than children",
			workers:    100,
			streams:    []string{"/declaration/acme", "/boundary/acme/core"},
			wantValues: []string{"/declaration/acme@1", "/boundary/acme/core@1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := fanout.Run(context.Background(), tt.workers, tt.streams, build)

			if results == nil {
				t.Fatal("Run() returned nil, want a non-nil slice")
			}
			if len(results) != len(tt.wantValues) {
				t.Fatalf("len(results) = %d, want %d", len(results), len(tt.wantValues))
			}
			failed := map[int]bool{}
			for _, i := range tt.wantFailed {
				failed[i] = true
			}
			for i, r := range results {
				if failed[i] != (r.Err != nil) {
					t.Errorf("results[%d].Err = %v, want failure %v", i, r.Err, failed[i])
				}
				if r.Value != tt.wantValues[i] {
					t.Errorf("results[%d].Value = %q, want %q", i, r.Value, tt.wantValues[i])
				}
			}
		})
	}
}

func TestRun_KeepsInputOrder(t *testing.T) {
	t.Parallel()

	// Slower children first, so completion order differs from input order.
	delays := map[string]time.Duration{
		"/boundary/acme/core":      30 * time.Millisecond,
		"/project/acme/core/web":   10 * time.Millisecond,
		"/release/acme-web/stable": 20 * time.Millisecond,
	}
	streams := []string{"/boundary/acme/core", "/project/acme/core/web", "/release/acme-web/stable"}

	results := fanout.Run(context.Background(), len(streams), streams, func(ctx context.Context, s string) (string, error) {
		time.Sleep(delays[s])
		return build(ctx, s)
	})

	for i, r := range results {
		if want := streams[i] + "@1"; r.Value != want {
			t.Errorf("results[%d].Value = %q, want %q", i, r.Value, want)
		}
	}
}

func TestRun_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		workers  int
		wantPeak int32
	}{
		{workers: 3, wantPeak: 3},
		{workers: 1, wantPeak: 1},
		{workers: 0, wantPeak: 1},
		{workers: -2, wantPeak: 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("workers=%d", tt.workers), func(t *testing.T) {
			t.Parallel()

			streams := make([]string, 12)
			for i := range streams {
				streams[i] = fmt.Sprintf("/release/acme-web/r%d", i)
			}

			var active, peak atomic.Int32
			fanout.Run(context.Background(), tt.workers, streams, func(ctx context.Context, s string) (string, error) {
				cur := active.Add(1)
				defer active.Add(-1)
				for {
					p := peak.Load()
					if cur <= p || peak.CompareAndSwap(p, cur) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				return build(ctx, s)
			})

			if got := peak.Load(); got > tt.wantPeak {
				t.Errorf("peak concurrency = %d, want at most %d", got, tt.wantPeak)
			}
		})
	}
}

func TestRun_CanceledBeforeTurn(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	streams := []string{"/project/acme/-/web", "/project/acme/-/api", "/project/acme/-/docs"}
	results := fanout.Run(ctx, 1, streams, func(ctx context.Context, s string) (string, error) {
		if calls.Add(1) == 1 {
			cancel()
		}
		return build(ctx, s)
	})

	if got := calls.Load(); got != 1 {
		t.Errorf("fn called %d times, want 1", got)
	}
	for i, r := range results[1:] {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i+1, r.Err)
		}
	}
}

func TestRun_RunningChildSeesCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := fanout.Run(ctx, 1, []string{"/release/acme-web/stable"}, func(ctx context.Context, _ string) (string, error) {
		cancel()
		return "", ctx.Err()
	})

	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("results[0].Err = %v, want context.Canceled", results[0].Err)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	results := fanout.Run(context.Background(), 2,
		[]string{"/project/acme/-/web", "/project/acme/-/broken", "/boundary/acme/broken"}, build)

	errs := fanout.Errors(results)
	if len(errs) != 2 {
		t.Fatalf("Errors() = %v, want 2 errors", errs)
	}
	for _, err := range errs {
		if !errors.Is(err, errRejected) {
			t.Errorf("error %v does not wrap %v", err, errRejected)
		}
	}
	if !strings.Contains(errs[0].Error(), "/project/acme/-/broken") {
		t.Errorf("errs[0] = %v, want the project stream first", errs[0])
	}

	if got := fanout.Errors(results[:1]); got != nil {
		t.Errorf("Errors(successes) = %v, want nil", got)
	}
}
