package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventLog      = (*Breaker)(nil)
	_ ports.HealthChecker = (*Breaker)(nil)
)

// BreakerSettings tunes the circuit around an event log.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive unavailable errors that opens
	// the circuit.
	MaxFailures int
	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration
	// HalfOpenLimit caps the probe calls allowed while half-open.
	HalfOpenLimit int
}

// Breaker wraps an event log in a circuit breaker. Only errors wrapping
// domain.ErrUnavailable count as failures; version conflicts and decode errors
// pass through without tripping it. While the circuit is open every call
// fails fast with domain.ErrUnavailable.
type Breaker struct {
	next    ports.EventLog
	appends *gobreaker.CircuitBreaker[int]
	replays *gobreaker.CircuitBreaker[[]event.Event]
}

// NewBreaker wraps next.
func NewBreaker(next ports.EventLog, s BreakerSettings, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}

	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: toUint32(s.HalfOpenLimit),
			Timeout:     s.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return int(counts.ConsecutiveFailures) >= max(s.MaxFailures, 1)
			},
			IsSuccessful: func(err error) bool {
				return !errors.Is(err, domain.ErrUnavailable)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state change",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			},
		}
	}

	return &Breaker{
		next:    next,
		appends: gobreaker.NewCircuitBreaker[int](settings("journal.append")),
		replays: gobreaker.NewCircuitBreaker[[]event.Event](settings("journal.replay")),
	}
}

// Append implements ports.EventLog.
func (b *Breaker) Append(ctx context.Context, stream string, expectedVersion int, events []event.Event) (int, error) {
	v, err := b.appends.Execute(func() (int, error) {
		return b.next.Append(ctx, stream, expectedVersion, events)
	})
	return v, rejected(err)
}

// Replay implements ports.EventLog.
func (b *Breaker) Replay(ctx context.Context, stream string) ([]event.Event, error) {
	events, err := b.replays.Execute(func() ([]event.Event, error) {
		return b.next.Replay(ctx, stream)
	})
	return events, rejected(err)
}

// Name identifies the log in readiness reports.
func (b *Breaker) Name() string {
	return "journal"
}

// HealthCheck fails while either circuit is open, then defers to the wrapped
// log when it can report its own health.
func (b *Breaker) HealthCheck(ctx context.Context) error {
	for _, cb := range []interface {
		Name() string
		State() gobreaker.State
	}{b.appends, b.replays} {
		switch cb.State() {
		case gobreaker.StateOpen:
			return fmt.Errorf("%s: failing (circuit breaker open)", cb.Name())
		case gobreaker.StateHalfOpen:
			return fmt.Errorf("%s: degraded (circuit breaker half-open)", cb.Name())
		}
	}
	if hc, ok := b.next.(ports.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Close closes the wrapped log when it holds resources.
func (b *Breaker) Close() error {
	if c, ok := b.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// rejected maps the breaker's own refusals onto domain.ErrUnavailable.
func rejected(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: journal: %w", domain.ErrUnavailable, err)
	}
	return err
}

func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
