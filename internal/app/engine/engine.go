// Package engine runs aggregate commands with one single-writer worker per
// aggregate address.
//
// Each address gets a goroutine draining a bounded FIFO mailbox. The worker
// hydrates its aggregate by replaying the stream on first use, folds the
// events a command decides on into a copy of the state, appends them with the
// expected version, and keeps the new state only once the append succeeds.
// Commands for different addresses run in parallel.
//
//	eng := engine.New(log, engine.WithListeners(pub), engine.WithMetrics(m))
//	eng.Start(ctx)
//	defer eng.Shutdown(ctx)
//
//	res, err := engine.Execute(ctx, eng, releases, id.Stream(), decide)
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/backoff"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/logging"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/telemetry"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Default tuning values, used when the matching option is not given.
const (
	DefaultMailboxSize     = 64
	DefaultConflictRetries = 3
	DefaultCommandTimeout  = 30 * time.Second
)

var (
	// ErrNotStarted is returned for commands sent before Start.
	ErrNotStarted = errors.New("engine not started")

	// ErrStopped is returned for commands sent during or after Shutdown.
	ErrStopped = fmt.Errorf("engine stopped: %w", domain.ErrUnavailable)
)

// Compile-time interface check.
var _ ports.HealthChecker = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithListeners registers listeners notified after every successful append.
func WithListeners(listeners ...ports.EventListener) Option {
	return func(e *Engine) {
		e.listeners = append(e.listeners, listeners...)
	}
}

// WithMetrics records command metrics. A nil value disables recording.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets the logger for lifecycle messages. Command messages use the
// logger carried by the command context.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMailboxSize bounds the number of queued commands per address.
func WithMailboxSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.mailboxSize = n
		}
	}
}

// WithConflictRetries sets how many times a command is re-run after a version
// conflict and the backoff between attempts.
func WithConflictRetries(n int, p backoff.Policy) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.retries = n
		}
		e.backoff = p
	}
}

// WithCommandTimeout bounds how long one command may run once dequeued.
func WithCommandTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine owns the address-to-worker table and the event log every worker
// writes to.
type Engine struct {
	log       ports.EventLog
	listeners []ports.EventListener
	metrics   *telemetry.Metrics
	logger    *slog.Logger

	mailboxSize int
	retries     int
	backoff     backoff.Policy
	timeout     time.Duration
	now         func() time.Time

	mu       sync.Mutex
	workers  map[identity.Address]*worker
	started  bool
	stopping bool
	quit     chan struct{}
	group    errgroup.Group
}

// New creates an engine writing to log. Call Start before sending commands.
func New(log ports.EventLog, opts ...Option) *Engine {
	e := &Engine{
		log:         log,
		logger:      slog.Default(),
		mailboxSize: DefaultMailboxSize,
		retries:     DefaultConflictRetries,
		backoff: backoff.Policy{
			Initial:    10 * time.Millisecond,
			Max:        time.Second,
			Multiplier: 2,
		},
		timeout: DefaultCommandTimeout,
		now:     time.Now,
		workers: make(map[identity.Address]*worker),
		quit:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start allows commands to be accepted. Workers are created lazily on the
// first command for their address.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return
	}
	e.started = true
	e.logger.InfoContext(ctx, "engine started",
		slog.Int("mailbox_size", e.mailboxSize),
		slog.Int("conflict_retries", e.retries),
	)
}

// Shutdown stops accepting commands, lets every worker finish the commands
// already queued, and waits for them or for ctx to end.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if !e.started || e.stopping {
		e.mu.Unlock()
		return nil
	}
	e.stopping = true
	workers := len(e.workers)
	close(e.quit)
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = e.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.InfoContext(ctx, "engine stopped", slog.Int("workers", workers))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining %d workers: %w", workers, ctx.Err())
	}
}

// Name identifies the engine in readiness reports.
func (e *Engine) Name() string {
	return "engine"
}

// HealthCheck fails unless the engine is accepting commands.
func (e *Engine) HealthCheck(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case !e.started:
		return ErrNotStarted
	case e.stopping:
		return ErrStopped
	default:
		return nil
	}
}

// Workers reports the number of live workers.
func (e *Engine) Workers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.workers)
}

// worker returns the live worker for stream, creating it under the table
// lock so that at most one exists per address.
func (e *Engine) worker(stream string) (*worker, error) {
	addr := identity.AddressOf(stream)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case !e.started:
		return nil, ErrNotStarted
	case e.stopping:
		return nil, ErrStopped
	}

	if w, ok := e.workers[addr]; ok {
		if w.stream != stream {
			return nil, fmt.Errorf("address %s is bound to %s, not %s", addr, w.stream, stream)
		}
		return w, nil
	}

	w := newWorker(addr, stream, e.mailboxSize)
	e.workers[addr] = w
	e.group.Go(func() error {
		e.loop(w)
		return nil
	})
	return w, nil
}

// loop drains w's mailbox until shutdown, then runs whatever is still queued.
func (e *Engine) loop(w *worker) {
	defer close(w.exited)

	for {
		select {
		case job := <-w.jobs:
			job()
		case <-e.quit:
			for {
				select {
				case job := <-w.jobs:
					job()
				default:
					return
				}
			}
		}
	}
}

// notify forwards appended events to every listener. Listener failures are
// logged and never fail the command.
func (e *Engine) notify(ctx context.Context, stream string, events []event.Event) {
	var g errgroup.Group
	for _, l := range e.listeners {
		g.Go(func() error {
			if err := l.Appended(ctx, stream, events); err != nil {
				e.metrics.RecordPublish(ctx, l.Name(), telemetry.OutcomeError)
				logging.FromContext(ctx).WarnContext(ctx, "event listener failed",
					logging.Operation("engine.Notify"),
					slog.String("listener", l.Name()),
					logging.Stream(stream),
					logging.Err(err),
				)
				return nil
			}
			e.metrics.RecordPublish(ctx, l.Name(), telemetry.OutcomeAccepted)
			return nil
		})
	}
	_ = g.Wait()
}
