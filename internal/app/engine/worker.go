package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/logging"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/telemetry"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Aggregate names an aggregate kind and its event fold.
type Aggregate[S any] struct {
	Name  string
	Apply func(S, event.Event) (S, error)
}

// Decide inspects the current state and version of a stream and returns the
// payloads to append. Returning no payloads accepts the command without
// writing. Version is zero for a stream that was never written.
type Decide[S any] func(state S, version int) ([]event.Payload, error)

// worker is the single writer for one address. Every field below jobs is
// owned by the worker goroutine.
type worker struct {
	addr   identity.Address
	stream string
	jobs   chan func()
	exited chan struct{}

	state    any
	version  int
	hydrated bool
}

func newWorker(addr identity.Address, stream string, mailbox int) *worker {
	return &worker{
		addr:   addr,
		stream: stream,
		jobs:   make(chan func(), mailbox),
		exited: make(chan struct{}),
	}
}

type outcome struct {
	result ports.CommandResult
	err    error
}

// Execute runs decide on the worker for stream and blocks until the command
// finishes. Once queued, the command runs to completion even if ctx ends;
// Execute then returns ctx's error without the result.
func Execute[S any](ctx context.Context, e *Engine, agg Aggregate[S], stream string, decide Decide[S]) (ports.CommandResult, error) {
	start := time.Now()

	ctx, span := otel.Tracer("engine").Start(ctx, "engine."+agg.Name,
		trace.WithAttributes(
			attribute.String("aggregate", agg.Name),
			attribute.String("stream", stream),
		),
	)
	defer span.End()

	res, err := execute(ctx, e, agg, stream, decide)

	span.SetAttributes(attribute.Int("version", res.Version), attribute.Int("events", len(res.Events)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	e.metrics.RecordCommand(ctx, agg.Name, outcomeOf(err), time.Since(start))

	return res, err
}

func execute[S any](ctx context.Context, e *Engine, agg Aggregate[S], stream string, decide Decide[S]) (ports.CommandResult, error) {
	w, err := e.worker(stream)
	if err != nil {
		return ports.CommandResult{}, err
	}

	detached := context.WithoutCancel(ctx)
	done := make(chan outcome, 1)
	job := func() {
		jobCtx, cancel := context.WithTimeout(detached, e.timeout)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				w.hydrated = false
				done <- outcome{err: fmt.Errorf("%s command on %s panicked: %v", agg.Name, stream, r)}
			}
		}()

		res, err := handle(jobCtx, e, w, agg, decide)
		done <- outcome{result: res, err: err}
	}

	select {
	case w.jobs <- job:
	case <-e.quit:
		return ports.CommandResult{}, ErrStopped
	case <-ctx.Done():
		return ports.CommandResult{}, ctx.Err()
	}

	select {
	case o := <-done:
		return o.result, o.err
	case <-w.exited:
		select {
		case o := <-done:
			return o.result, o.err
		default:
			return ports.CommandResult{}, ErrStopped
		}
	case <-ctx.Done():
		return ports.CommandResult{}, ctx.Err()
	}
}

// handle runs one command on the worker goroutine. State is replaced only
// after the log accepts the events. Any failed append drops the cached state,
// and a version conflict retries from a fresh replay.
func handle[S any](ctx context.Context, e *Engine, w *worker, agg Aggregate[S], decide Decide[S]) (ports.CommandResult, error) {
	logger := logging.FromContext(ctx)

	for attempt := 0; ; attempt++ {
		state, err := hydrate(ctx, e, w, agg)
		if err != nil {
			return ports.CommandResult{}, err
		}

		payloads, err := decide(state, w.version)
		if err != nil {
			return ports.CommandResult{}, err
		}
		if len(payloads) == 0 {
			return ports.CommandResult{Stream: w.stream, Version: w.version}, nil
		}

		events := event.Stamp(w.stream, payloads, e.now())
		for i := range events {
			events[i].Version = w.version + i + 1
		}

		next, err := event.Fold(state, events, agg.Apply)
		if err != nil {
			return ports.CommandResult{}, err
		}

		version, err := e.log.Append(ctx, w.stream, w.version, events)
		if err != nil {
			// The stream moved, or the append may have landed anyway.
			w.hydrated = false
		}
		if errors.Is(err, domain.ErrConflict) && attempt < e.retries {
			e.metrics.RecordConflictRetry(ctx, agg.Name)
			logger.WarnContext(ctx, "retrying command after version conflict",
				logging.Operation("engine.Execute"),
				slog.String("aggregate", agg.Name),
				logging.Stream(w.stream),
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", e.retries),
				logging.Err(err),
			)
			if err := e.backoff.Wait(ctx, attempt+1); err != nil {
				return ports.CommandResult{}, fmt.Errorf("waiting to retry %s: %w", w.stream, err)
			}
			continue
		}
		if err != nil {
			return ports.CommandResult{}, fmt.Errorf("appending to %s: %w", w.stream, err)
		}

		w.state = next
		w.version = version
		e.metrics.RecordAppended(ctx, agg.Name, kinds(events))
		e.notify(ctx, w.stream, events)

		return ports.CommandResult{Stream: w.stream, Version: version, Events: events}, nil
	}
}

// hydrate returns the worker's cached state, replaying the stream first if
// the cache is cold.
func hydrate[S any](ctx context.Context, e *Engine, w *worker, agg Aggregate[S]) (S, error) {
	var zero S

	if !w.hydrated {
		events, err := e.log.Replay(ctx, w.stream)
		if err != nil {
			return zero, fmt.Errorf("replaying %s: %w", w.stream, err)
		}
		state, err := event.Fold(zero, events, agg.Apply)
		if err != nil {
			return zero, err
		}
		w.state = state
		w.version = len(events)
		w.hydrated = true
	}

	state, ok := w.state.(S)
	if !ok {
		return zero, fmt.Errorf("stream %s holds %T, not %s state", w.stream, w.state, agg.Name)
	}
	return state, nil
}

func kinds(events []event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = string(e.Kind)
	}
	return out
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeAccepted
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		return telemetry.OutcomeRejected
	case errors.Is(err, domain.ErrConflict):
		return telemetry.OutcomeConflict
	case errors.Is(err, domain.ErrUnavailable):
		return telemetry.OutcomeUnavailable
	default:
		return telemetry.OutcomeError
	}
}
