// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and the aggregate engine through port
// interfaces.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/resource-reconciler/internal/app/engine"
	"github.com/jsamuelsen11/resource-reconciler/internal/app/fanout"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/declaration"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/logging"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/telemetry"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time check that DeclarationService implements ports.DeclarationService.
var _ ports.DeclarationService = (*DeclarationService)(nil)

// DispatchMode decides whether Declare waits for child commands.
type DispatchMode string

// Dispatch modes.
const (
	// DispatchAsync hands child commands to the engine and reconciles the
	// declaration without waiting for them. Child failures are logged.
	DispatchAsync DispatchMode = "async"

	// DispatchAwait runs every child command before the declaration's own
	// diff and reports child failures in the result.
	DispatchAwait DispatchMode = "await"
)

// IsValid reports whether m is a known mode.
func (m DispatchMode) IsValid() bool {
	return m == DispatchAsync || m == DispatchAwait
}

// DeclarationOptions tunes the declare command.
type DeclarationOptions struct {
	ExpectedVersion string
	UnknownKinds    declaration.UnknownPolicy
	DispatchMode    DispatchMode
	DispatchWorkers int
}

// DispatchError records one child command that failed during fan-out.
type DispatchError struct {
	Kind   string
	Stream string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatching %s %s: %v", e.Kind, e.Stream, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// DeclarationService implements ports.DeclarationService. It parses the
// document, fans one build command out per child resource, and reconciles
// the declaration's own resource set.
type DeclarationService struct {
	engine     *engine.Engine
	boundaries ports.BoundaryService
	projects   ports.ProjectService
	releases   ports.ReleaseService
	opts       DeclarationOptions
	metrics    *telemetry.Metrics
	logger     *slog.Logger

	inflight sync.WaitGroup
}

// NewDeclarationService creates a DeclarationService. Zero-valued options
// fall back to async dispatch, tracked unknown kinds, and one dispatch worker.
func NewDeclarationService(
	eng *engine.Engine,
	boundaries ports.BoundaryService,
	projects ports.ProjectService,
	releases ports.ReleaseService,
	opts DeclarationOptions,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *DeclarationService {
	if !opts.DispatchMode.IsValid() {
		opts.DispatchMode = DispatchAsync
	}
	if !opts.UnknownKinds.IsValid() {
		opts.UnknownKinds = declaration.TrackUnknown
	}
	opts.DispatchWorkers = max(opts.DispatchWorkers, 1)

	return &DeclarationService{
		engine:     eng,
		boundaries: boundaries,
		projects:   projects,
		releases:   releases,
		opts:       opts,
		metrics:    metrics,
		logger:     orDiscard(logger),
	}
}

// child is one build command bound for a child aggregate.
type child struct {
	kind   string
	stream string
	run    func(context.Context) error
}

// Declare reconciles the named declaration against doc.
func (s *DeclarationService) Declare(ctx context.Context, name string, doc []byte) (*ports.DeclareResult, error) {
	ctx = logging.WithAttrs(ctx, slog.String("declaration", name))
	s.logger.InfoContext(ctx, "declaring resources", slog.String("declaration", name))

	parsed, err := declaration.Parse(doc, s.opts.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	id := identity.DeclarationID{Name: name}
	plan, err := declaration.NewPlan(id, parsed, s.opts.UnknownKinds)
	if err != nil {
		return nil, err
	}

	result := &ports.DeclareResult{}
	for _, u := range plan.Skipped {
		s.logger.InfoContext(ctx, "skipping resource of unknown kind",
			slog.String("declaration", name),
			slog.String("resource", u.Name),
			slog.String("kind", u.Kind),
		)
		result.Skipped = append(result.Skipped, u.Name)
	}

	children := s.children(plan)
	result.Dispatched = len(children)

	switch s.opts.DispatchMode {
	case DispatchAwait:
		result.Failures = s.dispatch(ctx, children)
	default:
		// Children outlive the request that declared them.
		detached := context.WithoutCancel(ctx)
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			s.dispatch(detached, children)
		}()
	}

	res, err := engine.Execute(ctx, s.engine, declarationAggregate, id.Stream(),
		func(st declaration.State, _ int) ([]event.Payload, error) {
			return declaration.Declare(st, plan.Resources), nil
		})
	if err != nil {
		logFailure(ctx, s.logger, "DeclarationService.Declare", id.Stream(), err)
		return nil, err
	}
	result.Declaration = res

	return result, nil
}

// Drain waits for asynchronously dispatched child commands to finish.
func (s *DeclarationService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining child dispatches: %w", ctx.Err())
	}
}

// children binds every child declaration of plan to its service.
func (s *DeclarationService) children(plan declaration.Plan) []child {
	out := make([]child, 0, len(plan.Boundaries)+len(plan.Projects)+len(plan.Releases))
	for _, d := range plan.Boundaries {
		out = append(out, child{kind: "boundary", stream: d.ID().Stream(), run: func(ctx context.Context) error {
			_, err := s.boundaries.Build(ctx, d)
			return err
		}})
	}
	for _, d := range plan.Projects {
		out = append(out, child{kind: "project", stream: d.ID().Stream(), run: func(ctx context.Context) error {
			_, err := s.projects.Build(ctx, d)
			return err
		}})
	}
	for _, d := range plan.Releases {
		out = append(out, child{kind: "release", stream: d.ID().Stream(), run: func(ctx context.Context) error {
			_, err := s.releases.Build(ctx, d)
			return err
		}})
	}
	return out
}

// dispatch runs every child command. A failing child never stops its
// siblings; failures are logged and returned.
func (s *DeclarationService) dispatch(ctx context.Context, children []child) []error {
	results := fanout.Run(ctx, s.opts.DispatchWorkers, children, func(ctx context.Context, c child) (struct{}, error) {
		if err := c.run(ctx); err != nil {
			return struct{}{}, &DispatchError{Kind: c.kind, Stream: c.stream, Err: err}
		}
		return struct{}{}, nil
	})

	failures := fanout.Errors(results)
	for i, r := range results {
		if r.Err == nil {
			continue
		}
		s.metrics.RecordDispatchFailure(ctx, children[i].kind)
		s.logger.ErrorContext(ctx, "child dispatch failed",
			logging.Operation("Dispatch"),
			slog.String("kind", children[i].kind),
			logging.Stream(children[i].stream),
			logging.Err(r.Err),
		)
	}
	return failures
}
