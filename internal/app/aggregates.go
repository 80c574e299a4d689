package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jsamuelsen11/resource-reconciler/internal/app/engine"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/boundary"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/declaration"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/project"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/release"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/logging"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.BoundaryService = (*BoundaryService)(nil)
	_ ports.ProjectService  = (*ProjectService)(nil)
	_ ports.ReleaseService  = (*ReleaseService)(nil)
)

// Aggregate folds run by the engine, one per aggregate kind.
var (
	declarationAggregate = engine.Aggregate[declaration.State]{Name: "declaration", Apply: declaration.Apply}
	boundaryAggregate    = engine.Aggregate[boundary.State]{Name: "boundary", Apply: boundary.Apply}
	projectAggregate     = engine.Aggregate[project.State]{Name: "project", Apply: project.Apply}
	releaseAggregate     = engine.Aggregate[release.State]{Name: "release", Apply: release.Apply}
)

// BoundaryService implements ports.BoundaryService on the engine.
type BoundaryService struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewBoundaryService creates a BoundaryService.
func NewBoundaryService(eng *engine.Engine, logger *slog.Logger) *BoundaryService {
	return &BoundaryService{engine: eng, logger: orDiscard(logger)}
}

// Build reconciles one boundary against its declaration.
func (s *BoundaryService) Build(ctx context.Context, d boundary.Declaration) (ports.CommandResult, error) {
	id := d.ID()
	if err := id.Validate(); err != nil {
		return ports.CommandResult{}, err
	}

	res, err := engine.Execute(ctx, s.engine, boundaryAggregate, id.Stream(),
		func(st boundary.State, _ int) ([]event.Payload, error) {
			return boundary.Build(st, d)
		})
	if err != nil {
		logFailure(ctx, s.logger, "BoundaryService.Build", id.Stream(), err)
		return ports.CommandResult{}, err
	}
	return res, nil
}

// ProjectService implements ports.ProjectService on the engine.
type ProjectService struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(eng *engine.Engine, logger *slog.Logger) *ProjectService {
	return &ProjectService{engine: eng, logger: orDiscard(logger)}
}

// Build reconciles one project against its declaration.
func (s *ProjectService) Build(ctx context.Context, d project.Declaration) (ports.CommandResult, error) {
	id := d.ID()
	if err := id.Validate(); err != nil {
		return ports.CommandResult{}, err
	}

	res, err := engine.Execute(ctx, s.engine, projectAggregate, id.Stream(),
		func(st project.State, _ int) ([]event.Payload, error) {
			return project.Build(st, d)
		})
	if err != nil {
		logFailure(ctx, s.logger, "ProjectService.Build", id.Stream(), err)
		return ports.CommandResult{}, err
	}
	return res, nil
}

// ReleaseService implements ports.ReleaseService on the engine.
type ReleaseService struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewReleaseService creates a ReleaseService.
func NewReleaseService(eng *engine.Engine, logger *slog.Logger) *ReleaseService {
	return &ReleaseService{engine: eng, logger: orDiscard(logger)}
}

// Build reconciles one release against its declaration.
func (s *ReleaseService) Build(ctx context.Context, d release.Declaration) (ports.CommandResult, error) {
	id := d.ID()
	if err := id.Validate(); err != nil {
		return ports.CommandResult{}, err
	}

	res, err := engine.Execute(ctx, s.engine, releaseAggregate, id.Stream(),
		func(st release.State, _ int) ([]event.Payload, error) {
			return release.Build(st, d)
		})
	if err != nil {
		logFailure(ctx, s.logger, "ReleaseService.Build", id.Stream(), err)
		return ports.CommandResult{}, err
	}
	return res, nil
}

// SetStatus activates or deactivates a release. A release with no events
// yet starts inactive, so SetStatus(false) on it appends nothing.
func (s *ReleaseService) SetStatus(ctx context.Context, id identity.ReleaseID, active bool) (ports.CommandResult, error) {
	if err := id.Validate(); err != nil {
		return ports.CommandResult{}, err
	}

	s.logger.InfoContext(ctx, "setting release status",
		logging.Stream(id.Stream()),
		slog.Bool("active", active),
	)

	res, err := engine.Execute(ctx, s.engine, releaseAggregate, id.Stream(),
		func(st release.State, _ int) ([]event.Payload, error) {
			return release.SetStatus(st, active), nil
		})
	if err != nil {
		logFailure(ctx, s.logger, "ReleaseService.SetStatus", id.Stream(), err)
		return ports.CommandResult{}, err
	}
	return res, nil
}

// logFailure logs command errors other than rejections, which are the
// caller's to report.
func logFailure(ctx context.Context, logger *slog.Logger, operation, stream string, err error) {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
		return
	}
	logger.ErrorContext(ctx, "aggregate command failed",
		logging.Operation(operation),
		logging.Stream(stream),
		logging.Err(err),
	)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
