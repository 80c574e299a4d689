package ports

import (
	"context"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain/boundary"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/project"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/release"
)

// CommandResult describes an accepted aggregate command.
// Events is empty when the aggregate already matched the command.
type CommandResult struct {
	Stream  string
	Version int
	Events  []event.Event
}

// DeclareResult is the outcome of one declare command: the declaration
// aggregate's own result plus a summary of the child dispatch.
type DeclareResult struct {
	Declaration CommandResult

	// Dispatched counts child build commands handed to the engine.
	Dispatched int

	// Skipped lists entries of an unknown kind, which are never dispatched.
	Skipped []string

	// Failures holds child errors. Only populated in await dispatch mode;
	// in async mode failures are logged as they happen.
	Failures []error
}

// DeclarationService reconciles a whole declaration document.
// Implemented by the application layer; called by inbound adapters (handlers).
type DeclarationService interface {
	// Declare parses doc and reconciles the named declaration and every
	// child resource it lists.
	// Returns an error wrapping domain.ErrValidation if the document is
	// malformed, has an unexpected version, or names an incomplete entry.
	Declare(ctx context.Context, name string, doc []byte) (*DeclareResult, error)
}

// BoundaryService applies boundary build commands.
type BoundaryService interface {
	Build(ctx context.Context, decl boundary.Declaration) (CommandResult, error)
}

// ProjectService applies project build commands.
type ProjectService interface {
	Build(ctx context.Context, decl project.Declaration) (CommandResult, error)
}

// ReleaseService applies release build and status commands.
type ReleaseService interface {
	Build(ctx context.Context, decl release.Declaration) (CommandResult, error)

	// SetStatus activates or deactivates a release. A release that was never
	// built starts inactive.
	SetStatus(ctx context.Context, id identity.ReleaseID, active bool) (CommandResult, error)
}
