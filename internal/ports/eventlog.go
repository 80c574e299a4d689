package ports

import (
	"context"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
)

// EventLog is the append-only store of per-aggregate event streams.
// A stream's version is the number of events it holds.
type EventLog interface {
	// Append writes events to the end of stream if its current version equals
	// expectedVersion, and returns the new version. Events are stored with
	// versions expectedVersion+1 onwards.
	// Returns an error wrapping domain.ErrConflict on a version mismatch and
	// domain.ErrUnavailable when the log cannot be reached.
	Append(ctx context.Context, stream string, expectedVersion int, events []event.Event) (int, error)

	// Replay returns every event of stream in append order. A stream that was
	// never written replays as empty.
	Replay(ctx context.Context, stream string) ([]event.Event, error)
}

// EventListener observes events after they are durably appended.
// Listener errors never fail the command that produced the events.
type EventListener interface {
	// Name identifies the listener in logs and metrics (e.g., "redis").
	Name() string

	// Appended is called once per successful append, in stream order.
	Appended(ctx context.Context, stream string, events []event.Event) error
}
