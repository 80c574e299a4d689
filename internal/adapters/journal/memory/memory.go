// Package memory provides an in-process event log. It backs the local and
// test profiles and the engine tests; streams are lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/journal"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventLog      = (*Log)(nil)
	_ ports.HealthChecker = (*Log)(nil)
)

// Log is a concurrency-safe, map-backed event log.
type Log struct {
	mu      sync.RWMutex
	streams map[string][]event.Event
}

// New creates an empty log.
func New() *Log {
	return &Log{streams: make(map[string][]event.Event)}
}

// Append implements ports.EventLog.
func (l *Log) Append(ctx context.Context, stream string, expectedVersion int, events []event.Event) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, journal.Unavailable("appending to "+stream, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current := len(l.streams[stream])
	if current != expectedVersion {
		return current, journal.Conflict(stream, current, expectedVersion)
	}

	for i, e := range events {
		e.Stream = stream
		e.Version = current + i + 1
		l.streams[stream] = append(l.streams[stream], e)
	}
	return len(l.streams[stream]), nil
}

// Replay implements ports.EventLog.
func (l *Log) Replay(ctx context.Context, stream string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, journal.Unavailable("replaying "+stream, err)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.streams[stream]), nil
}

// Streams returns the names of every written stream, sorted.
func (l *Log) Streams() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.streams))
	for name := range l.streams {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Name implements ports.HealthChecker.
func (l *Log) Name() string {
	return "journal"
}

// HealthCheck implements ports.HealthChecker. An in-process log is always
// reachable.
func (l *Log) HealthCheck(context.Context) error {
	return nil
}
