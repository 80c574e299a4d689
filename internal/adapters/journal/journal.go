// Package journal holds what the event log adapters share: the stored row
// shape and a circuit-breaking decorator. Concrete logs live in the memory,
// sqlite, and postgres subpackages.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
)

// Row is one stored event. Payload is the JSON body of the event's kind and
// OccurredAt is Unix nanoseconds in UTC.
type Row struct {
	ID         string
	Stream     string
	Version    int
	Kind       string
	Payload    string
	OccurredAt int64
}

// Rows encodes events for stream, numbering them from expectedVersion+1.
func Rows(stream string, expectedVersion int, events []event.Event) ([]Row, error) {
	rows := make([]Row, len(events))
	for i, e := range events {
		payload, err := event.Encode(e.Payload)
		if err != nil {
			return nil, err
		}
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		rows[i] = Row{
			ID:         id.String(),
			Stream:     stream,
			Version:    expectedVersion + i + 1,
			Kind:       string(e.Kind),
			Payload:    string(payload),
			OccurredAt: e.OccurredAt.UTC().UnixNano(),
		}
	}
	return rows, nil
}

// Event decodes a stored row.
func (r Row) Event() (event.Event, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return event.Event{}, fmt.Errorf("event %s@%d has a malformed id: %w", r.Stream, r.Version, err)
	}
	kind := event.Kind(r.Kind)
	payload, err := event.Decode(kind, []byte(r.Payload))
	if err != nil {
		return event.Event{}, fmt.Errorf("event %s@%d: %w", r.Stream, r.Version, err)
	}
	return event.Event{
		ID:         id,
		Stream:     r.Stream,
		Version:    r.Version,
		Kind:       kind,
		Payload:    payload,
		OccurredAt: time.Unix(0, r.OccurredAt).UTC(),
	}, nil
}

// Conflict builds the error returned when a stream moved past the version a
// writer expected.
func Conflict(stream string, current, expected int) error {
	return fmt.Errorf("%w: %s is at version %d, expected %d", domain.ErrConflict, stream, current, expected)
}

// Unavailable marks a store failure as retryable by the caller.
func Unavailable(op string, err error) error {
	if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, op, err)
}
