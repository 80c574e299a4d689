// Package event defines the immutable facts recorded in aggregate streams.
//
// Payload is a closed sum type: only the types declared in this package
// implement it. Each payload type carries its own Kind discriminant, which is
// what the journal stores next to the JSON-encoded payload.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownKind is returned when a kind has no payload type, or when an
// aggregate fold receives a payload it does not own.
var ErrUnknownKind = errors.New("unknown event kind")

// Kind is the stored discriminant of an event.
type Kind string

// Event kinds, grouped by owning aggregate.
const (
	KindResourceFound   Kind = "declaration.resource-found"
	KindResourceDropped Kind = "declaration.resource-dropped"

	KindBoundaryDescriptionChanged Kind = "boundary.description-changed"
	KindBoundaryOwnerAdded         Kind = "boundary.owner-added"
	KindBoundaryOwnerRemoved       Kind = "boundary.owner-removed"
	KindBoundaryProjectFound       Kind = "boundary.project-found"
	KindBoundaryProjectDropped     Kind = "boundary.project-dropped"

	KindProjectDescriptionChanged Kind = "project.description-changed"
	KindProjectOwnerAdded         Kind = "project.owner-added"
	KindProjectOwnerRemoved       Kind = "project.owner-removed"
	KindProjectReleaseFound       Kind = "project.release-found"
	KindProjectReleaseDropped     Kind = "project.release-dropped"

	KindReleaseDescriptionChanged Kind = "release.description-changed"
	KindReleaseStatusChanged      Kind = "release.status-changed"
)

// Payload is the kind-specific body of an event.
type Payload interface {
	Kind() Kind
	sealed()
}

// Event is one entry of an aggregate stream. Version is the 1-based position
// of the event in its stream and is assigned by the journal.
type Event struct {
	ID         uuid.UUID
	Stream     string
	Version    int
	Kind       Kind
	Payload    Payload
	OccurredAt time.Time
}

// New wraps a payload into an event for stream. The version is left at zero
// until the journal accepts it.
func New(stream string, p Payload, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Stream:     stream,
		Kind:       p.Kind(),
		Payload:    p,
		OccurredAt: at.UTC(),
	}
}

// Stamp wraps every payload into events for stream sharing one timestamp.
func Stamp(stream string, payloads []Payload, at time.Time) []Event {
	events := make([]Event, len(payloads))
	for i, p := range payloads {
		events[i] = New(stream, p, at)
	}
	return events
}

// Encode serializes a payload to JSON.
func Encode(p Payload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", p.Kind(), err)
	}
	return data, nil
}

// Decode deserializes the JSON payload stored for kind.
func Decode(kind Kind, data []byte) (Payload, error) {
	decode, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	p, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", kind, err)
	}
	return p, nil
}

// Kinds returns every registered kind.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	return kinds
}

// Fold replays events over initial using apply, stopping at the first error.
func Fold[S any](initial S, events []Event, apply func(S, Event) (S, error)) (S, error) {
	state := initial
	for _, e := range events {
		next, err := apply(state, e)
		if err != nil {
			return initial, fmt.Errorf("applying %s at %s@%d: %w", e.Kind, e.Stream, e.Version, err)
		}
		state = next
	}
	return state, nil
}

// Unexpected reports a payload that an aggregate fold does not own.
func Unexpected(aggregate string, e Event) error {
	return fmt.Errorf("%w: %s does not apply %q", ErrUnknownKind, aggregate, e.Kind)
}
