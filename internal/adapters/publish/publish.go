// Package publish forwards appended events to downstream systems. Each
// backend in a subpackage is a ports.EventListener registered with the
// engine; this package holds the wire envelope they share.
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
)

// Envelope is the published form of one event.
type Envelope struct {
	ID         string          `json:"id"`
	Stream     string          `json:"stream"`
	Version    int             `json:"version"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Batch is the published form of one append.
type Batch struct {
	Stream string     `json:"stream"`
	Events []Envelope `json:"events"`
}

// Wrap builds the envelope for e.
func Wrap(e event.Event) (Envelope, error) {
	payload, err := event.Encode(e.Payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:         e.ID.String(),
		Stream:     e.Stream,
		Version:    e.Version,
		Kind:       string(e.Kind),
		Payload:    payload,
		OccurredAt: e.OccurredAt.UTC(),
	}, nil
}

// Encode marshals one event's envelope.
func Encode(e event.Event) ([]byte, error) {
	env, err := Wrap(e)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope for %s@%d: %w", e.Stream, e.Version, err)
	}
	return data, nil
}

// EncodeBatch marshals every event appended to stream in one call.
func EncodeBatch(stream string, events []event.Event) ([]byte, error) {
	b := Batch{Stream: stream, Events: make([]Envelope, len(events))}
	for i, e := range events {
		env, err := Wrap(e)
		if err != nil {
			return nil, err
		}
		b.Events[i] = env
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding batch for %s: %w", stream, err)
	}
	return data, nil
}
