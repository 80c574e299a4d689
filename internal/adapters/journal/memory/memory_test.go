package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/journal/memory"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
)

const stream = "/release/acme-web/stable"

func batch(payloads ...event.Payload) []event.Event {
	return event.Stamp(stream, payloads, time.Now())
}

func TestLog_AppendAndReplay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := memory.New()

	v, err := log.Append(ctx, stream, 0, batch(
		event.ReleaseDescriptionChanged{Description: "GA"},
		event.ReleaseStatusChanged{Active: true},
	))
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if v != 2 {
		t.Errorf("Append() version = %d, want 2", v)
	}

	v, err = log.Append(ctx, stream, 2, batch(event.ReleaseStatusChanged{Active: false}))
	if err != nil {
		t.Fatalf("second Append() error: %v", err)
	}
	if v != 3 {
		t.Errorf("second Append() version = %d, want 3", v)
	}

	events, err := log.Replay(ctx, stream)
	if err != nil {
		t.Fatalf("Replay() error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(Replay()) = %d, want 3", len(events))
	}
	for i, e := range events {
		if e.Version != i+1 {
			t.Errorf("events[%d].Version = %d, want %d", i, e.Version, i+1)
		}
	}
	if events[2].Payload != (event.ReleaseStatusChanged{Active: false}) {
		t.Errorf("events[2].Payload = %v, want status inactive", events[2].Payload)
	}
}

func TestLog_AppendConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := memory.New()

	if _, err := log.Append(ctx, stream, 0, batch(event.ReleaseStatusChanged{Active: true})); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	_, err := log.Append(ctx, stream, 0, batch(event.ReleaseStatusChanged{Active: false}))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Append() error = %v, want ErrConflict", err)
	}

	events, _ := log.Replay(ctx, stream)
	if len(events) != 1 {
		t.Errorf("len(Replay()) = %d after conflict, want 1", len(events))
	}
}

func TestLog_ReplayUnknownStream(t *testing.T) {
	t.Parallel()

	events, err := memory.New().Replay(context.Background(), "/release/none/none")
	if err != nil {
		t.Fatalf("Replay() error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Replay() = %v, want empty", events)
	}
}

func TestLog_ReplayReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := memory.New()
	_, _ = log.Append(ctx, stream, 0, batch(event.ReleaseStatusChanged{Active: true}))

	events, _ := log.Replay(ctx, stream)
	events[0].Payload = event.ReleaseStatusChanged{Active: false}

	again, _ := log.Replay(ctx, stream)
	if again[0].Payload != (event.ReleaseStatusChanged{Active: true}) {
		t.Error("mutating a replayed slice changed the stored stream")
	}
}

func TestLog_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	log := memory.New()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "append", call: func() error { _, err := log.Append(ctx, stream, 0, nil); return err }},
		{name: "replay", call: func() error { _, err := log.Replay(ctx, stream); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.call()
			if !errors.Is(err, domain.ErrUnavailable) {
				t.Errorf("error = %v, want ErrUnavailable", err)
			}
			if !errors.Is(err, context.Canceled) {
				t.Errorf("error = %v, want it to wrap context.Canceled", err)
			}
		})
	}
}

func TestLog_Streams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := memory.New()
	_, _ = log.Append(ctx, "/b", 0, event.Stamp("/b", []event.Payload{event.ResourceFound{Resource: "x"}}, time.Now()))
	_, _ = log.Append(ctx, "/a", 0, event.Stamp("/a", []event.Payload{event.ResourceFound{Resource: "x"}}, time.Now()))

	got := log.Streams()
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Errorf("Streams() = %v, want [/a /b]", got)
	}
}
