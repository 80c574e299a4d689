package publish_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/publish"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
)

func TestEncodeBatch(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := event.Stamp("/release/acme-web/stable", []event.Payload{
		event.ReleaseStatusChanged{Active: true},
	}, at)
	events[0].Version = 4

	data, err := publish.EncodeBatch("/release/acme-web/stable", events)
	if err != nil {
		t.Fatalf("EncodeBatch() error: %v", err)
	}

	var got publish.Batch
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal batch: %v", err)
	}
	if got.Stream != "/release/acme-web/stable" || len(got.Events) != 1 {
		t.Fatalf("batch = %+v, want one event on the release stream", got)
	}

	env := got.Events[0]
	if env.ID != events[0].ID.String() || env.Version != 4 || env.Kind != string(event.KindReleaseStatusChanged) {
		t.Errorf("envelope = %+v, want id %s version 4 kind %s", env, events[0].ID, event.KindReleaseStatusChanged)
	}
	if !env.OccurredAt.Equal(at) {
		t.Errorf("OccurredAt = %v, want %v", env.OccurredAt, at)
	}

	payload, err := event.Decode(event.Kind(env.Kind), env.Payload)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if payload != (event.ReleaseStatusChanged{Active: true}) {
		t.Errorf("payload = %v, want active status", payload)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	e := event.New("/declaration/acme", event.ResourceFound{Resource: "web"}, time.Now())
	e.Version = 1

	data, err := publish.Encode(e)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	var env publish.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Stream != "/declaration/acme" || env.Version != 1 {
		t.Errorf("envelope = %s@%d, want /declaration/acme@1", env.Stream, env.Version)
	}
}
