package event_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
)

func TestDecode_RoundTripsEveryKind(t *testing.T) {
	t.Parallel()

	owner := event.Owner{Name: "A", Email: "a@x"}
	payloads := []event.Payload{
		event.ResourceFound{Resource: "web"},
		event.ResourceDropped{Resource: "web"},
		event.BoundaryDescriptionChanged{Description: "payments"},
		event.BoundaryOwnerAdded{Owner: owner},
		event.BoundaryOwnerRemoved{Owner: owner},
		event.BoundaryProjectFound{Project: "web"},
		event.BoundaryProjectDropped{Project: "web"},
		event.ProjectDescriptionChanged{Description: "site"},
		event.ProjectOwnerAdded{Owner: owner},
		event.ProjectOwnerRemoved{Owner: owner},
		event.ProjectReleaseFound{Release: "stable"},
		event.ProjectReleaseDropped{Release: "stable"},
		event.ReleaseDescriptionChanged{Description: "GA"},
		event.ReleaseStatusChanged{Active: true},
	}

	if len(payloads) != len(event.Kinds()) {
		t.Fatalf("covered %d payloads, registry has %d kinds", len(payloads), len(event.Kinds()))
	}

	for _, p := range payloads {
		t.Run(string(p.Kind()), func(t *testing.T) {
			t.Parallel()

			data, err := event.Encode(p)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			got, err := event.Decode(p.Kind(), data)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != p {
				t.Errorf("Decode() = %#v, want %#v", got, p)
			}
		})
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := event.Decode("declaration.renamed", []byte(`{}`))
	if !errors.Is(err, event.ErrUnknownKind) {
		t.Errorf("Decode() error = %v, want ErrUnknownKind", err)
	}
}

func TestDecode_MalformedPayload(t *testing.T) {
	t.Parallel()

	_, err := event.Decode(event.KindReleaseStatusChanged, []byte(`{"active":"yes"}`))
	if err == nil {
		t.Fatal("Decode() error = nil, want error for malformed payload")
	}
}

func TestStamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	events := event.Stamp("/declaration/acme", []event.Payload{
		event.ResourceFound{Resource: "web"},
		event.ResourceFound{Resource: "stable"},
	}, at)

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].ID == events[1].ID {
		t.Error("events share an ID, want distinct IDs")
	}
	for _, e := range events {
		if e.Stream != "/declaration/acme" {
			t.Errorf("Stream = %q, want %q", e.Stream, "/declaration/acme")
		}
		if e.Kind != event.KindResourceFound {
			t.Errorf("Kind = %q, want %q", e.Kind, event.KindResourceFound)
		}
		if !e.OccurredAt.Equal(at) || e.OccurredAt.Location() != time.UTC {
			t.Errorf("OccurredAt = %v, want %v in UTC", e.OccurredAt, at)
		}
		if e.Version != 0 {
			t.Errorf("Version = %d, want 0 before append", e.Version)
		}
	}
}
