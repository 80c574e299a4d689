package release_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/release"
)

const stream = "/release/acme-web/stable"

func declared(description string, active bool) release.Declaration {
	return release.Declaration{
		Declaration: "acme",
		Project:     "acme-web",
		Name:        "stable",
		Description: description,
		Active:      active,
	}
}

// commit folds payloads over s the way the engine does after an append.
func commit(t *testing.T, s release.State, payloads []event.Payload) release.State {
	t.Helper()

	next, err := event.Fold(s, event.Stamp(stream, payloads, time.Now()), release.Apply)
	if err != nil {
		t.Fatalf("Fold() error: %v", err)
	}
	return next
}

func TestBuild_FirstDeclaration(t *testing.T) {
	t.Parallel()

	got, err := release.Build(release.State{}, declared("GA", true))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := []event.Payload{
		event.ReleaseDescriptionChanged{Description: "GA"},
		event.ReleaseStatusChanged{Active: true},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
}

func TestBuild_OnlyDescriptionChanged(t *testing.T) {
	t.Parallel()

	s := release.State{Description: "GA", Active: true}

	got, err := release.Build(s, declared("General availability", true))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := []event.Payload{event.ReleaseDescriptionChanged{Description: "General availability"}}
	if !slices.Equal(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	d := declared("GA", true)

	first, err := release.Build(release.State{}, d)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	s := commit(t, release.State{}, first)

	second, err := release.Build(s, d)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second Build() = %v, want no events", second)
	}
}

func TestBuild_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		decl  release.Declaration
		field string
	}{
		{name: "no project", decl: release.Declaration{Declaration: "acme", Name: "stable"}, field: "in-project"},
		{name: "no name", decl: release.Declaration{Declaration: "acme", Project: "acme-web"}, field: "name"},
		{name: "no declaration", decl: release.Declaration{Project: "acme-web", Name: "stable"}, field: "declaration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := release.Build(release.State{}, tt.decl)
			if got != nil {
				t.Errorf("Build() = %v, want no events on rejection", got)
			}

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Build() error = %v, want *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("ValidationError.Fields missing %q, got %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestSetStatus(t *testing.T) {
	t.Parallel()

	if got := release.SetStatus(release.State{Active: true}, true); len(got) != 0 {
		t.Errorf("SetStatus(same) = %v, want no events", got)
	}

	got := release.SetStatus(release.State{Active: true}, false)
	want := []event.Payload{event.ReleaseStatusChanged{Active: false}}
	if !slices.Equal(got, want) {
		t.Errorf("SetStatus(changed) = %v, want %v", got, want)
	}
}

func TestApply_ReplayMatchesIncremental(t *testing.T) {
	t.Parallel()

	var all []event.Event
	incremental := release.State{}
	for _, d := range []release.Declaration{
		declared("alpha", false),
		declared("beta", true),
		declared("beta", false),
		declared("GA", true),
	} {
		payloads, err := release.Build(incremental, d)
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		events := event.Stamp(stream, payloads, time.Now())
		for _, e := range events {
			incremental, err = release.Apply(incremental, e)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
		}
		all = append(all, events...)
	}

	replayed, err := event.Fold(release.State{}, all, release.Apply)
	if err != nil {
		t.Fatalf("Fold() error: %v", err)
	}
	if replayed != incremental {
		t.Errorf("replayed = %+v, incremental = %+v", replayed, incremental)
	}
}

func TestApply_ForeignEvent(t *testing.T) {
	t.Parallel()

	e := event.New(stream, event.ResourceFound{Resource: "web"}, time.Now())
	if _, err := release.Apply(release.State{}, e); !errors.Is(err, event.ErrUnknownKind) {
		t.Errorf("Apply() error = %v, want ErrUnknownKind", err)
	}
}
