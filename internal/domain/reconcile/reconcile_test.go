package reconcile_test

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/reconcile"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		declared    []string
		current     []string
		wantDropped []string
		wantFound   []string
	}{
		{
			name:      "all new",
			declared:  []string{"web", "stable"},
			wantFound: []string{"stable", "web"},
		},
		{
			name:        "all dropped",
			current:     []string{"web", "stable"},
			wantDropped: []string{"stable", "web"},
		},
		{
			name:     "unchanged",
			declared: []string{"web", "stable"},
			current:  []string{"stable", "web"},
		},
		{
			name:        "mixed",
			declared:    []string{"stable", "beta"},
			current:     []string{"web", "stable"},
			wantDropped: []string{"web"},
			wantFound:   []string{"beta"},
		},
		{
			name:      "duplicates collapse",
			declared:  []string{"web", "web"},
			wantFound: []string{"web"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dropped, found := reconcile.Diff(tt.declared, reconcile.NewSet(tt.current...))
			if !slices.Equal(dropped, tt.wantDropped) {
				t.Errorf("dropped = %v, want %v", dropped, tt.wantDropped)
			}
			if !slices.Equal(found, tt.wantFound) {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
		})
	}
}

func TestEvents_DropsBeforeFounds(t *testing.T) {
	t.Parallel()

	got := reconcile.Events([]string{"b"}, reconcile.NewSet("a"), drop, find)

	want := []event.Payload{
		event.ResourceDropped{Resource: "a"},
		event.ResourceFound{Resource: "b"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Events() = %v, want %v", got, want)
	}
}

func TestEvents_Convergence(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))

	for i := range 200 {
		declared := randomNames(rng)
		current := reconcile.NewSet(randomNames(rng)...)

		payloads := reconcile.Events(declared, current, drop, find)

		seen := make(map[event.Payload]bool, len(payloads))
		state := current
		for _, p := range payloads {
			if seen[p] {
				t.Fatalf("run %d: duplicate event %v", i, p)
			}
			seen[p] = true

			switch e := p.(type) {
			case event.ResourceDropped:
				if !state.Has(e.Resource) {
					t.Fatalf("run %d: dropped %q which was not current", i, e.Resource)
				}
				state = state.Without(e.Resource)
			case event.ResourceFound:
				if state.Has(e.Resource) {
					t.Fatalf("run %d: found %q which was already current", i, e.Resource)
				}
				state = state.With(e.Resource)
			}
		}

		if !slices.Equal(state.Sorted(), reconcile.NewSet(declared...).Sorted()) {
			t.Fatalf("run %d: converged to %v, want %v", i, state.Sorted(), reconcile.NewSet(declared...).Sorted())
		}
	}
}

func TestOwners(t *testing.T) {
	t.Parallel()

	a := event.Owner{Name: "A", Email: "a@x"}
	b := event.Owner{Name: "B", Email: "b@x"}
	renamed := event.Owner{Name: "Alice", Email: "a@x"}

	got := reconcile.Owners(
		[]event.Owner{renamed, b},
		[]event.Owner{a, b},
		func(o event.Owner) event.Payload { return event.ProjectOwnerRemoved{Owner: o} },
		func(o event.Owner) event.Payload { return event.ProjectOwnerAdded{Owner: o} },
	)

	want := []event.Payload{
		event.ProjectOwnerRemoved{Owner: a},
		event.ProjectOwnerAdded{Owner: renamed},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Owners() = %v, want %v", got, want)
	}
}

func drop(n string) event.Payload { return event.ResourceDropped{Resource: n} }
func find(n string) event.Payload { return event.ResourceFound{Resource: n} }

func randomNames(rng *rand.Rand) []string {
	n := rng.IntN(8)
	names := make([]string, n)
	for i := range names {
		names[i] = "r" + strconv.Itoa(rng.IntN(10))
	}
	return names
}
