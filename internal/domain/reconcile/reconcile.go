// Package reconcile implements set convergence between a declared set of
// names and the set an aggregate currently holds.
package reconcile

import (
	"slices"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
)

// Set is an unordered collection of names.
type Set map[string]struct{}

// NewSet builds a set from names, ignoring duplicates.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// With returns a copy of s including name.
func (s Set) With(name string) Set {
	out := s.clone()
	out[name] = struct{}{}
	return out
}

// Without returns a copy of s excluding name.
func (s Set) Without(name string) Set {
	out := s.clone()
	delete(out, name)
	return out
}

func (s Set) clone() Set {
	out := make(Set, len(s)+1)
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Diff compares the declared names against the current set. dropped holds
// current names no longer declared, found holds declared names not yet
// current. Both are sorted and free of duplicates.
func Diff(declared []string, current Set) (dropped, found []string) {
	want := NewSet(declared...)
	for _, n := range current.Sorted() {
		if !want.Has(n) {
			dropped = append(dropped, n)
		}
	}
	for _, n := range want.Sorted() {
		if !current.Has(n) {
			found = append(found, n)
		}
	}
	return dropped, found
}

// Events diffs declared against current and maps the result to payloads,
// drops first, then founds.
func Events(declared []string, current Set, drop, find func(string) event.Payload) []event.Payload {
	dropped, found := Diff(declared, current)
	out := make([]event.Payload, 0, len(dropped)+len(found))
	for _, n := range dropped {
		out = append(out, drop(n))
	}
	for _, n := range found {
		out = append(out, find(n))
	}
	return out
}

// Owners diffs two owner lists keyed by Owner.Key and maps the result to
// payloads, removals first, then additions.
func Owners(declared, current []event.Owner, remove, add func(event.Owner) event.Payload) []event.Payload {
	byKey := make(map[string]event.Owner, len(declared)+len(current))
	keys := make([]string, 0, len(declared))
	for _, o := range declared {
		byKey[o.Key()] = o
		keys = append(keys, o.Key())
	}
	have := make(Set, len(current))
	for _, o := range current {
		byKey[o.Key()] = o
		have[o.Key()] = struct{}{}
	}

	return Events(keys, have,
		func(k string) event.Payload { return remove(byKey[k]) },
		func(k string) event.Payload { return add(byKey[k]) },
	)
}
