// Package declaration holds the Declaration aggregate and the parser for
// declaration documents.
//
// The aggregate tracks the set of resource names a declaration has seen.
// The parser turns a YAML document into typed resources, and Plan derives
// the child build commands that the application layer fans out.
package declaration

import (
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/reconcile"
)

// State is the folded state of a declaration stream.
type State struct {
	Resources reconcile.Set
}

// Declare diffs the declared resource names against the names currently
// held and returns drops followed by founds.
func Declare(s State, names []string) []event.Payload {
	return reconcile.Events(names, s.Resources,
		func(n string) event.Payload { return event.ResourceDropped{Resource: n} },
		func(n string) event.Payload { return event.ResourceFound{Resource: n} },
	)
}

// Apply folds one event into the state.
func Apply(s State, e event.Event) (State, error) {
	switch p := e.Payload.(type) {
	case event.ResourceFound:
		s.Resources = s.Resources.With(p.Resource)
	case event.ResourceDropped:
		s.Resources = s.Resources.Without(p.Resource)
	default:
		return s, event.Unexpected("declaration", e)
	}
	return s, nil
}
