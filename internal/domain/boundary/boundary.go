// Package boundary holds the Boundary aggregate, a grouping of projects
// with its own description and owners.
package boundary

import (
	"fmt"
	"slices"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/reconcile"
)

// State is the folded state of a boundary stream.
type State struct {
	Description string
	Owners      []event.Owner
	Projects    reconcile.Set
}

// Declaration is the desired state of a boundary. Projects lists the names
// of projects that declare the boundary as their owner.
type Declaration struct {
	Declaration string
	Name        string
	Description string
	Owners      []event.Owner
	Projects    []string
}

// ID returns the identity of the declared boundary.
func (d Declaration) ID() identity.BoundaryID {
	return identity.BoundaryID{Declaration: d.Declaration, Name: d.Name}
}

// Validate checks the fields required to address and build a boundary.
func (d Declaration) Validate() error {
	var fields domain.Fields
	fields.Require("declaration", d.Declaration)
	fields.Require("name", d.Name)
	for i, o := range d.Owners {
		fields.Require(fmt.Sprintf("owners[%d].name", i), o.Name)
		fields.Require(fmt.Sprintf("owners[%d].email", i), o.Email)
	}
	return fields.Err()
}

// Build compares d against the current state.
func Build(s State, d Declaration) ([]event.Payload, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var out []event.Payload
	if s.Description != d.Description {
		out = append(out, event.BoundaryDescriptionChanged{Description: d.Description})
	}
	out = append(out, reconcile.Owners(d.Owners, s.Owners,
		func(o event.Owner) event.Payload { return event.BoundaryOwnerRemoved{Owner: o} },
		func(o event.Owner) event.Payload { return event.BoundaryOwnerAdded{Owner: o} },
	)...)
	out = append(out, reconcile.Events(d.Projects, s.Projects,
		func(n string) event.Payload { return event.BoundaryProjectDropped{Project: n} },
		func(n string) event.Payload { return event.BoundaryProjectFound{Project: n} },
	)...)
	return out, nil
}

// Apply folds one event into the state.
func Apply(s State, e event.Event) (State, error) {
	switch p := e.Payload.(type) {
	case event.BoundaryDescriptionChanged:
		s.Description = p.Description
	case event.BoundaryOwnerAdded:
		s.Owners = append(slices.Clone(s.Owners), p.Owner)
	case event.BoundaryOwnerRemoved:
		s.Owners = slices.DeleteFunc(slices.Clone(s.Owners), func(o event.Owner) bool {
			return o.Key() == p.Owner.Key()
		})
	case event.BoundaryProjectFound:
		s.Projects = s.Projects.With(p.Project)
	case event.BoundaryProjectDropped:
		s.Projects = s.Projects.Without(p.Project)
	default:
		return s, event.Unexpected("boundary", e)
	}
	return s, nil
}
