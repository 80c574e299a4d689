// Package project holds the Project aggregate: descriptive metadata, an
// owner list, and the set of release names declared in the project.
package project

import (
	"fmt"
	"slices"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/reconcile"
)

// State is the folded state of a project stream.
type State struct {
	Description string
	Owners      []event.Owner
	Releases    reconcile.Set
}

// Declaration is the desired state of a project. Boundary is empty when the
// project is declared outside any boundary.
type Declaration struct {
	Declaration string
	Boundary    string
	Name        string
	Description string
	Owners      []event.Owner
	Releases    []string
}

// ID returns the identity of the declared project.
func (d Declaration) ID() identity.ProjectID {
	return identity.ProjectID{Declaration: d.Declaration, Boundary: d.Boundary, Name: d.Name}
}

// Validate checks the fields required to address and build a project.
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

// Build compares d against the current state and returns one event per
// changed description, owner, and release membership.
func Build(s State, d Declaration) ([]event.Payload, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var out []event.Payload
	if s.Description != d.Description {
		out = append(out, event.ProjectDescriptionChanged{Description: d.Description})
	}
	out = append(out, reconcile.Owners(d.Owners, s.Owners,
		func(o event.Owner) event.Payload { return event.ProjectOwnerRemoved{Owner: o} },
		func(o event.Owner) event.Payload { return event.ProjectOwnerAdded{Owner: o} },
	)...)
	out = append(out, reconcile.Events(d.Releases, s.Releases,
		func(n string) event.Payload { return event.ProjectReleaseDropped{Release: n} },
		func(n string) event.Payload { return event.ProjectReleaseFound{Release: n} },
	)...)
	return out, nil
}

// Apply folds one event into the state.
func Apply(s State, e event.Event) (State, error) {
	switch p := e.Payload.(type) {
	case event.ProjectDescriptionChanged:
		s.Description = p.Description
	case event.ProjectOwnerAdded:
		s.Owners = append(slices.Clone(s.Owners), p.Owner)
	case event.ProjectOwnerRemoved:
		s.Owners = slices.DeleteFunc(slices.Clone(s.Owners), func(o event.Owner) bool {
			return o.Key() == p.Owner.Key()
		})
	case event.ProjectReleaseFound:
		s.Releases = s.Releases.With(p.Release)
	case event.ProjectReleaseDropped:
		s.Releases = s.Releases.Without(p.Release)
	default:
		return s, event.Unexpected("project", e)
	}
	return s, nil
}
