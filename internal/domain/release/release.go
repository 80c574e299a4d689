// Package release holds the Release aggregate: a description plus an
// on/off status, reconciled field by field from declarations and toggled
// directly through SetStatus.
package release

import (
	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
)

// State is the folded state of a release stream.
type State struct {
	Description string
	Active      bool
}

// Declaration is the desired state of a release as written in a
// declaration document. Project is the public project key.
type Declaration struct {
	Declaration string
	Project     string
	Name        string
	Description string
	Active      bool
}

// ID returns the identity of the declared release.
func (d Declaration) ID() identity.ReleaseID {
	return identity.ReleaseID{Project: d.Project, Name: d.Name}
}

// Validate checks the fields required to address and build a release.
func (d Declaration) Validate() error {
	var fields domain.Fields
	fields.Require("declaration", d.Declaration)
	fields.Require("in-project", d.Project)
	fields.Require("name", d.Name)
	return fields.Err()
}

// Build compares d against the current state and returns one event per
// changed field.
func Build(s State, d Declaration) ([]event.Payload, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var out []event.Payload
	if s.Description != d.Description {
		out = append(out, event.ReleaseDescriptionChanged{Description: d.Description})
	}
	out = append(out, SetStatus(s, d.Active)...)
	return out, nil
}

// SetStatus returns a status change only when active differs from the
// current status.
func SetStatus(s State, active bool) []event.Payload {
	if s.Active == active {
		return nil
	}
	return []event.Payload{event.ReleaseStatusChanged{Active: active}}
}

// Apply folds one event into the state.
func Apply(s State, e event.Event) (State, error) {
	switch p := e.Payload.(type) {
	case event.ReleaseDescriptionChanged:
		s.Description = p.Description
	case event.ReleaseStatusChanged:
		s.Active = p.Active
	default:
		return s, event.Unexpected("release", e)
	}
	return s, nil
}
