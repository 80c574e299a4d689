// Package identity derives stream names and routing addresses for aggregates.
//
// Every aggregate kind has a value-type ID composed of its ancestor names.
// The ID renders a canonical, path-like stream name, and the stream name
// hashes to an Address that routes commands to exactly one live instance.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
)

// NoBoundary is the boundary segment used for projects declared without an
// owning boundary.
const NoBoundary = "-"

// addressBytes is the number of SHA-256 bytes kept in an Address.
const addressBytes = 16

// Address is the deterministic routing token of an aggregate.
type Address string

// AddressOf hashes a canonical stream name into an Address.
func AddressOf(stream string) Address {
	sum := sha256.Sum256([]byte(stream))
	return Address(hex.EncodeToString(sum[:addressBytes]))
}

// DeclarationID identifies a Declaration aggregate.
type DeclarationID struct {
	Name string
}

// Stream returns "/declaration/<name>".
func (id DeclarationID) Stream() string {
	return "/declaration/" + id.Name
}

// Address returns the routing address of the declaration stream.
func (id DeclarationID) Address() Address {
	return AddressOf(id.Stream())
}

// Validate rejects empty or path-like names, and names containing '-',
// which would make project keys ambiguous.
func (id DeclarationID) Validate() error {
	var fields domain.Fields
	checkDeclaration(&fields, id.Name)
	return fields.Err()
}

// BoundaryID identifies a Boundary aggregate within a declaration.
type BoundaryID struct {
	Declaration string
	Name        string
}

// Stream returns "/boundary/<decl>/<name>".
func (id BoundaryID) Stream() string {
	return "/boundary/" + id.Declaration + "/" + id.Name
}

// Address returns the routing address of the boundary stream.
func (id BoundaryID) Address() Address {
	return AddressOf(id.Stream())
}

// Validate rejects empty or path-like segments.
func (id BoundaryID) Validate() error {
	var fields domain.Fields
	checkDeclaration(&fields, id.Declaration)
	checkSegment(&fields, "name", id.Name)
	return fields.Err()
}

// ProjectID identifies a Project aggregate. Boundary is NoBoundary when the
// project was declared outside any boundary.
type ProjectID struct {
	Declaration string
	Boundary    string
	Name        string
}

// Stream returns "/project/<decl>/<boundary>/<name>".
func (id ProjectID) Stream() string {
	return "/project/" + id.Declaration + "/" + id.boundary() + "/" + id.Name
}

// Address returns the routing address of the project stream.
func (id ProjectID) Address() Address {
	return AddressOf(id.Stream())
}

// Key is the public project key "<decl>-<name>" that releases reference
// through in-project.
func (id ProjectID) Key() string {
	return ProjectKey(id.Declaration, id.Name)
}

// Validate rejects empty or path-like segments.
func (id ProjectID) Validate() error {
	var fields domain.Fields
	checkDeclaration(&fields, id.Declaration)
	checkSegment(&fields, "boundary", id.boundary())
	checkSegment(&fields, "name", id.Name)
	return fields.Err()
}

func (id ProjectID) boundary() string {
	if id.Boundary == "" {
		return NoBoundary
	}
	return id.Boundary
}

// ProjectKey joins a declaration name and a project name into a public key.
// Declaration names never contain '-', so the first '-' splits the key.
func ProjectKey(declaration, project string) string {
	return declaration + "-" + project
}

// ReleaseID identifies a Release aggregate by the public key of its project.
type ReleaseID struct {
	Project string
	Name    string
}

// Stream returns "/release/<project>/<name>".
func (id ReleaseID) Stream() string {
	return "/release/" + id.Project + "/" + id.Name
}

// Address returns the routing address of the release stream.
func (id ReleaseID) Address() Address {
	return AddressOf(id.Stream())
}

// Validate rejects empty or path-like segments.
func (id ReleaseID) Validate() error {
	var fields domain.Fields
	checkSegment(&fields, "project", id.Project)
	checkSegment(&fields, "name", id.Name)
	return fields.Err()
}

func checkSegment(fields *domain.Fields, field, value string) {
	fields.Require(field, value)
	if strings.Contains(value, "/") {
		fields.Set(field, "must not contain '/'")
	}
}

// checkDeclaration also rejects '-' so "<decl>-<project>" keys stay unique.
func checkDeclaration(fields *domain.Fields, value string) {
	checkSegment(fields, "declaration", value)
	if strings.Contains(value, "-") {
		fields.Set("declaration", "must not contain '-'")
	}
}
