package declaration

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
)

// Resource kinds as written in the is-a field.
const (
	KindBoundary = "boundary"
	KindProject  = "project"
	KindRelease  = "release"
)

// Document is a parsed declaration document. Resources keep document order.
type Document struct {
	Version   string
	Resources []Resource
}

// Names returns the resource names in document order.
func (d Document) Names() []string {
	names := make([]string, len(d.Resources))
	for i, r := range d.Resources {
		names[i] = r.ResourceName()
	}
	return names
}

// Resource is one entry of a document. The concrete type is one of
// BoundaryResource, ProjectResource, ReleaseResource, or UnknownResource.
type Resource interface {
	ResourceName() string
	resource()
}

// BoundaryResource declares a boundary.
type BoundaryResource struct {
	Name        string
	Description string
	Owners      []event.Owner
}

// ProjectResource declares a project, optionally inside a boundary.
type ProjectResource struct {
	Name        string
	Boundary    string
	Description string
	Owners      []event.Owner
}

// ReleaseResource declares a release of the project with public key Project.
type ReleaseResource struct {
	Name        string
	Project     string
	Description string
	Active      bool
}

// UnknownResource is an entry whose is-a value is not a known kind.
type UnknownResource struct {
	Name string
	Kind string
}

func (r BoundaryResource) ResourceName() string { return r.Name }
func (r ProjectResource) ResourceName() string  { return r.Name }
func (r ReleaseResource) ResourceName() string  { return r.Name }
func (r UnknownResource) ResourceName() string  { return r.Name }

func (BoundaryResource) resource() {}
func (ProjectResource) resource()  {}
func (ReleaseResource) resource()  {}
func (UnknownResource) resource()  {}

type rawDocument struct {
	Declaration *rawBody `yaml:"declaration"`
	rawBody     `yaml:",inline"`
}

type rawBody struct {
	Version   string    `yaml:"version"`
	Resources yaml.Node `yaml:"resources"`
}

type rawResource struct {
	IsA         string     `yaml:"is-a"`
	Description string     `yaml:"description"`
	Owners      []rawOwner `yaml:"owners"`
	InBoundary  string     `yaml:"in-boundary"`
	InProject   string     `yaml:"in-project"`
	Active      bool       `yaml:"active"`
}

type rawOwner struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Parse decodes a declaration document written for version. The body may
// sit at the top level or under a "declaration" key. A document for another
// version is rejected with *VersionMismatchError before its resources are
// read; malformed documents are rejected with a *domain.ValidationError.
func Parse(data []byte, version string) (Document, error) {
	var raw rawDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, reject("document", "is empty")
		}
		return Document{}, reject("document", err.Error())
	}

	body := raw.rawBody
	if raw.Declaration != nil {
		body = *raw.Declaration
	}
	if body.Version == "" {
		return Document{}, reject("version", domain.MsgRequired)
	}
	if body.Version != version {
		return Document{}, &VersionMismatchError{Got: body.Version, Want: version}
	}

	resources, err := parseResources(&body.Resources)
	if err != nil {
		return Document{}, err
	}

	return Document{Version: body.Version, Resources: resources}, nil
}

func parseResources(node *yaml.Node) ([]Resource, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, reject("resources", "must be a mapping of name to resource")
	}

	var fields domain.Fields
	seen := make(map[string]bool, len(node.Content)/2)
	resources := make([]Resource, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		path := "resources." + name

		if name == "" {
			fields.Set("resources", "resource names must not be empty")
			continue
		}
		if seen[name] {
			fields.Set(path, "is declared more than once")
			continue
		}
		seen[name] = true

		var raw rawResource
		if err := node.Content[i+1].Decode(&raw); err != nil {
			fields.Set(path, err.Error())
			continue
		}

		r, err := raw.toResource(name)
		if err != nil {
			fields.Set(path, err.Error())
			continue
		}
		resources = append(resources, r)
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}
	return resources, nil
}

func (r rawResource) toResource(name string) (Resource, error) {
	switch r.IsA {
	case KindBoundary:
		return BoundaryResource{Name: name, Description: r.Description, Owners: owners(r.Owners)}, nil
	case KindProject:
		return ProjectResource{
			Name:        name,
			Boundary:    r.InBoundary,
			Description: r.Description,
			Owners:      owners(r.Owners),
		}, nil
	case KindRelease:
		return ReleaseResource{Name: name, Project: r.InProject, Description: r.Description, Active: r.Active}, nil
	case "":
		return nil, errors.New("is-a is required")
	default:
		return UnknownResource{Name: name, Kind: r.IsA}, nil
	}
}

func owners(raw []rawOwner) []event.Owner {
	if len(raw) == 0 {
		return nil
	}
	out := make([]event.Owner, len(raw))
	for i, o := range raw {
		out[i] = event.Owner{Name: o.Name, Email: o.Email}
	}
	return out
}

func reject(field, msg string) error {
	return &domain.ValidationError{Fields: map[string]string{field: msg}}
}

// VersionMismatchError rejects a document written for another version of
// the declaration format.
type VersionMismatchError struct {
	Got  string
	Want string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("%s: declaration version %q is not supported, want %q", domain.ErrValidation, e.Got, e.Want)
}

func (e *VersionMismatchError) Unwrap() error {
	return domain.ErrValidation
}
