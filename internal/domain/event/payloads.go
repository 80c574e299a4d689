package event

import "encoding/json"

// Owner is a named contact responsible for a boundary or project.
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Key identifies the owner within an owner set.
func (o Owner) Key() string {
	return o.Email + "\x00" + o.Name
}

// ResourceFound records a resource name newly declared in a declaration.
type ResourceFound struct {
	Resource string `json:"resource"`
}

// ResourceDropped records a resource name no longer declared.
type ResourceDropped struct {
	Resource string `json:"resource"`
}

// BoundaryDescriptionChanged records a new boundary description.
type BoundaryDescriptionChanged struct {
	Description string `json:"description"`
}

// BoundaryOwnerAdded records an owner joining a boundary.
type BoundaryOwnerAdded struct {
	Owner Owner `json:"owner"`
}

// BoundaryOwnerRemoved records an owner leaving a boundary.
type BoundaryOwnerRemoved struct {
	Owner Owner `json:"owner"`
}

// BoundaryProjectFound records a project newly declared in a boundary.
type BoundaryProjectFound struct {
	Project string `json:"project"`
}

// BoundaryProjectDropped records a project no longer declared in a boundary.
type BoundaryProjectDropped struct {
	Project string `json:"project"`
}

// ProjectDescriptionChanged records a new project description.
type ProjectDescriptionChanged struct {
	Description string `json:"description"`
}

// ProjectOwnerAdded records an owner joining a project.
type ProjectOwnerAdded struct {
	Owner Owner `json:"owner"`
}

// ProjectOwnerRemoved records an owner leaving a project.
type ProjectOwnerRemoved struct {
	Owner Owner `json:"owner"`
}

// ProjectReleaseFound records a release newly declared in a project.
type ProjectReleaseFound struct {
	Release string `json:"release"`
}

// ProjectReleaseDropped records a release no longer declared in a project.
type ProjectReleaseDropped struct {
	Release string `json:"release"`
}

// ReleaseDescriptionChanged records a new release description.
type ReleaseDescriptionChanged struct {
	Description string `json:"description"`
}

// ReleaseStatusChanged records a release being switched on or off.
type ReleaseStatusChanged struct {
	Active bool `json:"active"`
}

func (ResourceFound) Kind() Kind              { return KindResourceFound }
func (ResourceDropped) Kind() Kind            { return KindResourceDropped }
func (BoundaryDescriptionChanged) Kind() Kind { return KindBoundaryDescriptionChanged }
func (BoundaryOwnerAdded) Kind() Kind         { return KindBoundaryOwnerAdded }
func (BoundaryOwnerRemoved) Kind() Kind       { return KindBoundaryOwnerRemoved }
func (BoundaryProjectFound) Kind() Kind       { return KindBoundaryProjectFound }
func (BoundaryProjectDropped) Kind() Kind     { return KindBoundaryProjectDropped }
func (ProjectDescriptionChanged) Kind() Kind  { return KindProjectDescriptionChanged }
func (ProjectOwnerAdded) Kind() Kind          { return KindProjectOwnerAdded }
func (ProjectOwnerRemoved) Kind() Kind        { return KindProjectOwnerRemoved }
func (ProjectReleaseFound) Kind() Kind        { return KindProjectReleaseFound }
func (ProjectReleaseDropped) Kind() Kind      { return KindProjectReleaseDropped }
func (ReleaseDescriptionChanged) Kind() Kind  { return KindReleaseDescriptionChanged }
func (ReleaseStatusChanged) Kind() Kind       { return KindReleaseStatusChanged }

func (ResourceFound) sealed()              {}
func (ResourceDropped) sealed()            {}
func (BoundaryDescriptionChanged) sealed() {}
func (BoundaryOwnerAdded) sealed()         {}
func (BoundaryOwnerRemoved) sealed()       {}
func (BoundaryProjectFound) sealed()       {}
func (BoundaryProjectDropped) sealed()     {}
func (ProjectDescriptionChanged) sealed()  {}
func (ProjectOwnerAdded) sealed()          {}
func (ProjectOwnerRemoved) sealed()        {}
func (ProjectReleaseFound) sealed()        {}
func (ProjectReleaseDropped) sealed()      {}
func (ReleaseDescriptionChanged) sealed()  {}
func (ReleaseStatusChanged) sealed()       {}

var registry = map[Kind]func([]byte) (Payload, error){
	KindResourceFound:              decoder[ResourceFound],
	KindResourceDropped:            decoder[ResourceDropped],
	KindBoundaryDescriptionChanged: decoder[BoundaryDescriptionChanged],
	KindBoundaryOwnerAdded:         decoder[BoundaryOwnerAdded],
	KindBoundaryOwnerRemoved:       decoder[BoundaryOwnerRemoved],
	KindBoundaryProjectFound:       decoder[BoundaryProjectFound],
	KindBoundaryProjectDropped:     decoder[BoundaryProjectDropped],
	KindProjectDescriptionChanged:  decoder[ProjectDescriptionChanged],
	KindProjectOwnerAdded:          decoder[ProjectOwnerAdded],
	KindProjectOwnerRemoved:        decoder[ProjectOwnerRemoved],
	KindProjectReleaseFound:        decoder[ProjectReleaseFound],
	KindProjectReleaseDropped:      decoder[ProjectReleaseDropped],
	KindReleaseDescriptionChanged:  decoder[ReleaseDescriptionChanged],
	KindReleaseStatusChanged:       decoder[ReleaseStatusChanged],
}

func decoder[P Payload](data []byte) (Payload, error) {
	var p P
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}
