package declaration

import (
	"errors"
	"fmt"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/boundary"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/project"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/release"
)

// UnknownPolicy decides whether entries of an unknown kind count toward the
// declaration's own resource set. They are never dispatched either way.
type UnknownPolicy string

// Unknown kind policies.
const (
	TrackUnknown  UnknownPolicy = "track"
	IgnoreUnknown UnknownPolicy = "ignore"
)

// IsValid reports whether p is a known policy.
func (p UnknownPolicy) IsValid() bool {
	return p == TrackUnknown || p == IgnoreUnknown
}

// Plan is everything one declare command does: the resource names the
// declaration aggregate reconciles and the build command for each child.
type Plan struct {
	ID         identity.DeclarationID
	Resources  []string
	Boundaries []boundary.Declaration
	Projects   []project.Declaration
	Releases   []release.Declaration
	Skipped    []UnknownResource
}

// NewPlan resolves every resource of doc into a child build command. Child
// declarations are validated up front so a document with an incomplete
// entry is rejected before any event is produced.
func NewPlan(id identity.DeclarationID, doc Document, policy UnknownPolicy) (Plan, error) {
	if err := id.Validate(); err != nil {
		return Plan{}, err
	}

	plan := Plan{ID: id}
	projectsIn := make(map[string][]string)
	releasesIn := make(map[string][]string)

	for _, r := range doc.Resources {
		switch r := r.(type) {
		case BoundaryResource:
			plan.Boundaries = append(plan.Boundaries, boundary.Declaration{
				Declaration: id.Name,
				Name:        r.Name,
				Description: r.Description,
				Owners:      r.Owners,
			})
		case ProjectResource:
			plan.Projects = append(plan.Projects, project.Declaration{
				Declaration: id.Name,
				Boundary:    r.Boundary,
				Name:        r.Name,
				Description: r.Description,
				Owners:      r.Owners,
			})
			if r.Boundary != "" {
				projectsIn[r.Boundary] = append(projectsIn[r.Boundary], r.Name)
			}
		case ReleaseResource:
			plan.Releases = append(plan.Releases, release.Declaration{
				Declaration: id.Name,
				Project:     r.Project,
				Name:        r.Name,
				Description: r.Description,
				Active:      r.Active,
			})
			releasesIn[r.Project] = append(releasesIn[r.Project], r.Name)
		case UnknownResource:
			plan.Skipped = append(plan.Skipped, r)
			if policy == IgnoreUnknown {
				continue
			}
		default:
			return Plan{}, fmt.Errorf("resource %q has unsupported type %T", r.ResourceName(), r)
		}
		plan.Resources = append(plan.Resources, r.ResourceName())
	}

	for i := range plan.Boundaries {
		plan.Boundaries[i].Projects = projectsIn[plan.Boundaries[i].Name]
	}
	for i := range plan.Projects {
		plan.Projects[i].Releases = releasesIn[plan.Projects[i].ID().Key()]
	}

	if err := plan.validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (p Plan) validate() error {
	var fields domain.Fields
	collect := func(name string, err error) {
		if err == nil {
			return
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			for f, msg := range verr.Fields {
				fields.Set("resources."+name+"."+f, msg)
			}
			return
		}
		fields.Set("resources."+name, err.Error())
	}

	for _, b := range p.Boundaries {
		collect(b.Name, b.Validate())
		collect(b.Name, b.ID().Validate())
	}
	for _, pr := range p.Projects {
		collect(pr.Name, pr.Validate())
		collect(pr.Name, pr.ID().Validate())
	}
	for _, r := range p.Releases {
		collect(r.Name, r.Validate())
		collect(r.Name, r.ID().Validate())
	}
	return fields.Err()
}
