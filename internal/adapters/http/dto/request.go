package dto

import (
	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
)

// SetReleaseStatusRequest is the JSON body for
// PUT /api/v1/releases/{project}/{name}/status.
type SetReleaseStatusRequest struct {
	Active *bool `json:"active"`
}

// Validate checks that the status flag is present. An omitted flag is
// rejected rather than read as false, so a malformed body never deactivates
// a release.
func (r *SetReleaseStatusRequest) Validate() error {
	var fields domain.Fields
	if r.Active == nil {
		fields.Set("active", domain.MsgRequired)
	}
	return fields.Err()
}
