package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/dto"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// ReleaseHandler toggles release status.
type ReleaseHandler struct {
	svc          ports.ReleaseService
	maxBodyBytes int64
}

// NewReleaseHandler creates a ReleaseHandler. A non-positive maxBodyBytes
// falls back to DefaultMaxBodyBytes.
func NewReleaseHandler(svc ports.ReleaseService, maxBodyBytes int64) *ReleaseHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &ReleaseHandler{svc: svc, maxBodyBytes: maxBodyBytes}
}

// SetStatus handles PUT /api/v1/releases/{project}/{name}/status.
// {project} is the project's public key, e.g. "acme-web".
func (h *ReleaseHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := identity.ReleaseID{
		Project: chi.URLParam(r, "project"),
		Name:    chi.URLParam(r, "name"),
	}
	if err := id.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, pathError(err, nil))
		return
	}

	var req dto.SetReleaseStatusRequest
	if !decodeAndValidate(w, r, h.maxBodyBytes, &req) {
		return
	}

	res, err := h.svc.SetStatus(r.Context(), id, *req.Active)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCommandResponse(res))
}
