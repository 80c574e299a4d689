// Package handlers provides HTTP request handlers for the reconciler's API
// endpoints.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/dto"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/identity"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// DeclarationHandler accepts declaration documents.
type DeclarationHandler struct {
	svc          ports.DeclarationService
	maxBodyBytes int64
}

// NewDeclarationHandler creates a DeclarationHandler. A non-positive
// maxBodyBytes falls back to DefaultMaxBodyBytes.
func NewDeclarationHandler(svc ports.DeclarationService, maxBodyBytes int64) *DeclarationHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &DeclarationHandler{svc: svc, maxBodyBytes: maxBodyBytes}
}

// Declare handles PUT /api/v1/declarations/{name}. The body is the raw YAML
// document. The response is 202 Accepted: in async dispatch mode child
// resources may still be converging when it is sent.
func (h *DeclarationHandler) Declare(w http.ResponseWriter, r *http.Request) {
	id := identity.DeclarationID{Name: chi.URLParam(r, "name")}
	if err := id.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, pathError(err, map[string]string{"declaration": "name"}))
		return
	}

	doc, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	res, err := h.svc.Declare(r.Context(), id.Name, doc)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, dto.ToDeclareResponse(res))
}
