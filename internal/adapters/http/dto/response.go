// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"errors"
	"time"

	"github.com/jsamuelsen11/resource-reconciler/internal/app"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// EventResponse summarizes one appended event. Payloads stay on the
// published envelope and are not echoed back to the caller.
type EventResponse struct {
	ID         string `json:"id"`
	Version    int    `json:"version"`
	Kind       string `json:"kind"`
	OccurredAt string `json:"occurred_at"`
}

// CommandResponse is the accepted outcome of one aggregate command.
type CommandResponse struct {
	Stream  string          `json:"stream"`
	Version int             `json:"version"`
	Changed bool            `json:"changed"`
	Events  []EventResponse `json:"events"`
}

// DispatchFailure describes one child command that failed while a
// declaration was being reconciled.
type DispatchFailure struct {
	Kind    string `json:"kind,omitempty"`
	Stream  string `json:"stream,omitempty"`
	Message string `json:"message"`
}

// DeclareResponse is the body returned when a declaration is accepted.
type DeclareResponse struct {
	Declaration CommandResponse   `json:"declaration"`
	Dispatched  int               `json:"dispatched"`
	Skipped     []string          `json:"skipped,omitempty"`
	Failures    []DispatchFailure `json:"failures,omitempty"`
}

// ToCommandResponse converts an accepted command result to its HTTP DTO.
func ToCommandResponse(res ports.CommandResult) CommandResponse {
	events := make([]EventResponse, len(res.Events))
	for i, e := range res.Events {
		events[i] = EventResponse{
			ID:         e.ID.String(),
			Version:    e.Version,
			Kind:       string(e.Kind),
			OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339Nano),
		}
	}
	return CommandResponse{
		Stream:  res.Stream,
		Version: res.Version,
		Changed: len(events) > 0,
		Events:  events,
	}
}

// ToDeclareResponse converts a declare result to its HTTP DTO.
func ToDeclareResponse(res *ports.DeclareResult) DeclareResponse {
	resp := DeclareResponse{
		Declaration: ToCommandResponse(res.Declaration),
		Dispatched:  res.Dispatched,
		Skipped:     res.Skipped,
	}
	for _, err := range res.Failures {
		f := DispatchFailure{Message: err.Error()}
		var derr *app.DispatchError
		if errors.As(err, &derr) {
			f.Kind, f.Stream, f.Message = derr.Kind, derr.Stream, derr.Err.Error()
		}
		resp.Failures = append(resp.Failures, f)
	}
	return resp
}

// Health statuses reported by the probe endpoints.
const (
	HealthOK       = "ok"
	HealthReady    = "ready"
	HealthNotReady = "not_ready"
)

// HealthResponse is the body of both probe endpoints. Checks is only set on
// readiness and maps each dependency to "ok" or its failure.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ToReadinessResponse summarizes registry results. Ready is true only when
// every check passed.
func ToReadinessResponse(results map[string]error) (resp HealthResponse, ready bool) {
	resp = HealthResponse{Status: HealthReady, Checks: make(map[string]string, len(results))}
	ready = true
	for name, err := range results {
		if err != nil {
			resp.Checks[name] = err.Error()
			ready = false
			continue
		}
		resp.Checks[name] = HealthOK
	}
	if !ready {
		resp.Status = HealthNotReady
	}
	return resp, ready
}
