package dto

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/logging"
)

// ErrorResponse is an RFC 9457 problem details body.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail locates one rejected field of a declaration or status request.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

const (
	pathPrefix = "path."

	// internalDetail replaces the message of errors no rule below matched.
	internalDetail = "internal server error"
)

// PathField marks a validation field as coming from the URL path rather than
// the body, e.g. PathField("project").
func PathField(name string) string {
	return pathPrefix + name
}

// statusRules map errors to statuses. The first match wins.
var statusRules = []struct {
	match  func(error) bool
	status int
}{
	{func(err error) bool { var e *http.MaxBytesError; return errors.As(err, &e) }, http.StatusRequestEntityTooLarge},
	{isErr(domain.ErrValidation), http.StatusBadRequest},
	{isErr(domain.ErrNotFound), http.StatusNotFound},
	{isErr(domain.ErrConflict), http.StatusConflict},
	{isErr(domain.ErrUnavailable), http.StatusServiceUnavailable},
	{isErr(context.DeadlineExceeded), http.StatusGatewayTimeout},
}

func isErr(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func statusOf(err error) int {
	for _, rule := range statusRules {
		if rule.match(err) {
			return rule.status
		}
	}
	return http.StatusInternalServerError
}

// NewErrorResponse builds the problem for err, with the request URI as the
// instance. The detail of a 500 is replaced so internal errors stay in logs.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := statusOf(err)
	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}
	if status == http.StatusInternalServerError {
		resp.Detail = internalDetail
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = fieldDetails(verr.Fields)
	}
	return resp
}

// WriteErrorResponse writes the problem for err as application/problem+json.
// A 503 carries Retry-After.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)
	logger := logging.FromContext(r.Context())
	if resp.Status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			logging.Operation("http.WriteErrorResponse"),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logging.Err(err),
		)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	if resp.Status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logger.ErrorContext(r.Context(), "encoding problem response", logging.Err(encErr))
	}
}

// fieldDetails turns validation fields into details sorted by location.
// Fields live in the body unless marked with PathField.
func fieldDetails(fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		location := field
		if !strings.HasPrefix(field, pathPrefix) {
			location = "body." + field
		}
		details = append(details, ErrorDetail{Location: location, Message: msg})
	}
	slices.SortFunc(details, func(a, b ErrorDetail) int {
		return cmp.Compare(a.Location, b.Location)
	})
	return details
}
