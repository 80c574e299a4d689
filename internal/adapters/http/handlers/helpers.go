package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/dto"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain"
)

// DefaultMaxBodyBytes is the request body limit used when none is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// readBody reads the whole request body, limited to maxBytes. An oversized
// body yields *http.MaxBytesError, which dto maps to 413.
func readBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body exceeds %d bytes: %w", maxBytes, tooLarge)
		}
		return nil, &domain.ValidationError{Fields: map[string]string{"body": "unreadable"}}
	}
	return body, nil
}

// decodeJSONBody decodes the request body as JSON into dst. On failure it
// writes an error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.WriteErrorResponse(w, r, err)
			return false
		}
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	return true
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, maxBytes int64, dst T) bool {
	if !decodeJSONBody(w, r, maxBytes, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}

// pathError relocates identity validation failures onto the URL parameters
// they came from. params maps an identity field to its route parameter; fields
// not listed keep their own name.
func pathError(err error, params map[string]string) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fields := make(map[string]string, len(verr.Fields))
	for field, msg := range verr.Fields {
		if param, ok := params[field]; ok {
			field = param
		}
		fields[dto.PathField(field)] = msg
	}
	return &domain.ValidationError{Fields: fields}
}
