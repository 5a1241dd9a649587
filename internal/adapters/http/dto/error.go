package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/logging"
)

// internalDetail replaces the message of errors that map to no domain
// category. Their text may name tables, hosts or SQL and stays in the log.
const internalDetail = "the server could not complete the request"

// ErrorResponse represents an RFC 9457 Problem Details response.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
	BoardIDs []int64       `json:"board_ids,omitempty"`
}

// ErrorDetail represents a single field-level validation error within
// an ErrorResponse.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// NewErrorResponse creates an RFC 9457 ErrorResponse from a domain error.
// The request is used to populate the instance field with the request URI.
// Errors outside the domain taxonomy get a generic detail and are logged.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status, known := domainErrorToStatus(err)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}
	if !known {
		resp.Detail = internalDetail
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "unmapped error",
			slog.String("instance", r.RequestURI),
			slog.Any("error", err),
		)
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationFieldsToDetails(verr.Fields)
	}

	var perr *domain.PartialFailureError
	if errors.As(err, &perr) {
		resp.BoardIDs = perr.BoardIDs()
	}

	return resp
}

// WriteErrorResponse writes an RFC 9457 error response for the given domain
// error. It sets the Content-Type to application/problem+json, writes the
// appropriate HTTP status code, and marshals the error body as JSON.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// statusMapping is checked in order. A partial failure wraps the causes of
// every failed board, so it must win over the categories of those causes.
var statusMapping = []struct {
	target error
	status int
}{
	{domain.ErrPartialFailure, http.StatusInternalServerError},
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrUnavailable, http.StatusServiceUnavailable},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

// domainErrorToStatus reports the status for err and whether err belongs to
// a known category.
func domainErrorToStatus(err error) (int, bool) {
	for _, m := range statusMapping {
		if errors.Is(err, m.target) {
			return m.status, true
		}
	}
	return http.StatusInternalServerError, false
}

// validationFieldsToDetails converts domain validation fields to sorted
// ErrorDetail entries.
func validationFieldsToDetails(fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		details = append(details, ErrorDetail{
			Location: "body." + field,
			Message:  msg,
		})
	}
	slices.SortFunc(details, func(a, b ErrorDetail) int {
		return strings.Compare(a.Location, b.Location)
	})
	return details
}
