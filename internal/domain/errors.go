package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("unavailable")
	ErrPartialFailure  = errors.New("partial failure")
)

// Validation messages shared by entity sub-packages.
const (
	MsgRequired     = "is required"
	MsgMustNotEmpty = "must not be empty"
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	slices.Sort(parts)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError returns an ErrNotFound-wrapping error naming the missing entity.
func NotFoundError(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// BoardFailure pairs a board with the error that prevented it from being saved.
type BoardFailure struct {
	BoardID int64
	Err     error
}

// PartialFailureError reports that membership propagation could not be
// applied to every board of a project. The unit of work that produced it
// has been rolled back; BoardIDs names every board that failed.
type PartialFailureError struct {
	ProjectID int64
	Failures  []BoardFailure
}

// BoardIDs returns the ids of the boards that failed, in attempt order.
func (e *PartialFailureError) BoardIDs() []int64 {
	ids := make([]int64, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.BoardID)
	}
	return ids
}

func (e *PartialFailureError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("board %d: %v", f.BoardID, f.Err))
	}
	return fmt.Sprintf("%s: project %d: %s", ErrPartialFailure.Error(), e.ProjectID, strings.Join(parts, "; "))
}

// Unwrap exposes ErrPartialFailure and each per-board cause to errors.Is.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrPartialFailure)
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
