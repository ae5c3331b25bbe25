package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrIncompatibleReference = errors.New("incompatible reference")
)

// EntityError carries the entity kind, id and violated rule of a failed store operation.
// Err is one of the sentinels above so callers can match with errors.Is.
type EntityError struct {
	Kind  EntityKind
	ID    string
	Field string
	Rule  string
	Err   error
}

func (e *EntityError) Error() string {
	msg := string(e.Kind)
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Field != "" {
		msg += " field " + e.Field
	}
	return fmt.Sprintf("%s: %s: %s", msg, e.Err, e.Rule)
}

func (e *EntityError) Unwrap() error { return e.Err }

func NewValidationError(kind EntityKind, field, rule string) *EntityError {
	return &EntityError{Kind: kind, Field: field, Rule: rule, Err: ErrValidation}
}

func NewNotFoundError(kind EntityKind, id string) *EntityError {
	return &EntityError{Kind: kind, ID: id, Rule: "does not exist", Err: ErrNotFound}
}

func NewConflictError(kind EntityKind, id, rule string) *EntityError {
	return &EntityError{Kind: kind, ID: id, Rule: rule, Err: ErrConflict}
}

func NewIncompatibleError(kind EntityKind, id, rule string) *EntityError {
	return &EntityError{Kind: kind, ID: id, Rule: rule, Err: ErrIncompatibleReference}
}

// IsClientError reports whether err is caused by caller input rather than a fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrIncompatibleReference)
}
