package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain error kinds. The typed errors below unwrap to these, so callers can
// match with errors.Is and read details with errors.As.
var (
	ErrNotFound        = errors.New("faculty not found")
	ErrNameExists      = errors.New("faculty name already exists")
	ErrDeanExists      = errors.New("dean already heads another faculty")
	ErrVersionConflict = errors.New("version conflict")
	ErrInvalidFaculty  = errors.New("invalid faculty")
)

// NotFoundError reports an id or a set of search criteria without a match.
type NotFoundError struct {
	ID       uuid.UUID
	Criteria map[string][]string
}

func (e *NotFoundError) Error() string {
	if e.Criteria != nil {
		return fmt.Sprintf("no faculty found for criteria %v", e.Criteria)
	}
	return fmt.Sprintf("no faculty found with id %s", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

type NameExistsError struct {
	Name string
}

func (e *NameExistsError) Error() string {
	return fmt.Sprintf("faculty name %q already exists", e.Name)
}

func (e *NameExistsError) Unwrap() error { return ErrNameExists }

type DeanExistsError struct {
	Dean string
}

func (e *DeanExistsError) Error() string {
	return fmt.Sprintf("dean %q already heads another faculty", e.Dean)
}

func (e *DeanExistsError) Unwrap() error { return ErrDeanExists }

// VersionConflictError reports a stale (or future) expected version.
type VersionConflictError struct {
	Expected int
	Actual   int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version %d is outdated, current version is %d", e.Expected, e.Actual)
}

func (e *VersionConflictError) Unwrap() error { return ErrVersionConflict }

// ValidationError carries field-level messages for a rejected faculty input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid faculty: %v", e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidFaculty }
