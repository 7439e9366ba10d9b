package repository

import (
	"context"
	"errors"

	"github.com/acme/faculty/internal/criteria"
	"github.com/acme/faculty/internal/model"
	"github.com/google/uuid"
)

// Collection errors. CompareAndSwap distinguishes ErrNotFound from ErrVersionMismatch.
var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionMismatch = errors.New("version mismatch")
	// ErrDuplicateName and ErrDuplicateDean are raised by the store's own
	// uniqueness constraints when two writers race past the service checks.
	ErrDuplicateName = errors.New("duplicate faculty name")
	ErrDuplicateDean = errors.New("duplicate dean name")
)

// FacultyRepository is the faculty collection.
//
// The *Substring lookups are case-sensitive; FindMatching ANDs its conditions
// and compares case-insensitively, ordered by name. Every returned faculty is
// a copy owned by the caller.
type FacultyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Faculty, error)
	GetAll(ctx context.Context) ([]*model.Faculty, error)
	GetByNameSubstring(ctx context.Context, s string) ([]*model.Faculty, error)
	GetByDeanSubstring(ctx context.Context, s string) ([]*model.Faculty, error)
	GetByCourseSubstring(ctx context.Context, s string) ([]*model.Faculty, error)
	FindMatching(ctx context.Context, c criteria.Criteria) ([]*model.Faculty, error)
	// Insert assigns a fresh id and version 0.
	Insert(ctx context.Context, f *model.Faculty) (*model.Faculty, error)
	// CompareAndSwap replaces name, dean and courses of the faculty with id
	// only if its stored version equals expectedVersion, and bumps the version.
	CompareAndSwap(ctx context.Context, id uuid.UUID, expectedVersion int, f *model.Faculty) (*model.Faculty, error)
}
