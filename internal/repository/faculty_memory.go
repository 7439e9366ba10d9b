package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/acme/faculty/internal/criteria"
	"github.com/acme/faculty/internal/model"
	"github.com/google/uuid"
)

type memoryFacultyRepository struct {
	mu        sync.RWMutex
	faculties map[uuid.UUID]*model.Faculty
	now       func() time.Time
}

// NewMemoryFacultyRepository returns an in-process collection holding copies of seed.
// Seed faculties keep their ids and versions.
func NewMemoryFacultyRepository(seed ...*model.Faculty) FacultyRepository {
	r := &memoryFacultyRepository{
		faculties: make(map[uuid.UUID]*model.Faculty, len(seed)),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, f := range seed {
		c := f.Clone()
		if c.CreatedAt.IsZero() {
			c.CreatedAt = r.now()
			c.UpdatedAt = c.CreatedAt
		}
		r.faculties[c.ID] = c
	}
	return r
}

func (r *memoryFacultyRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Faculty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.faculties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f.Clone(), nil
}

func (r *memoryFacultyRepository) GetAll(_ context.Context) ([]*model.Faculty, error) {
	return r.filter(func(*model.Faculty) bool { return true }), nil
}

func (r *memoryFacultyRepository) GetByNameSubstring(_ context.Context, s string) ([]*model.Faculty, error) {
	return r.filter(func(f *model.Faculty) bool {
		return strings.Contains(f.Name, s)
	}), nil
}

func (r *memoryFacultyRepository) GetByDeanSubstring(_ context.Context, s string) ([]*model.Faculty, error) {
	return r.filter(func(f *model.Faculty) bool {
		return strings.Contains(f.Dean.Name, s)
	}), nil
}

func (r *memoryFacultyRepository) GetByCourseSubstring(_ context.Context, s string) ([]*model.Faculty, error) {
	return r.filter(func(f *model.Faculty) bool {
		return anyCourse(f, func(name string) bool { return strings.Contains(name, s) })
	}), nil
}

func (r *memoryFacultyRepository) FindMatching(_ context.Context, c criteria.Criteria) ([]*model.Faculty, error) {
	return r.filter(func(f *model.Faculty) bool {
		for _, cond := range c.Conditions {
			if !matchesIgnoreCase(f, cond) {
				return false
			}
		}
		return true
	}), nil
}

func (r *memoryFacultyRepository) Insert(_ context.Context, f *model.Faculty) (*model.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(nil, f); err != nil {
		return nil, err
	}

	stored := f.Clone()
	stored.ID = uuid.New()
	for _, exists := r.faculties[stored.ID]; exists; _, exists = r.faculties[stored.ID] {
		stored.ID = uuid.New()
	}
	stored.Version = 0
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.faculties[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *memoryFacultyRepository) CompareAndSwap(_ context.Context, id uuid.UUID, expectedVersion int, f *model.Faculty) (*model.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.faculties[id]
	if !ok {
		return nil, ErrNotFound
	}
	if current.Version != expectedVersion {
		return nil, ErrVersionMismatch
	}
	if err := r.checkUnique(&id, f); err != nil {
		return nil, err
	}

	next := f.Clone()
	next.ID = id
	next.Version = current.Version + 1
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.now()

	r.faculties[id] = next
	return next.Clone(), nil
}

// checkUnique mirrors the exact-match unique constraints of the SQL schema.
// self, when non-nil, is the faculty being replaced. Caller holds the write lock.
func (r *memoryFacultyRepository) checkUnique(self *uuid.UUID, f *model.Faculty) error {
	for id, other := range r.faculties {
		if self != nil && id == *self {
			continue
		}
		if other.Name == f.Name {
			return ErrDuplicateName
		}
		if other.Dean.Name == f.Dean.Name {
			return ErrDuplicateDean
		}
	}
	return nil
}

// filter returns copies of matching faculties ordered by name, then id.
func (r *memoryFacultyRepository) filter(keep func(*model.Faculty) bool) []*model.Faculty {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Faculty, 0, len(r.faculties))
	for _, f := range r.faculties {
		if keep(f) {
			out = append(out, f.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func matchesIgnoreCase(f *model.Faculty, cond criteria.Condition) bool {
	switch cond.Field {
	case criteria.FieldName:
		return criteria.Contains(f.Name, cond.Value)
	case criteria.FieldDean:
		return criteria.Contains(f.Dean.Name, cond.Value)
	case criteria.FieldCourse:
		return anyCourse(f, func(name string) bool { return criteria.Contains(name, cond.Value) })
	}
	return false
}

func anyCourse(f *model.Faculty, match func(string) bool) bool {
	for _, c := range f.Courses {
		if match(c.Name) {
			return true
		}
	}
	return false
}
