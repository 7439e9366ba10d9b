package service

import (
	"context"
	"fmt"

	"github.com/acme/faculty/internal/model"
	"github.com/acme/faculty/internal/repository"
	"github.com/google/uuid"
)

// UniquenessGuard answers whether a faculty or dean name is already taken.
//
// Both checks use substring containment, the same semantics as search: an
// existing "XY" blocks a new "X".
type UniquenessGuard struct {
	repo repository.FacultyRepository
}

func NewUniquenessGuard(repo repository.FacultyRepository) *UniquenessGuard {
	return &UniquenessGuard{repo: repo}
}

// NameExists reports whether any faculty name contains name.
func (g *UniquenessGuard) NameExists(ctx context.Context, name string) (bool, error) {
	faculties, err := g.repo.GetByNameSubstring(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check faculty name: %w", err)
	}
	return len(faculties) > 0, nil
}

// DeanExists reports whether any dean name contains dean.
func (g *UniquenessGuard) DeanExists(ctx context.Context, dean string) (bool, error) {
	faculties, err := g.deans(ctx, dean)
	if err != nil {
		return false, err
	}
	return len(faculties) > 0, nil
}

// DeanExistsExcept is DeanExists ignoring the faculty with id.
func (g *UniquenessGuard) DeanExistsExcept(ctx context.Context, dean string, id uuid.UUID) (bool, error) {
	faculties, err := g.deans(ctx, dean)
	if err != nil {
		return false, err
	}
	for _, f := range faculties {
		if f.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (g *UniquenessGuard) deans(ctx context.Context, dean string) ([]*model.Faculty, error) {
	faculties, err := g.repo.GetByDeanSubstring(ctx, dean)
	if err != nil {
		return nil, fmt.Errorf("check dean name: %w", err)
	}
	return faculties, nil
}
