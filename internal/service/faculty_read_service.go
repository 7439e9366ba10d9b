package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/acme/faculty/internal/criteria"
	"github.com/acme/faculty/internal/logger"
	"github.com/acme/faculty/internal/model"
	"github.com/acme/faculty/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FacultyReadService resolves lookups and searches against the faculty collection.
type FacultyReadService struct {
	repo repository.FacultyRepository
	log  zerolog.Logger
}

func NewFacultyReadService(repo repository.FacultyRepository, log zerolog.Logger) *FacultyReadService {
	return &FacultyReadService{
		repo: repo,
		log:  logger.Component(log, "faculty_read_service"),
	}
}

// FindAll returns every faculty ordered by name.
func (s *FacultyReadService) FindAll(ctx context.Context) ([]*model.Faculty, error) {
	faculties, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all faculties: %w", err)
	}
	s.log.Debug().Int("count", len(faculties)).Msg("findAll")
	return faculties, nil
}

// FindByID returns the faculty with id or a *NotFoundError.
func (s *FacultyReadService) FindByID(ctx context.Context, id uuid.UUID) (*model.Faculty, error) {
	f, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Debug().Str("id", id.String()).Msg("findById: not found")
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("find faculty %s: %w", id, err)
	}
	s.log.Debug().Str("id", id.String()).Int("version", f.Version).Msg("findById")
	return f, nil
}

// FindByName matches names containing name, case-sensitively.
func (s *FacultyReadService) FindByName(ctx context.Context, name string) ([]*model.Faculty, error) {
	return s.findBy(ctx, criteria.FieldName, name, s.repo.GetByNameSubstring)
}

// FindByDean matches dean names containing dean, case-sensitively.
func (s *FacultyReadService) FindByDean(ctx context.Context, dean string) ([]*model.Faculty, error) {
	return s.findBy(ctx, criteria.FieldDean, dean, s.repo.GetByDeanSubstring)
}

// FindByCourse matches faculties with at least one course containing course.
func (s *FacultyReadService) FindByCourse(ctx context.Context, course string) ([]*model.Faculty, error) {
	return s.findBy(ctx, criteria.FieldCourse, course, s.repo.GetByCourseSubstring)
}

func (s *FacultyReadService) findBy(
	ctx context.Context,
	field criteria.Field,
	value string,
	lookup func(context.Context, string) ([]*model.Faculty, error),
) ([]*model.Faculty, error) {
	faculties, err := lookup(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("find faculties by %s: %w", field, err)
	}
	s.log.Debug().Str("field", string(field)).Str("value", value).Int("count", len(faculties)).Msg("findBy")
	if len(faculties) == 0 {
		return nil, &NotFoundError{Criteria: map[string][]string{string(field): {value}}}
	}
	return faculties, nil
}

// Find resolves raw query parameters.
//
// No parameters return everything. A lone name parameter takes the
// case-sensitive FindByName path; every other well-formed combination runs
// as a case-insensitive conjunction ordered by name. Malformed parameters and
// empty results both yield a *NotFoundError carrying params.
func (s *FacultyReadService) Find(ctx context.Context, params map[string][]string) ([]*model.Faculty, error) {
	s.log.Debug().Interface("criteria", params).Msg("find")
	if len(params) == 0 {
		return s.FindAll(ctx)
	}

	if names, ok := params[string(criteria.FieldName)]; ok && len(params) == 1 && len(names) == 1 {
		faculties, err := s.FindByName(ctx, names[0])
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{Criteria: params}
		}
		return faculties, err
	}

	c, err := criteria.Normalize(params)
	if err != nil {
		s.log.Debug().Err(err).Msg("find: rejected criteria")
		return nil, &NotFoundError{Criteria: params}
	}

	faculties, err := s.repo.FindMatching(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("find faculties %s: %w", c, err)
	}
	if len(faculties) == 0 {
		return nil, &NotFoundError{Criteria: params}
	}

	s.log.Debug().Str("filter", c.String()).Int("count", len(faculties)).Msg("find")
	return faculties, nil
}
