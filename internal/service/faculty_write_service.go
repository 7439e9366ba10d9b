package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acme/faculty/internal/events"
	"github.com/acme/faculty/internal/logger"
	"github.com/acme/faculty/internal/model"
	"github.com/acme/faculty/internal/repository"
	"github.com/acme/faculty/internal/validator"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FacultyWriteService creates faculties and applies versioned replacements.
type FacultyWriteService struct {
	repo      repository.FacultyRepository
	guard     *UniquenessGuard
	publisher events.Publisher
	log       zerolog.Logger
}

// NewFacultyWriteService wires the write path. publisher may be nil.
func NewFacultyWriteService(repo repository.FacultyRepository, publisher events.Publisher, log zerolog.Logger) *FacultyWriteService {
	return &FacultyWriteService{
		repo:      repo,
		guard:     NewUniquenessGuard(repo),
		publisher: publisher,
		log:       logger.Component(log, "faculty_write_service"),
	}
}

// Create stores a new faculty with version 0.
func (s *FacultyWriteService) Create(ctx context.Context, req *model.FacultyRequest) (*model.Faculty, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, req); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, req.ToFaculty())
	if err != nil {
		return nil, s.mapWriteError(req, err)
	}

	s.log.Debug().Str("id", created.ID.String()).Str("name", created.Name).Msg("Faculty created")
	s.publish(ctx, events.TypeCreated, created)
	return created, nil
}

// Update replaces name, dean and courses of the faculty with id, provided its
// stored version still equals expectedVersion. The version is bumped by one.
func (s *FacultyWriteService) Update(ctx context.Context, id uuid.UUID, req *model.FacultyRequest, expectedVersion int) (*model.Faculty, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load faculty %s: %w", id, err)
	}
	if current.Version != expectedVersion {
		s.log.Debug().
			Str("id", id.String()).
			Int("expected", expectedVersion).
			Int("actual", current.Version).
			Msg("Stale update rejected")
		return nil, &VersionConflictError{Expected: expectedVersion, Actual: current.Version}
	}
	// Only the dean is guarded here; an exact name clash still fails on the
	// store constraint below.
	taken, err := s.guard.DeanExistsExcept(ctx, req.Dean.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &DeanExistsError{Dean: req.Dean.Name}
	}

	updated, err := s.repo.CompareAndSwap(ctx, id, expectedVersion, req.ToFaculty())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, &NotFoundError{ID: id}
	case errors.Is(err, repository.ErrVersionMismatch):
		// Another writer committed between the read above and the swap.
		actual := expectedVersion + 1
		if latest, getErr := s.repo.GetByID(ctx, id); getErr == nil {
			actual = latest.Version
		}
		return nil, &VersionConflictError{Expected: expectedVersion, Actual: actual}
	case err != nil:
		return nil, s.mapWriteError(req, err)
	}

	s.log.Debug().Str("id", id.String()).Int("version", updated.Version).Msg("Faculty updated")
	s.publish(ctx, events.TypeUpdated, updated)
	return updated, nil
}

func validateRequest(req *model.FacultyRequest) error {
	if req == nil {
		return &ValidationError{Fields: map[string]string{"detail": "faculty payload is required"}}
	}
	if fields := validator.Struct(req); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// checkUnique runs the name check before the dean check, so a request that
// collides on both reports NameExists.
func (s *FacultyWriteService) checkUnique(ctx context.Context, req *model.FacultyRequest) error {
	taken, err := s.guard.NameExists(ctx, req.Name)
	if err != nil {
		return err
	}
	if taken {
		return &NameExistsError{Name: req.Name}
	}

	taken, err = s.guard.DeanExists(ctx, req.Dean.Name)
	if err != nil {
		return err
	}
	if taken {
		return &DeanExistsError{Dean: req.Dean.Name}
	}
	return nil
}

// mapWriteError turns store constraint violations from racing writers into
// the same errors the guard would have raised.
func (s *FacultyWriteService) mapWriteError(req *model.FacultyRequest, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateName):
		return &NameExistsError{Name: req.Name}
	case errors.Is(err, repository.ErrDuplicateDean):
		return &DeanExistsError{Dean: req.Dean.Name}
	default:
		return fmt.Errorf("store faculty: %w", err)
	}
}

func (s *FacultyWriteService) publish(ctx context.Context, typ events.Type, f *model.Faculty) {
	if s.publisher == nil {
		return
	}
	e := events.Event{
		Type:      typ,
		FacultyID: f.ID,
		Version:   f.Version,
		Name:      f.Name,
		At:        time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("id", f.ID.String()).Msg("Failed to publish faculty event")
	}
}
