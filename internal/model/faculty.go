package model

import (
	"time"

	"github.com/google/uuid"
)

// Faculty is an academic department. It owns exactly one dean and a
// non-empty list of courses; both are replaced together with the faculty.
type Faculty struct {
	ID        uuid.UUID `json:"id"`
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	Dean      Dean      `json:"dean"`
	Courses   []Course  `json:"courses"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Dean is the head of a faculty. Dean names are unique across faculties.
type Dean struct {
	Name  string `json:"name" binding:"required,notblank" validate:"required,notblank"`
	Email string `json:"email" binding:"required,email" validate:"required,email"`
}

// Course is offered by a single faculty. Names are unique within that faculty.
type Course struct {
	Name string `json:"name" binding:"required,notblank" validate:"required,notblank"`
}

// Clone returns a deep copy so callers never share the course slice.
func (f *Faculty) Clone() *Faculty {
	if f == nil {
		return nil
	}
	c := *f
	c.Courses = append([]Course(nil), f.Courses...)
	return &c
}

// CourseNames lists the course names in order.
func (f *Faculty) CourseNames() []string {
	names := make([]string, len(f.Courses))
	for i, c := range f.Courses {
		names[i] = c.Name
	}
	return names
}

// FacultyRequest is the payload for creating or replacing a faculty.
type FacultyRequest struct {
	Name    string   `json:"name" binding:"required,notblank" validate:"required,notblank"`
	Dean    *Dean    `json:"dean" binding:"required" validate:"required"`
	Courses []Course `json:"courses" binding:"required,min=1,unique=Name,dive" validate:"required,min=1,unique=Name,dive"`
}

// ToFaculty maps the request onto a fresh faculty without id or version.
func (r *FacultyRequest) ToFaculty() *Faculty {
	f := &Faculty{
		Name:    r.Name,
		Courses: append([]Course(nil), r.Courses...),
	}
	if r.Dean != nil {
		f.Dean = *r.Dean
	}
	return f
}
