package repository

import (
	"github.com/acme/faculty/internal/model"
	"github.com/google/uuid"
)

// Reference faculty ids, shared with migrations/000002_seed_faculty.up.sql.
var (
	SeedIWIID = uuid.MustParse("00000000-0000-0000-0000-000000000000")
	SeedMETID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
)

// SeedFaculties returns fresh copies of the two reference faculties.
func SeedFaculties() []*model.Faculty {
	return []*model.Faculty{
		{
			ID:   SeedIWIID,
			Name: "iwi",
			Dean: model.Dean{Name: "Prof. Dr. Franz Nees", Email: "fraz.nees@iwi-hka.de"},
			Courses: []model.Course{
				{Name: "Wirtschaftsinformatik"},
				{Name: "Informatik"},
			},
		},
		{
			ID:   SeedMETID,
			Name: "MET",
			Dean: model.Dean{Name: "Prof. Dr. Leon Gauweiler", Email: "leon.gauweiler@iwi-hka.de"},
			Courses: []model.Course{
				{Name: "Elektrotechnik"},
				{Name: "Maschinenbau"},
			},
		},
	}
}
