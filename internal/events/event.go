package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeCreated Type = "created"
	TypeUpdated Type = "updated"
)

// Event describes a committed faculty write.
type Event struct {
	Type      Type      `json:"type"`
	FacultyID uuid.UUID `json:"faculty_id"`
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	At        time.Time `json:"at"`
}

// Publisher delivers events to subscribers. Implementations must not block
// for long: writers call Publish after their change is already stored.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
