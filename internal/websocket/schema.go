package websocket

import "github.com/acme/faculty/internal/events"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventReady   Event = "ready"
	EventFaculty Event = "faculty"
	EventPong    Event = "pong"
)

// ReadyResponse is sent once the stream is subscribed.
type ReadyResponse struct {
	Event Event `json:"event"`
}

// FacultyResponse relays one committed faculty write.
type FacultyResponse struct {
	Event   Event        `json:"event"`
	Payload events.Event `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
