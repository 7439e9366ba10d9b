package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/acme/faculty/internal/events"
	"github.com/acme/faculty/internal/middleware"
	"github.com/acme/faculty/internal/response"
	ws "github.com/acme/faculty/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams faculty change events to admins.
type WSHandler struct {
	hub      *events.Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
	done     chan struct{}
	stopOnce sync.Once
}

func NewWSHandler(hub *events.Hub, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:      hub,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
		done:     make(chan struct{}),
	}
}

// Shutdown closes every open stream with a normal closure frame.
func (h *WSHandler) Shutdown() {
	h.stopOnce.Do(func() { close(h.done) })
}

// FacultyStream godoc
// WS /ws/v1/faculties/stream?token=...
// Pushes a "faculty" event for every committed create or update.
func (h *WSHandler) FacultyStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	wsLog := h.log.With().Str("admin", claims.Email).Logger()
	wsLog.Info().Msg("Admin connected")

	// The reader owns conn reads; every write happens on this goroutine.
	pings := make(chan struct{}, 1)
	closed := make(chan struct{})
	go h.readLoop(conn, wsLog, pings, closed)

	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady}); err != nil {
		return
	}

	for {
		select {
		case <-h.done:
			_ = ws.WriteClose(conn, "server shutting down")
			return
		case <-closed:
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case e, ok := <-sub:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.FacultyResponse{Event: ws.EventFaculty, Payload: e}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(conn *websocket.Conn, log zerolog.Logger, pings chan<- struct{}, closed chan<- struct{}) {
	defer close(closed)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			} else {
				log.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			select {
			case pings <- struct{}{}:
			default:
			}
		default:
			log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		}
	}
}
