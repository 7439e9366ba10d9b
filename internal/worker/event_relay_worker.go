package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/acme/faculty/internal/config"
	"github.com/acme/faculty/internal/events"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventRelayWorker consumes the faculty event queue and fans each event out
// to the local hub, so every server instance sees every write.
type EventRelayWorker struct {
	rdb     *redis.Client
	sink    events.Publisher
	log     zerolog.Logger
	timeout time.Duration
}

func NewEventRelayWorker(rdb *redis.Client, sink events.Publisher, log zerolog.Logger) *EventRelayWorker {
	return &EventRelayWorker{
		rdb:     rdb,
		sink:    sink,
		log:     log.With().Str("component", "event_relay_worker").Logger(),
		timeout: time.Second,
	}
}

// Start begins the worker loop. Call in a goroutine; it returns after ctx is
// done and the queue has been drained.
func (w *EventRelayWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *EventRelayWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or the timeout passes.
	result, err := w.rdb.BLPop(ctx, w.timeout, config.WorkerKey.FacultyEventsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
			// Back off so a lost connection does not spin the loop.
			select {
			case <-ctx.Done():
			case <-time.After(w.timeout):
			}
		}
		return
	}

	if len(result) < 2 {
		return
	}
	w.relay(ctx, result[1])
}

func (w *EventRelayWorker) relay(ctx context.Context, raw string) {
	var e events.Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, event discarded")
		return
	}
	if err := w.sink.Publish(ctx, e); err != nil {
		w.log.Error().Err(err).Str("faculty_id", e.FacultyID.String()).Msg("Relay error")
		return
	}
	w.log.Debug().
		Str("type", string(e.Type)).
		Str("faculty_id", e.FacultyID.String()).
		Int("version", e.Version).
		Msg("Event relayed")
}

// drain relays everything still queued before shutdown.
func (w *EventRelayWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.FacultyEventsQueue).Result()
		if err != nil {
			break
		}
		w.relay(ctx, raw)
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
