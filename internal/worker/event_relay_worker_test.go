package worker

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/acme/faculty/internal/config"
	"github.com/acme/faculty/internal/events"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_ForwardsDecodedEvents(t *testing.T) {
	hub := events.NewHub(zerolog.Nop())
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	w := NewEventRelayWorker(nil, hub, zerolog.Nop())

	e := events.Event{Type: events.TypeUpdated, FacultyID: uuid.New(), Version: 3, Name: "MET", At: time.Now().UTC()}
	raw, err := json.Marshal(e)
	require.NoError(t, err)

	w.relay(context.Background(), "not json")
	w.relay(context.Background(), string(raw))

	got := <-sub
	assert.Equal(t, e.FacultyID, got.FacultyID)
	assert.Equal(t, 3, got.Version)
	assert.True(t, e.At.Equal(got.At))
	assert.Empty(t, sub)
}

// TestEventRelay_Redis round-trips through a real redis when REDIS_URL is set.
func TestEventRelay_Redis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, rdb.Del(ctx, config.WorkerKey.FacultyEventsQueue).Err())

	hub := events.NewHub(zerolog.Nop())
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	w := NewEventRelayWorker(rdb, hub, zerolog.Nop())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	id := uuid.New()
	require.NoError(t, events.NewRedisPublisher(rdb).Publish(ctx, events.Event{Type: events.TypeCreated, FacultyID: id}))

	select {
	case got := <-sub:
		assert.Equal(t, id, got.FacultyID)
	case <-time.After(5 * time.Second):
		t.Fatal("event not relayed")
	}

	cancel()
	<-done
}
