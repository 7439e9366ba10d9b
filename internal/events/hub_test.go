package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesEverySubscriber(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	e := Event{Type: TypeCreated, FacultyID: uuid.New(), Name: "iwi", At: time.Now()}
	require.NoError(t, h.Publish(context.Background(), e))

	assert.Equal(t, e, <-a)
	assert.Equal(t, e, <-b)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(zerolog.Nop())
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, h.Publish(context.Background(), Event{Type: TypeUpdated, Version: i}))
	}

	assert.Len(t, sub, subscriberBuffer)
	assert.Equal(t, 0, (<-sub).Version)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(zerolog.Nop())
	sub := h.Subscribe()
	assert.Equal(t, 1, h.Subscribers())

	h.Unsubscribe(sub)
	_, open := <-sub
	assert.False(t, open)
	assert.Equal(t, 0, h.Subscribers())

	// Unknown channels are ignored.
	h.Unsubscribe(make(chan Event))
	require.NoError(t, h.Publish(context.Background(), Event{Type: TypeCreated}))
}
