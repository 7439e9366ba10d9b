package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/acme/faculty/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes events onto the faculty events queue for the relay worker.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.RPush(ctx, config.WorkerKey.FacultyEventsQueue, data).Err(); err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}
