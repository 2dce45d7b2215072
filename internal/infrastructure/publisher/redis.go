package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"custodian.io/internal/domain/entity"
)

// DefaultChannel is the Redis channel events are published on
const DefaultChannel = "vault:events"

// Redis publishes JSON-encoded events on a Redis channel
type Redis struct {
	client  redis.Cmdable
	channel string
	timeout time.Duration
}

// NewRedis creates a Redis publisher. An empty channel uses DefaultChannel.
func NewRedis(client redis.Cmdable, channel string, timeout time.Duration) *Redis {
	if channel == "" {
		channel = DefaultChannel
	}
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &Redis{client: client, channel: channel, timeout: timeout}
}

// Publish implements port.EventPublisher
func (r *Redis) Publish(ctx context.Context, event entity.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to redis: %w", err)
	}
	return nil
}
