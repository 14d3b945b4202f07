package monitor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrPublishFailed wraps Redis publish failures.
var ErrPublishFailed = errors.New("monitor: failed to publish event")

// defaultChannel is the pub/sub channel used when none is configured.
const defaultChannel = "monitoring:cache"

// RedisSink publishes JSON-encoded events to a Redis pub/sub channel
// for consumption by a live monitoring view.
type RedisSink struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisSink creates a sink publishing to the given channel. An empty
// channel name falls back to "monitoring:cache".
func NewRedisSink(client redis.UniversalClient, channel string) *RedisSink {
	if channel == "" {
		channel = defaultChannel
	}
	return &RedisSink{client: client, channel: channel}
}

// Publish encodes the event as JSON and publishes it.
func (s *RedisSink) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}
