package notifier

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel carries every event; the realtime layer fans out from here.
const Channel = "clipcart.events"

const publishTimeout = 2 * time.Second

// RedisSink publishes events to a redis pub/sub channel. Publishing
// happens on a detached goroutine with its own timeout so a slow or
// unavailable broker never stalls the producing operation.
type RedisSink struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisSink(client *redis.Client, log *zap.Logger) *RedisSink {
	return &RedisSink{
		client: client,
		log:    log.Named("notifier.redis"),
	}
}

func (s *RedisSink) Publish(_ context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("failed to encode notification", zap.Error(err), zap.String("type", event.Type))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.client.Publish(ctx, Channel, payload).Err(); err != nil {
			s.log.Warn("failed to publish notification",
				zap.Error(err),
				zap.String("type", event.Type),
				zap.String("event_id", event.ID),
			)
		}
	}()
}
