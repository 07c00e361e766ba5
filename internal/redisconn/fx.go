package redisconn

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/clipcart/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New returns a shared redis client, or nil when no address is
// configured. Consumers treat a nil client as "feature disabled".
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})
	return client
}

// Module wires the shared redis client.
var Module = fx.Module("redis",
	fx.Provide(New),
)
