package notifier

import (
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideSink(client *redis.Client, log *zap.Logger) Sink {
	if client == nil {
		log.Info("notifications disabled, no broker configured")
		return NopSink{}
	}
	return NewRedisSink(client, log)
}

// Module wires the notification sink.
var Module = fx.Module("notifier",
	fx.Provide(provideSink),
)
