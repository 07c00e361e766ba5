package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clipcart/internal/attribution"
	"github.com/smallbiznis/clipcart/internal/clock"
	"github.com/smallbiznis/clipcart/internal/config"
	"github.com/smallbiznis/clipcart/internal/deliverable"
	"github.com/smallbiznis/clipcart/internal/logger"
	"github.com/smallbiznis/clipcart/internal/migration"
	"github.com/smallbiznis/clipcart/internal/notifier"
	"github.com/smallbiznis/clipcart/internal/observability"
	"github.com/smallbiznis/clipcart/internal/order"
	"github.com/smallbiznis/clipcart/internal/performance"
	"github.com/smallbiznis/clipcart/internal/redisconn"
	"github.com/smallbiznis/clipcart/internal/scheduler"
	"github.com/smallbiznis/clipcart/internal/server"
	"github.com/smallbiznis/clipcart/internal/syncer"
	"github.com/smallbiznis/clipcart/internal/video"
	"github.com/smallbiznis/clipcart/pkg/db"
	"github.com/smallbiznis/clipcart/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		telemetry.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		redisconn.Module,
		notifier.Module,
		migration.Module,

		// Functional domains
		video.Module,
		order.Module,
		attribution.Module,
		deliverable.Module,
		performance.Module,
		syncer.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
