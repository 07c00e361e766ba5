package syncer

import (
	"github.com/smallbiznis/clipcart/internal/syncer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("syncer.service",
	fx.Provide(service.New),
)
