package deliverable

import (
	"github.com/smallbiznis/clipcart/internal/deliverable/repository"
	"github.com/smallbiznis/clipcart/internal/deliverable/service"
	"go.uber.org/fx"
)

var Module = fx.Module("deliverable.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
