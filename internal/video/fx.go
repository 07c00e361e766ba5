package video

import (
	"github.com/smallbiznis/clipcart/internal/video/repository"
	"github.com/smallbiznis/clipcart/internal/video/service"
	"go.uber.org/fx"
)

var Module = fx.Module("video.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
