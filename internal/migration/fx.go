package migration

import (
	"github.com/smallbiznis/clipcart/internal/config"
	deliverabledomain "github.com/smallbiznis/clipcart/internal/deliverable/domain"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite and mysql development databases build their
			// schema from the models.
			return conn.AutoMigrate(
				&videodomain.Video{},
				&videodomain.VideoMetric{},
				&orderdomain.Order{},
				&deliverabledomain.Deliverable{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
