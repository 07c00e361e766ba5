package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, video *Video) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Video, error)
	FindByPlatformID(ctx context.Context, db *gorm.DB, platformVideoID string) (*Video, error)
	ListByCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID) ([]Video, error)
	UpdateCounters(ctx context.Context, db *gorm.DB, id snowflake.ID, counters Counters, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status VideoStatus, updatedAt time.Time) error

	InsertMetric(ctx context.Context, db *gorm.DB, metric *VideoMetric) error
	LatestMetric(ctx context.Context, db *gorm.DB, videoID snowflake.ID) (*VideoMetric, error)
}
