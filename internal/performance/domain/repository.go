package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"gorm.io/gorm"
)

// Aggregate carries the raw sums a rollup derives its rates from.
type Aggregate struct {
	TotalVideos      int64   `gorm:"column:total_videos"`
	TotalViews       int64   `gorm:"column:total_views"`
	TotalEngagements int64   `gorm:"column:total_engagements"`
	TotalGMV         float64 `gorm:"column:total_gmv"`
	TotalOrders      int64   `gorm:"column:total_orders"`
}

type Repository interface {
	// AggregateCreator sums counters and attribution totals over a
	// creator's non-deleted videos, optionally bounded on published_at.
	AggregateCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID, window Range) (Aggregate, error)
}

type Service interface {
	GetCreatorPerformance(ctx context.Context, creatorID snowflake.ID, window Range) (*CreatorPerformance, error)

	// LatestSnapshot returns the newest metrics snapshot for a video.
	LatestSnapshot(ctx context.Context, videoID snowflake.ID) (*videodomain.VideoMetric, error)
}
