package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
)

type Service interface {
	// SyncCreatorVideos pulls the creator's videos from the platform
	// and discovers each into the catalog. Known videos are skipped.
	SyncCreatorVideos(ctx context.Context, creatorID snowflake.ID) (Result, error)

	// RefreshVideoMetrics pulls current counters for a video and
	// records them as a metrics update.
	RefreshVideoMetrics(ctx context.Context, videoID snowflake.ID) (*videodomain.VideoMetric, error)
}
