package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Discover inserts a video on first sighting of its platform
	// identifier. Re-discovery of a known video is a silent no-op;
	// the returned bool reports whether a row was created.
	Discover(ctx context.Context, creatorID snowflake.ID, data VideoData) (*Video, bool, error)

	// RecordMetricsUpdate overwrites the video's live counters and
	// appends a VideoMetric snapshot with a freshly computed
	// engagement rate.
	RecordMetricsUpdate(ctx context.Context, videoID snowflake.ID, counters Counters) (*VideoMetric, error)

	GetByID(ctx context.Context, videoID snowflake.ID) (*Video, error)
	GetByPlatformID(ctx context.Context, platformVideoID string) (*Video, error)
	ListByCreator(ctx context.Context, creatorID snowflake.ID) ([]Video, error)

	// MarkDeleted soft-deletes a video by transitioning its status.
	MarkDeleted(ctx context.Context, videoID snowflake.ID) error
}

var (
	ErrNotFound        = errors.New("video_not_found")
	ErrInvalidID       = errors.New("invalid_video_id")
	ErrInvalidCreator  = errors.New("invalid_creator_id")
	ErrInvalidVideo    = errors.New("invalid_video_data")
	ErrInvalidCounters = errors.New("invalid_counters")
)
