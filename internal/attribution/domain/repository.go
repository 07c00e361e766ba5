package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// ListScopeVideos loads the videos an attribution run will
	// evaluate, ordered by published_at then id so tie-breaks are
	// reproducible. On dialects that support it the rows are locked
	// for the enclosing transaction, serializing concurrent runs that
	// target the same videos.
	ListScopeVideos(ctx context.Context, tx *gorm.DB, scope Scope) ([]videodomain.Video, error)

	// IncrementVideoTotals adds newly attributed GMV and order counts
	// onto a video row in place, so concurrent accept paths never lose
	// updates to a stale read.
	IncrementVideoTotals(ctx context.Context, tx *gorm.DB, videoID snowflake.ID, gmv float64, orders int64, at time.Time) error
}

type Service interface {
	// Attribute assigns eligible orders in scope to at most one video
	// each and updates totals in a single transaction. Re-running with
	// no new data is a no-op returning the zero Result.
	Attribute(ctx context.Context, scope Scope, window time.Duration) (Result, error)
}
