package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Range bounds an aggregation window on published_at. Zero bounds are
// open on that side.
type Range struct {
	From time.Time
	To   time.Time
}

// Valid reports whether the bounds are ordered. Open bounds are valid.
func (r Range) Valid() bool {
	if r.From.IsZero() || r.To.IsZero() {
		return true
	}
	return !r.To.Before(r.From)
}

// CreatorPerformance is a read-only rollup across a creator's videos.
// AvgEngagementRate is the rate of the aggregates, not the average of
// per-video rates, so large videos weigh in proportionally.
type CreatorPerformance struct {
	CreatorID snowflake.ID `json:"creator_id"`

	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalEngagements int64 `json:"total_engagements"`

	AvgEngagementRate float64 `json:"avg_engagement_rate"`

	TotalAttributedGMV    float64 `json:"total_attributed_gmv"`
	TotalAttributedOrders int64   `json:"total_attributed_orders"`

	DeliverableCount int64 `json:"deliverable_count"`

	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

var (
	ErrInvalidCreator = errors.New("invalid_performance_creator")
	ErrInvalidRange   = errors.New("invalid_performance_range")
	ErrNoSnapshots    = errors.New("no_metric_snapshots")
)
