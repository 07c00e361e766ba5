package scheduler

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
)

// WorkVideo is the slice of a video row the refresh job needs.
type WorkVideo struct {
	ID              snowflake.ID
	PlatformVideoID string
}

func (s *Scheduler) fetchKnownCreators(ctx context.Context, limit int) ([]snowflake.ID, error) {
	var rows []struct {
		CreatorID snowflake.ID `gorm:"column:creator_id"`
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT DISTINCT creator_id FROM videos
		 WHERE status != ?
		 ORDER BY creator_id ASC
		 LIMIT ?`,
		string(videodomain.VideoStatusDeleted),
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]snowflake.ID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.CreatorID)
	}
	return out, nil
}

// fetchStaleVideos picks active videos whose counters have gone the
// longest without a refresh.
func (s *Scheduler) fetchStaleVideos(ctx context.Context, limit int) ([]WorkVideo, error) {
	var videos []WorkVideo
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, platform_video_id FROM videos
		 WHERE status = ?
		 ORDER BY updated_at ASC, id ASC
		 LIMIT ?`,
		string(videodomain.VideoStatusActive),
		limit,
	).Scan(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// fetchCreatorsWithPendingOrders lists creators holding unattributed
// orders dated within the attribution horizon.
func (s *Scheduler) fetchCreatorsWithPendingOrders(ctx context.Context, since time.Time, limit int) ([]snowflake.ID, error) {
	var rows []struct {
		CreatorID snowflake.ID `gorm:"column:creator_id"`
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT DISTINCT creator_id FROM orders
		 WHERE attributed_video_id IS NULL
		   AND creator_id != 0
		   AND order_date >= ?
		 ORDER BY creator_id ASC
		 LIMIT ?`,
		since,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]snowflake.ID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.CreatorID)
	}
	return out, nil
}
