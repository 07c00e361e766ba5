package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	performancedomain "github.com/smallbiznis/clipcart/internal/performance/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() performancedomain.Repository {
	return &repo{}
}

func (r *repo) AggregateCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID, window performancedomain.Range) (performancedomain.Aggregate, error) {
	query := `SELECT COUNT(*) AS total_videos,
		COALESCE(SUM(view_count), 0) AS total_views,
		COALESCE(SUM(like_count + comment_count + share_count), 0) AS total_engagements,
		COALESCE(SUM(attributed_gmv), 0) AS total_gmv,
		COALESCE(SUM(attributed_orders), 0) AS total_orders
	 FROM videos WHERE creator_id = ? AND status != ?`
	args := []any{creatorID, string(videodomain.VideoStatusDeleted)}

	if !window.From.IsZero() {
		query += ` AND published_at >= ?`
		args = append(args, window.From)
	}
	if !window.To.IsZero() {
		query += ` AND published_at < ?`
		args = append(args, window.To)
	}

	var agg performancedomain.Aggregate
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&agg).Error; err != nil {
		return performancedomain.Aggregate{}, err
	}
	return agg, nil
}
