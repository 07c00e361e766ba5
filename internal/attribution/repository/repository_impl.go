package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	attributiondomain "github.com/smallbiznis/clipcart/internal/attribution/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"github.com/smallbiznis/clipcart/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() attributiondomain.Repository {
	return &repo{}
}

func (r *repo) ListScopeVideos(ctx context.Context, tx *gorm.DB, scope attributiondomain.Scope) ([]videodomain.Video, error) {
	var (
		where string
		arg   snowflake.ID
	)
	if scope.VideoID != 0 {
		where = "id = ?"
		arg = scope.VideoID
	} else {
		where = "creator_id = ?"
		arg = scope.CreatorID
	}

	query := `SELECT * FROM videos WHERE ` + where + ` ORDER BY published_at ASC, id ASC`
	if db.SupportsRowLocking(tx) {
		query += ` FOR UPDATE`
	}

	var videos []videodomain.Video
	if err := tx.WithContext(ctx).Raw(query, arg).Scan(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *repo) IncrementVideoTotals(ctx context.Context, tx *gorm.DB, videoID snowflake.ID, gmv float64, orders int64, at time.Time) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE videos
		 SET attributed_gmv = attributed_gmv + ?,
		     attributed_orders = attributed_orders + ?,
		     last_attribution_update = ?,
		     updated_at = ?
		 WHERE id = ?`,
		gmv,
		orders,
		at,
		at,
		videoID,
	).Error
}
