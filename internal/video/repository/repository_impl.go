package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() videodomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, v *videodomain.Video) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO videos (
			id, creator_id, platform_video_id, title, description, video_url, thumbnail_url,
			view_count, like_count, comment_count, share_count, promo_codes, status,
			attributed_gmv, attributed_orders, last_attribution_update,
			published_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID,
		v.CreatorID,
		v.PlatformVideoID,
		v.Title,
		v.Description,
		v.VideoURL,
		v.ThumbnailURL,
		v.ViewCount,
		v.LikeCount,
		v.CommentCount,
		v.ShareCount,
		v.PromoCodes,
		v.Status,
		v.AttributedGMV,
		v.AttributedOrders,
		v.LastAttributionUpdate,
		v.PublishedAt,
		v.CreatedAt,
		v.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*videodomain.Video, error) {
	var video videodomain.Video
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM videos WHERE id = ?`,
		id,
	).Scan(&video).Error
	if err != nil {
		return nil, err
	}
	if video.ID == 0 {
		return nil, nil
	}
	return &video, nil
}

func (r *repo) FindByPlatformID(ctx context.Context, db *gorm.DB, platformVideoID string) (*videodomain.Video, error) {
	var video videodomain.Video
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM videos WHERE platform_video_id = ?`,
		platformVideoID,
	).Scan(&video).Error
	if err != nil {
		return nil, err
	}
	if video.ID == 0 {
		return nil, nil
	}
	return &video, nil
}

func (r *repo) ListByCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID) ([]videodomain.Video, error) {
	var videos []videodomain.Video
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM videos WHERE creator_id = ? ORDER BY published_at ASC, id ASC`,
		creatorID,
	).Scan(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *repo) UpdateCounters(ctx context.Context, db *gorm.DB, id snowflake.ID, c videodomain.Counters, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE videos
		 SET view_count = ?, like_count = ?, comment_count = ?, share_count = ?, updated_at = ?
		 WHERE id = ?`,
		c.Views,
		c.Likes,
		c.Comments,
		c.Shares,
		updatedAt,
		id,
	).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status videodomain.VideoStatus, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE videos SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		updatedAt,
		id,
	).Error
}

func (r *repo) InsertMetric(ctx context.Context, db *gorm.DB, m *videodomain.VideoMetric) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO video_metrics (
			id, video_id, view_count, like_count, comment_count, share_count,
			engagement_rate, engagement_count, attributed_gmv, attributed_orders,
			recorded_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.VideoID,
		m.ViewCount,
		m.LikeCount,
		m.CommentCount,
		m.ShareCount,
		m.EngagementRate,
		m.EngagementCount,
		m.AttributedGMV,
		m.AttributedOrders,
		m.RecordedAt,
		m.CreatedAt,
	).Error
}

func (r *repo) LatestMetric(ctx context.Context, db *gorm.DB, videoID snowflake.ID) (*videodomain.VideoMetric, error) {
	var metric videodomain.VideoMetric
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM video_metrics
		 WHERE video_id = ?
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT 1`,
		videoID,
	).Scan(&metric).Error
	if err != nil {
		return nil, err
	}
	if metric.ID == 0 {
		return nil, nil
	}
	return &metric, nil
}
