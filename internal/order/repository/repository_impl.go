package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() orderdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, o *orderdomain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (
			id, platform_order_id, total_amount, currency, order_status,
			creator_id, attributed_video_id, attribution_method, attribution_confidence,
			promo_code_used, discount_amount, customer_id, customer_email,
			order_date, fulfilled_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID,
		o.PlatformOrderID,
		o.TotalAmount,
		o.Currency,
		o.OrderStatus,
		o.CreatorID,
		o.AttributedVideoID,
		string(o.AttributionMethod),
		o.AttributionConfidence,
		o.PromoCodeUsed,
		o.DiscountAmount,
		o.CustomerID,
		o.CustomerEmail,
		o.OrderDate,
		o.FulfilledDate,
		o.CreatedAt,
		o.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM orders WHERE id = ?`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) FindByPlatformID(ctx context.Context, db *gorm.DB, platformOrderID string) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM orders WHERE platform_order_id = ?`,
		platformOrderID,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) ListAttributable(ctx context.Context, db *gorm.DB, creatorID snowflake.ID, from, to time.Time, videoIDs []snowflake.ID) ([]orderdomain.Order, error) {
	var orders []orderdomain.Order

	// Orders whose claimed video no longer exists (or was soft
	// deleted) carry a stale claim and count as unattributed here.
	query := `SELECT * FROM orders
		 WHERE creator_id = ?
		   AND order_date >= ? AND order_date < ?
		   AND (attributed_video_id IS NULL
		        OR attributed_video_id NOT IN (SELECT id FROM videos WHERE status != 'deleted'))
		 ORDER BY order_date ASC, id ASC`
	args := []any{creatorID, from, to}
	if len(videoIDs) > 0 {
		query = `SELECT * FROM orders
		 WHERE creator_id = ?
		   AND order_date >= ? AND order_date < ?
		   AND (attributed_video_id IS NULL
		        OR attributed_video_id IN ?
		        OR attributed_video_id NOT IN (SELECT id FROM videos WHERE status != 'deleted'))
		 ORDER BY order_date ASC, id ASC`
		args = []any{creatorID, from, to, videoIDs}
	}

	err := db.WithContext(ctx).Raw(query, args...).Scan(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) ApplyAttribution(ctx context.Context, db *gorm.DB, orderID, videoID snowflake.ID, method orderdomain.AttributionMethod, confidence float64, updatedAt time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET attributed_video_id = ?, attribution_method = ?, attribution_confidence = ?, updated_at = ?
		 WHERE id = ?
		   AND (attributed_video_id IS NULL
		        OR attributed_video_id = ?
		        OR attributed_video_id NOT IN (SELECT id FROM videos WHERE status != 'deleted'))`,
		videoID,
		string(method),
		confidence,
		updatedAt,
		orderID,
		videoID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repo) SumAttributed(ctx context.Context, db *gorm.DB, videoID snowflake.ID) (float64, int64, error) {
	var row struct {
		Total float64 `gorm:"column:total"`
		Count int64   `gorm:"column:count"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count
		 FROM orders WHERE attributed_video_id = ?`,
		videoID,
	).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Count, nil
}

// UpdateSyncedFields refreshes the mutable, sync-owned columns of an
// existing order. Attribution columns are intentionally absent.
func (r *repo) UpdateSyncedFields(ctx context.Context, db *gorm.DB, o *orderdomain.Order) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET total_amount = ?, currency = ?, order_status = ?, promo_code_used = ?,
		     discount_amount = ?, customer_id = ?, customer_email = ?, order_date = ?,
		     fulfilled_date = ?, updated_at = ?
		 WHERE id = ?`,
		o.TotalAmount,
		o.Currency,
		o.OrderStatus,
		o.PromoCodeUsed,
		o.DiscountAmount,
		o.CustomerID,
		o.CustomerEmail,
		o.OrderDate,
		o.FulfilledDate,
		o.UpdatedAt,
		o.ID,
	).Error
}
