package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error

	// UpdateSyncedFields refreshes the sync-owned columns only;
	// attribution columns are out of its reach.
	UpdateSyncedFields(ctx context.Context, db *gorm.DB, order *Order) error

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	FindByPlatformID(ctx context.Context, db *gorm.DB, platformOrderID string) (*Order, error)

	// ListAttributable returns a creator's orders inside [from, to)
	// that are unattributed, already attributed to one of the given
	// videos, or hold a stale claim on a deleted or missing video.
	// Used exclusively by the attribution engine.
	ListAttributable(ctx context.Context, db *gorm.DB, creatorID snowflake.ID, from, to time.Time, videoIDs []snowflake.ID) ([]Order, error)

	// ApplyAttribution sets the attribution fields on an order. The
	// update is guarded so an order claimed by a live video is never
	// overwritten; stale claims on deleted or missing videos may be
	// replaced. The bool reports whether the row changed. Only the
	// attribution engine's accept path may call this.
	ApplyAttribution(ctx context.Context, db *gorm.DB, orderID, videoID snowflake.ID, method AttributionMethod, confidence float64, updatedAt time.Time) (bool, error)

	// SumAttributed totals the amounts and counts of orders currently
	// attributed to a video.
	SumAttributed(ctx context.Context, db *gorm.DB, videoID snowflake.ID) (float64, int64, error)
}
