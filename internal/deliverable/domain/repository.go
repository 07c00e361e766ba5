package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, d *Deliverable) error

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Deliverable, error)

	FindByPair(ctx context.Context, db *gorm.DB, videoID, campaignID snowflake.ID) (*Deliverable, error)

	ListByCampaign(ctx context.Context, db *gorm.DB, campaignID snowflake.ID) ([]Deliverable, error)

	CountByCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID) (int64, error)

	// UpdateStatus writes the new status and its timestamp column.
	// The rejection reason is only persisted for rejections.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status DeliverableStatus, reason string, at time.Time) error

	UpdateReview(ctx context.Context, db *gorm.DB, id snowflake.ID, score *float64, bonusEligible bool, at time.Time) error
}
