package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DeliverableStatus tracks a campaign deliverable through review.
// Rejected and completed are terminal.
type DeliverableStatus string

const (
	StatusPending   DeliverableStatus = "pending"
	StatusApproved  DeliverableStatus = "approved"
	StatusRejected  DeliverableStatus = "rejected"
	StatusCompleted DeliverableStatus = "completed"
)

// CanTransition reports whether the review state machine permits
// moving from one status to another.
func CanTransition(from, to DeliverableStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusCompleted
	default:
		return false
	}
}

// Deliverable ties a video to a campaign obligation. A video fulfills
// at most one deliverable per campaign.
type Deliverable struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	CampaignID snowflake.ID `gorm:"not null;uniqueIndex:ux_deliverables_video_campaign"`
	VideoID    snowflake.ID `gorm:"not null;uniqueIndex:ux_deliverables_video_campaign;index"`
	CreatorID  snowflake.ID `gorm:"index"`

	DeliverableType string            `gorm:"type:text;not null"`
	RequirementsMet datatypes.JSONMap `gorm:"column:requirements_met"`

	Status DeliverableStatus `gorm:"type:text;not null;default:'pending'"`

	SubmittedAt     *time.Time `gorm:""`
	ApprovedAt      *time.Time `gorm:""`
	RejectedAt      *time.Time `gorm:""`
	RejectionReason string     `gorm:"type:text"`

	PerformanceScore *float64 `gorm:""`
	BonusEligible    bool     `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Deliverable) TableName() string { return "deliverables" }

var (
	ErrNotFound           = errors.New("deliverable_not_found")
	ErrDuplicate          = errors.New("deliverable_already_exists")
	ErrInvalidDeliverable = errors.New("invalid_deliverable_data")
	ErrInvalidTransition  = errors.New("invalid_deliverable_transition")
)
