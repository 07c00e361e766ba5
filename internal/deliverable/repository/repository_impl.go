package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	deliverabledomain "github.com/smallbiznis/clipcart/internal/deliverable/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() deliverabledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, d *deliverabledomain.Deliverable) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO deliverables (
			id, campaign_id, video_id, creator_id, deliverable_type,
			requirements_met, status, submitted_at, rejection_reason,
			bonus_eligible, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.CampaignID,
		d.VideoID,
		d.CreatorID,
		d.DeliverableType,
		d.RequirementsMet,
		string(d.Status),
		d.SubmittedAt,
		d.RejectionReason,
		d.BonusEligible,
		d.CreatedAt,
		d.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*deliverabledomain.Deliverable, error) {
	var d deliverabledomain.Deliverable
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM deliverables WHERE id = ?`,
		id,
	).Scan(&d).Error
	if err != nil {
		return nil, err
	}
	if d.ID == 0 {
		return nil, nil
	}
	return &d, nil
}

func (r *repo) FindByPair(ctx context.Context, db *gorm.DB, videoID, campaignID snowflake.ID) (*deliverabledomain.Deliverable, error) {
	var d deliverabledomain.Deliverable
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM deliverables WHERE video_id = ? AND campaign_id = ?`,
		videoID,
		campaignID,
	).Scan(&d).Error
	if err != nil {
		return nil, err
	}
	if d.ID == 0 {
		return nil, nil
	}
	return &d, nil
}

func (r *repo) ListByCampaign(ctx context.Context, db *gorm.DB, campaignID snowflake.ID) ([]deliverabledomain.Deliverable, error) {
	var out []deliverabledomain.Deliverable
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM deliverables WHERE campaign_id = ? ORDER BY created_at ASC, id ASC`,
		campaignID,
	).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) CountByCreator(ctx context.Context, db *gorm.DB, creatorID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM deliverables WHERE creator_id = ?`,
		creatorID,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status deliverabledomain.DeliverableStatus, reason string, at time.Time) error {
	switch status {
	case deliverabledomain.StatusApproved:
		return db.WithContext(ctx).Exec(
			`UPDATE deliverables SET status = ?, approved_at = ?, updated_at = ? WHERE id = ?`,
			string(status), at, at, id,
		).Error
	case deliverabledomain.StatusRejected:
		return db.WithContext(ctx).Exec(
			`UPDATE deliverables SET status = ?, rejected_at = ?, rejection_reason = ?, updated_at = ? WHERE id = ?`,
			string(status), at, reason, at, id,
		).Error
	default:
		return db.WithContext(ctx).Exec(
			`UPDATE deliverables SET status = ?, updated_at = ? WHERE id = ?`,
			string(status), at, id,
		).Error
	}
}

func (r *repo) UpdateReview(ctx context.Context, db *gorm.DB, id snowflake.ID, score *float64, bonusEligible bool, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE deliverables SET performance_score = ?, bonus_eligible = ?, updated_at = ? WHERE id = ?`,
		score, bonusEligible, at, id,
	).Error
}
