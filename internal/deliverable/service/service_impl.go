package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clipcart/internal/clock"
	deliverabledomain "github.com/smallbiznis/clipcart/internal/deliverable/domain"
	"github.com/smallbiznis/clipcart/internal/notifier"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"github.com/smallbiznis/clipcart/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      deliverabledomain.Repository
	VideoRepo videodomain.Repository
	Sink      notifier.Sink `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      deliverabledomain.Repository
	videoRepo videodomain.Repository
	sink      notifier.Sink
}

func New(p Params) deliverabledomain.Service {
	sink := p.Sink
	if sink == nil {
		sink = notifier.NopSink{}
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("deliverable.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		videoRepo: p.VideoRepo,
		sink:      sink,
	}
}

func (s *Service) Mark(ctx context.Context, videoID, campaignID snowflake.ID, deliverableType string) (*deliverabledomain.Deliverable, error) {
	deliverableType = strings.TrimSpace(deliverableType)
	if videoID == 0 || campaignID == 0 || deliverableType == "" {
		return nil, deliverabledomain.ErrInvalidDeliverable
	}

	video, err := s.videoRepo.FindByID(ctx, s.db, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, videodomain.ErrNotFound
	}

	existing, err := s.repo.FindByPair(ctx, s.db, videoID, campaignID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, deliverabledomain.ErrDuplicate
	}

	now := s.clock.Now()
	d := &deliverabledomain.Deliverable{
		ID:              s.genID.Generate(),
		CampaignID:      campaignID,
		VideoID:         videoID,
		CreatorID:       video.CreatorID,
		DeliverableType: deliverableType,
		Status:          deliverabledomain.StatusPending,
		SubmittedAt:     &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, d); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, deliverabledomain.ErrDuplicate
		}
		return nil, err
	}

	s.publish(ctx, d, now)
	return d, nil
}

func (s *Service) Approve(ctx context.Context, id snowflake.ID) (*deliverabledomain.Deliverable, error) {
	return s.transition(ctx, id, deliverabledomain.StatusApproved, "")
}

func (s *Service) Reject(ctx context.Context, id snowflake.ID, reason string) (*deliverabledomain.Deliverable, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, deliverabledomain.ErrInvalidDeliverable
	}
	return s.transition(ctx, id, deliverabledomain.StatusRejected, reason)
}

func (s *Service) Complete(ctx context.Context, id snowflake.ID) (*deliverabledomain.Deliverable, error) {
	return s.transition(ctx, id, deliverabledomain.StatusCompleted, "")
}

func (s *Service) transition(ctx context.Context, id snowflake.ID, to deliverabledomain.DeliverableStatus, reason string) (*deliverabledomain.Deliverable, error) {
	if id == 0 {
		return nil, deliverabledomain.ErrInvalidDeliverable
	}

	var out *deliverabledomain.Deliverable
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return deliverabledomain.ErrNotFound
		}
		if !deliverabledomain.CanTransition(d.Status, to) {
			return deliverabledomain.ErrInvalidTransition
		}

		now := s.clock.Now()
		if err := s.repo.UpdateStatus(ctx, tx, id, to, reason, now); err != nil {
			return err
		}

		d.Status = to
		d.UpdatedAt = now
		switch to {
		case deliverabledomain.StatusApproved:
			d.ApprovedAt = &now
		case deliverabledomain.StatusRejected:
			d.RejectedAt = &now
			d.RejectionReason = reason
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, out, out.UpdatedAt)
	return out, nil
}

func (s *Service) SetReview(ctx context.Context, id snowflake.ID, score float64, bonusEligible bool) (*deliverabledomain.Deliverable, error) {
	if id == 0 {
		return nil, deliverabledomain.ErrInvalidDeliverable
	}

	d, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, deliverabledomain.ErrNotFound
	}

	now := s.clock.Now()
	if err := s.repo.UpdateReview(ctx, s.db, id, &score, bonusEligible, now); err != nil {
		return nil, err
	}

	d.PerformanceScore = &score
	d.BonusEligible = bonusEligible
	d.UpdatedAt = now
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*deliverabledomain.Deliverable, error) {
	if id == 0 {
		return nil, deliverabledomain.ErrInvalidDeliverable
	}
	d, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, deliverabledomain.ErrNotFound
	}
	return d, nil
}

func (s *Service) ListByCampaign(ctx context.Context, campaignID snowflake.ID) ([]deliverabledomain.Deliverable, error) {
	if campaignID == 0 {
		return nil, deliverabledomain.ErrInvalidDeliverable
	}
	return s.repo.ListByCampaign(ctx, s.db, campaignID)
}

func (s *Service) publish(ctx context.Context, d *deliverabledomain.Deliverable, at time.Time) {
	event := notifier.NewEvent(notifier.EventDeliverableUpdated, at)
	event.VideoID = d.VideoID.String()
	event.CreatorID = d.CreatorID.String()
	event.Payload = map[string]any{
		"deliverable_id": d.ID.String(),
		"campaign_id":    d.CampaignID.String(),
		"status":         string(d.Status),
	}
	s.sink.Publish(ctx, event)
}
