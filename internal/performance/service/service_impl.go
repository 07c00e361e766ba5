package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	deliverabledomain "github.com/smallbiznis/clipcart/internal/deliverable/domain"
	performancedomain "github.com/smallbiznis/clipcart/internal/performance/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	Repo            performancedomain.Repository
	VideoRepo       videodomain.Repository
	DeliverableRepo deliverabledomain.Repository
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	repo            performancedomain.Repository
	videoRepo       videodomain.Repository
	deliverableRepo deliverabledomain.Repository
}

func New(p Params) performancedomain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("performance.service"),
		repo:            p.Repo,
		videoRepo:       p.VideoRepo,
		deliverableRepo: p.DeliverableRepo,
	}
}

func (s *Service) GetCreatorPerformance(ctx context.Context, creatorID snowflake.ID, window performancedomain.Range) (*performancedomain.CreatorPerformance, error) {
	if creatorID == 0 {
		return nil, performancedomain.ErrInvalidCreator
	}
	if !window.Valid() {
		return nil, performancedomain.ErrInvalidRange
	}

	agg, err := s.repo.AggregateCreator(ctx, s.db, creatorID, window)
	if err != nil {
		return nil, err
	}

	deliverables, err := s.deliverableRepo.CountByCreator(ctx, s.db, creatorID)
	if err != nil {
		return nil, err
	}

	perf := &performancedomain.CreatorPerformance{
		CreatorID:             creatorID,
		TotalVideos:           agg.TotalVideos,
		TotalViews:            agg.TotalViews,
		TotalEngagements:      agg.TotalEngagements,
		TotalAttributedGMV:    agg.TotalGMV,
		TotalAttributedOrders: agg.TotalOrders,
		DeliverableCount:      deliverables,
	}
	if agg.TotalViews > 0 {
		perf.AvgEngagementRate = float64(agg.TotalEngagements) / float64(agg.TotalViews) * 100
	}
	if !window.From.IsZero() {
		from := window.From
		perf.From = &from
	}
	if !window.To.IsZero() {
		to := window.To
		perf.To = &to
	}
	return perf, nil
}

func (s *Service) LatestSnapshot(ctx context.Context, videoID snowflake.ID) (*videodomain.VideoMetric, error) {
	if videoID == 0 {
		return nil, videodomain.ErrInvalidID
	}

	v, err := s.videoRepo.FindByID(ctx, s.db, videoID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, videodomain.ErrNotFound
	}

	metric, err := s.videoRepo.LatestMetric(ctx, s.db, videoID)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, performancedomain.ErrNoSnapshots
	}
	return metric, nil
}
