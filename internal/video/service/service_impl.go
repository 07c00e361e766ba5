package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clipcart/internal/clock"
	"github.com/smallbiznis/clipcart/internal/notifier"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"github.com/smallbiznis/clipcart/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  videodomain.Repository
	Sink  notifier.Sink `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  videodomain.Repository
	sink  notifier.Sink
}

func New(p Params) videodomain.Service {
	sink := p.Sink
	if sink == nil {
		sink = notifier.NopSink{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("video.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		sink:  sink,
	}
}

func (s *Service) Discover(ctx context.Context, creatorID snowflake.ID, data videodomain.VideoData) (*videodomain.Video, bool, error) {
	if creatorID == 0 {
		return nil, false, videodomain.ErrInvalidCreator
	}
	platformID := strings.TrimSpace(data.PlatformVideoID)
	if platformID == "" || data.PublishedAt.IsZero() {
		return nil, false, videodomain.ErrInvalidVideo
	}
	if !data.Counters.Valid() {
		return nil, false, videodomain.ErrInvalidCounters
	}

	existing, err := s.repo.FindByPlatformID(ctx, s.db, platformID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	var promoCodes datatypes.JSON
	if len(data.PromoCodes) > 0 {
		encoded, err := json.Marshal(data.PromoCodes)
		if err != nil {
			return nil, false, videodomain.ErrInvalidVideo
		}
		promoCodes = encoded
	}

	now := s.clock.Now()
	v := &videodomain.Video{
		ID:              s.genID.Generate(),
		CreatorID:       creatorID,
		PlatformVideoID: platformID,
		Title:           data.Title,
		Description:     data.Description,
		VideoURL:        data.VideoURL,
		ThumbnailURL:    data.ThumbnailURL,
		ViewCount:       data.Counters.Views,
		LikeCount:       data.Counters.Likes,
		CommentCount:    data.Counters.Comments,
		ShareCount:      data.Counters.Shares,
		PromoCodes:      promoCodes,
		Status:          videodomain.VideoStatusActive,
		PublishedAt:     data.PublishedAt.UTC(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, v); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Lost the race against a concurrent sync; the row exists.
			existing, ferr := s.repo.FindByPlatformID(ctx, s.db, platformID)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	event := notifier.NewEvent(notifier.EventVideoDiscovered, now)
	event.VideoID = v.ID.String()
	event.CreatorID = creatorID.String()
	s.sink.Publish(ctx, event)

	return v, true, nil
}

func (s *Service) RecordMetricsUpdate(ctx context.Context, videoID snowflake.ID, counters videodomain.Counters) (*videodomain.VideoMetric, error) {
	if videoID == 0 {
		return nil, videodomain.ErrInvalidID
	}
	if !counters.Valid() {
		return nil, videodomain.ErrInvalidCounters
	}

	var metric *videodomain.VideoMetric
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := s.repo.FindByID(ctx, tx, videoID)
		if err != nil {
			return err
		}
		if v == nil {
			return videodomain.ErrNotFound
		}

		now := s.clock.Now()
		if err := s.repo.UpdateCounters(ctx, tx, videoID, counters, now); err != nil {
			return err
		}

		metric = &videodomain.VideoMetric{
			ID:               s.genID.Generate(),
			VideoID:          videoID,
			ViewCount:        counters.Views,
			LikeCount:        counters.Likes,
			CommentCount:     counters.Comments,
			ShareCount:       counters.Shares,
			EngagementRate:   videodomain.EngagementRate(counters),
			EngagementCount:  counters.Likes + counters.Comments + counters.Shares,
			AttributedGMV:    v.AttributedGMV,
			AttributedOrders: v.AttributedOrders,
			RecordedAt:       now,
			CreatedAt:        now,
		}
		return s.repo.InsertMetric(ctx, tx, metric)
	})
	if err != nil {
		return nil, err
	}

	event := notifier.NewEvent(notifier.EventMetricsUpdated, metric.RecordedAt)
	event.VideoID = videoID.String()
	s.sink.Publish(ctx, event)

	return metric, nil
}

func (s *Service) GetByID(ctx context.Context, videoID snowflake.ID) (*videodomain.Video, error) {
	if videoID == 0 {
		return nil, videodomain.ErrInvalidID
	}
	v, err := s.repo.FindByID(ctx, s.db, videoID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, videodomain.ErrNotFound
	}
	return v, nil
}

func (s *Service) GetByPlatformID(ctx context.Context, platformVideoID string) (*videodomain.Video, error) {
	platformVideoID = strings.TrimSpace(platformVideoID)
	if platformVideoID == "" {
		return nil, videodomain.ErrInvalidID
	}
	v, err := s.repo.FindByPlatformID(ctx, s.db, platformVideoID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, videodomain.ErrNotFound
	}
	return v, nil
}

func (s *Service) ListByCreator(ctx context.Context, creatorID snowflake.ID) ([]videodomain.Video, error) {
	if creatorID == 0 {
		return nil, videodomain.ErrInvalidCreator
	}
	return s.repo.ListByCreator(ctx, s.db, creatorID)
}

func (s *Service) MarkDeleted(ctx context.Context, videoID snowflake.ID) error {
	if videoID == 0 {
		return videodomain.ErrInvalidID
	}
	v, err := s.repo.FindByID(ctx, s.db, videoID)
	if err != nil {
		return err
	}
	if v == nil {
		return videodomain.ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, s.db, videoID, videodomain.VideoStatusDeleted, s.clock.Now())
}
