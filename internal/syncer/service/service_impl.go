package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clipcart/internal/observability"
	syncerdomain "github.com/smallbiznis/clipcart/internal/syncer/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log             *zap.Logger
	Videos          videodomain.Service
	VideoProvider   syncerdomain.VideoProvider   `optional:"true"`
	MetricsProvider syncerdomain.MetricsProvider `optional:"true"`
	ObsMetrics      *observability.Metrics       `optional:"true"`
}

type Service struct {
	log             *zap.Logger
	videos          videodomain.Service
	videoProvider   syncerdomain.VideoProvider
	metricsProvider syncerdomain.MetricsProvider
	obsMetrics      *observability.Metrics
}

func New(p Params) syncerdomain.Service {
	return &Service{
		log:             p.Log.Named("syncer.service"),
		videos:          p.Videos,
		videoProvider:   p.VideoProvider,
		metricsProvider: p.MetricsProvider,
		obsMetrics:      p.ObsMetrics,
	}
}

func (s *Service) SyncCreatorVideos(ctx context.Context, creatorID snowflake.ID) (syncerdomain.Result, error) {
	if creatorID == 0 {
		return syncerdomain.Result{}, videodomain.ErrInvalidCreator
	}
	if s.videoProvider == nil {
		return syncerdomain.Result{}, syncerdomain.ErrNoProvider
	}

	payloads, err := s.videoProvider.FetchCreatorVideos(ctx, creatorID.String())
	if err != nil {
		s.obsMetrics.RecordSyncedVideos("failed", 0)
		return syncerdomain.Result{}, fmt.Errorf("%w: %w", syncerdomain.ErrSyncFailed, err)
	}

	result := syncerdomain.Result{Total: len(payloads)}
	for _, data := range payloads {
		_, created, err := s.videos.Discover(ctx, creatorID, data)
		if err != nil {
			// A malformed payload should not sink the whole batch.
			s.log.Warn("skipping video payload",
				zap.String("creator_id", creatorID.String()),
				zap.String("platform_video_id", data.PlatformVideoID),
				zap.Error(err),
			)
			continue
		}
		if created {
			result.Synced++
		}
	}

	s.obsMetrics.RecordSyncedVideos("synced", result.Synced)
	s.obsMetrics.RecordSyncedVideos("skipped", result.Total-result.Synced)

	s.log.Info("creator videos synced",
		zap.String("creator_id", creatorID.String()),
		zap.Int("synced", result.Synced),
		zap.Int("total", result.Total),
	)
	return result, nil
}

func (s *Service) RefreshVideoMetrics(ctx context.Context, videoID snowflake.ID) (*videodomain.VideoMetric, error) {
	if videoID == 0 {
		return nil, videodomain.ErrInvalidID
	}
	if s.metricsProvider == nil {
		return nil, syncerdomain.ErrNoProvider
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	counters, err := s.metricsProvider.FetchVideoMetrics(ctx, video.PlatformVideoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", syncerdomain.ErrSyncFailed, err)
	}

	metric, err := s.videos.RecordMetricsUpdate(ctx, videoID, counters)
	if err != nil {
		return nil, err
	}
	s.obsMetrics.RecordSnapshot()
	return metric, nil
}
