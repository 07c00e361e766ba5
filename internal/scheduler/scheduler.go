package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	attributiondomain "github.com/smallbiznis/clipcart/internal/attribution/domain"
	"github.com/smallbiznis/clipcart/internal/clock"
	"github.com/smallbiznis/clipcart/internal/config"
	"github.com/smallbiznis/clipcart/internal/observability"
	syncerdomain "github.com/smallbiznis/clipcart/internal/syncer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	JobVideoSync      = "video_sync"
	JobMetricsRefresh = "metrics_refresh"
	JobAttribution    = "attribution"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	AppCfg      config.Config
	Syncer      syncerdomain.Service
	Attribution attributiondomain.Service
	Locker      *Locker                `optional:"true"`
	ObsMetrics  *observability.Metrics `optional:"true"`
	Config      Config                 `optional:"true"`
}

type Scheduler struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         Config
	window      time.Duration
	clock       clock.Clock
	syncer      syncerdomain.Service
	attribution attributiondomain.Service
	locker      *Locker
	obsMetrics  *observability.Metrics
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.Syncer == nil || p.Attribution == nil {
		return nil, ErrInvalidConfig
	}
	window := p.AppCfg.AttributionWindow
	if window <= 0 {
		window = attributiondomain.DefaultWindow
	}
	return &Scheduler{
		db:          p.DB,
		log:         p.Log.Named("scheduler"),
		cfg:         p.Config.withDefaults(),
		window:      window,
		clock:       p.Clock,
		syncer:      p.Syncer,
		attribution: p.Attribution,
		locker:      p.Locker,
		obsMetrics:  p.ObsMetrics,
	}, nil
}

// runJob wraps one job execution: cross-instance lease, timeout, and
// run accounting. A lost lease or a soft timeout is not an error.
func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()

	token, owner, err := s.locker.TryLock(parent, name, s.cfg.JobTimeout)
	if err != nil {
		s.log.Warn("job lock unavailable", zap.String("job", name), zap.Error(err))
		return nil
	}
	if !owner {
		return nil
	}
	defer func() {
		if err := s.locker.Release(parent, name, token); err != nil {
			s.log.Warn("job lock release failed", zap.String("job", name), zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	err = fn(ctx)
	elapsed := s.clock.Now().Sub(start)

	if err == nil {
		s.obsMetrics.RecordJobRun(name, "ok", elapsed)
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.obsMetrics.RecordJobRun(name, "timeout", elapsed)
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", s.cfg.JobTimeout),
		)
		return nil
	}

	s.obsMetrics.RecordJobRun(name, "error", elapsed)
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) VideoSyncJob(ctx context.Context) error {
	creators, err := s.fetchKnownCreators(ctx, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	var errs error
	for _, creatorID := range creators {
		result, err := s.syncer.SyncCreatorVideos(ctx, creatorID)
		if err != nil {
			if errors.Is(err, syncerdomain.ErrNoProvider) {
				return nil
			}
			errs = errors.Join(errs, err)
			continue
		}
		if result.Synced > 0 {
			s.log.Info("scheduled sync discovered videos",
				zap.String("creator_id", creatorID.String()),
				zap.Int("synced", result.Synced),
			)
		}
	}
	return errs
}

func (s *Scheduler) MetricsRefreshJob(ctx context.Context) error {
	videos, err := s.fetchStaleVideos(ctx, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	var errs error
	for _, video := range videos {
		if _, err := s.syncer.RefreshVideoMetrics(ctx, video.ID); err != nil {
			if errors.Is(err, syncerdomain.ErrNoProvider) {
				return nil
			}
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func (s *Scheduler) AttributionJob(ctx context.Context) error {
	since := s.clock.Now().Add(-s.window)
	creators, err := s.fetchCreatorsWithPendingOrders(ctx, since, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	var errs error
	for _, creatorID := range creators {
		result, err := s.attribution.Attribute(ctx, attributiondomain.Scope{CreatorID: creatorID}, s.window)
		if err != nil {
			if errors.Is(err, attributiondomain.ErrScopeNotFound) {
				// Orders without catalog videos yet; the next sync
				// pass may resolve them.
				continue
			}
			errs = errors.Join(errs, err)
			continue
		}
		if result.NewlyAttributedOrders > 0 {
			s.log.Info("scheduled attribution pass",
				zap.String("creator_id", creatorID.String()),
				zap.Int("orders", result.NewlyAttributedOrders),
				zap.Float64("gmv", result.NewlyAttributedGMV),
			)
		}
	}
	return errs
}

// RunOnce executes every enabled job a single time.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	var err error
	for _, job := range s.jobs() {
		if job.enabled {
			err = errors.Join(err, s.runJob(ctx, job.name, job.run))
		}
	}
	return err
}

type jobSpec struct {
	name     string
	enabled  bool
	interval time.Duration
	run      func(context.Context) error
}

func (s *Scheduler) jobs() []jobSpec {
	return []jobSpec{
		{JobVideoSync, s.isJobEnabled(JobVideoSync), s.cfg.SyncInterval, s.VideoSyncJob},
		{JobMetricsRefresh, s.isJobEnabled(JobMetricsRefresh), s.cfg.MetricsInterval, s.MetricsRefreshJob},
		{JobAttribution, s.isJobEnabled(JobAttribution), s.cfg.AttributionInterval, s.AttributionJob},
	}
}

// RunForever drives each enabled job on its own ticker until the
// context is canceled.
func (s *Scheduler) RunForever(ctx context.Context) {
	for _, job := range s.jobs() {
		if !job.enabled {
			continue
		}
		go s.runLoop(ctx, job)
	}
	<-ctx.Done()
}

func (s *Scheduler) runLoop(ctx context.Context, job jobSpec) {
	ticker := time.NewTicker(job.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.runJob(ctx, job.name, job.run); err != nil {
				s.log.Warn("job run failed", zap.String("job", job.name), zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) isJobEnabled(name string) bool {
	// An empty list enables every job.
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, name) {
			return true
		}
	}
	return false
}
