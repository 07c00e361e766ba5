package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	attributiondomain "github.com/smallbiznis/clipcart/internal/attribution/domain"
	"github.com/smallbiznis/clipcart/internal/clock"
	"github.com/smallbiznis/clipcart/internal/notifier"
	"github.com/smallbiznis/clipcart/internal/observability"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       attributiondomain.Repository
	VideoRepo  videodomain.Repository
	OrderRepo  orderdomain.Repository
	Sink       notifier.Sink          `optional:"true"`
	ObsMetrics *observability.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       attributiondomain.Repository
	videoRepo  videodomain.Repository
	orderRepo  orderdomain.Repository
	sink       notifier.Sink
	obsMetrics *observability.Metrics
}

func New(p Params) attributiondomain.Service {
	sink := p.Sink
	if sink == nil {
		sink = notifier.NopSink{}
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("attribution.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		videoRepo:  p.VideoRepo,
		orderRepo:  p.OrderRepo,
		sink:       sink,
		obsMetrics: p.ObsMetrics,
	}
}

// videoTally accumulates a run's accepted orders per video before the
// totals are flushed in one increment.
type videoTally struct {
	gmv    float64
	orders int64
}

func (s *Service) Attribute(ctx context.Context, scope attributiondomain.Scope, window time.Duration) (attributiondomain.Result, error) {
	start := s.clock.Now()

	if !scope.Valid() {
		return attributiondomain.Result{}, attributiondomain.ErrInvalidScope
	}
	if window <= 0 {
		return attributiondomain.Result{}, attributiondomain.ErrInvalidWindow
	}

	var result attributiondomain.Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		videos, err := s.repo.ListScopeVideos(ctx, tx, scope)
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			return attributiondomain.ErrScopeNotFound
		}

		candidates := make([]*videodomain.Video, 0, len(videos))
		for i := range videos {
			if videos[i].Status == videodomain.VideoStatusDeleted {
				continue
			}
			candidates = append(candidates, &videos[i])
		}
		if len(candidates) == 0 {
			return nil
		}

		creatorID := candidates[0].CreatorID
		from := candidates[0].PublishedAt
		to := candidates[0].PublishedAt.Add(window)
		videoIDs := make([]snowflake.ID, 0, len(candidates))
		liveIDs := make(map[snowflake.ID]bool, len(candidates))
		for _, v := range candidates {
			videoIDs = append(videoIDs, v.ID)
			liveIDs[v.ID] = true
			if v.PublishedAt.Before(from) {
				from = v.PublishedAt
			}
			if end := v.PublishedAt.Add(window); end.After(to) {
				to = end
			}
		}

		orders, err := s.orderRepo.ListAttributable(ctx, tx, creatorID, from, to, videoIDs)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		tallies := make(map[snowflake.ID]*videoTally)

		for i := range orders {
			o := &orders[i]
			if o.Attributed() {
				if liveIDs[*o.AttributedVideoID] {
					// Revisiting our own prior assignment: already counted.
					continue
				}
				// Weak reference: the claimed video was deleted, so
				// the order resolves fresh.
				o.AttributedVideoID = nil
			}

			// Candidates are ordered by published_at then id, so the
			// strict comparison keeps the earliest publish on ties.
			var (
				best     *videodomain.Video
				bestConf float64
			)
			for _, v := range candidates {
				if !attributiondomain.Eligible(o, v, window) {
					continue
				}
				conf := attributiondomain.Confidence(o, v)
				if conf <= attributiondomain.Threshold {
					continue
				}
				if conf > bestConf {
					best = v
					bestConf = conf
				}
			}
			if best == nil {
				continue
			}

			method := orderdomain.MethodEngagementBased
			if o.AttributionMethod != "" && o.AttributionMethod.StrongerThanEngagement() {
				method = o.AttributionMethod
			}

			applied, err := s.orderRepo.ApplyAttribution(ctx, tx, o.ID, best.ID, method, bestConf, now)
			if err != nil {
				return err
			}
			if !applied {
				// Claimed by a concurrent run since our read; skip.
				continue
			}

			tally := tallies[best.ID]
			if tally == nil {
				tally = &videoTally{}
				tallies[best.ID] = tally
			}
			tally.gmv += o.TotalAmount
			tally.orders++

			result.NewlyAttributedOrders++
			result.NewlyAttributedGMV += o.TotalAmount
		}

		// Flush totals and append one audit snapshot per touched
		// video, in candidate order for deterministic writes.
		for _, v := range candidates {
			tally := tallies[v.ID]
			if tally == nil {
				continue
			}
			if err := s.repo.IncrementVideoTotals(ctx, tx, v.ID, tally.gmv, tally.orders, now); err != nil {
				return err
			}

			fresh, err := s.videoRepo.FindByID(ctx, tx, v.ID)
			if err != nil {
				return err
			}
			if fresh == nil {
				return attributiondomain.ErrScopeNotFound
			}

			counters := videodomain.Counters{
				Views:    fresh.ViewCount,
				Likes:    fresh.LikeCount,
				Comments: fresh.CommentCount,
				Shares:   fresh.ShareCount,
			}
			metric := &videodomain.VideoMetric{
				ID:               s.genID.Generate(),
				VideoID:          fresh.ID,
				ViewCount:        counters.Views,
				LikeCount:        counters.Likes,
				CommentCount:     counters.Comments,
				ShareCount:       counters.Shares,
				EngagementRate:   videodomain.EngagementRate(counters),
				EngagementCount:  counters.Likes + counters.Comments + counters.Shares,
				AttributedGMV:    fresh.AttributedGMV,
				AttributedOrders: fresh.AttributedOrders,
				RecordedAt:       now,
				CreatedAt:        now,
			}
			if err := s.videoRepo.InsertMetric(ctx, tx, metric); err != nil {
				return err
			}

			result.VideosTouched++
		}

		return nil
	})
	if err != nil {
		s.obsMetrics.RecordAttributionRun("error", 0, 0, s.clock.Now().Sub(start))
		if isDomainErr(err) {
			return attributiondomain.Result{}, err
		}
		return attributiondomain.Result{}, errors.Join(attributiondomain.ErrStorage, err)
	}

	s.obsMetrics.RecordAttributionRun("ok", result.NewlyAttributedOrders, result.NewlyAttributedGMV, s.clock.Now().Sub(start))

	if result.NewlyAttributedOrders > 0 {
		event := notifier.NewEvent(notifier.EventAttributionCompleted, s.clock.Now())
		if scope.VideoID != 0 {
			event.VideoID = scope.VideoID.String()
		}
		if scope.CreatorID != 0 {
			event.CreatorID = scope.CreatorID.String()
		}
		event.Payload = map[string]any{
			"newly_attributed_orders": result.NewlyAttributedOrders,
			"newly_attributed_gmv":    result.NewlyAttributedGMV,
			"videos_touched":          result.VideosTouched,
		}
		s.sink.Publish(ctx, event)
	}

	return result, nil
}

func isDomainErr(err error) bool {
	return errors.Is(err, attributiondomain.ErrScopeNotFound) ||
		errors.Is(err, attributiondomain.ErrInvalidScope) ||
		errors.Is(err, attributiondomain.ErrInvalidWindow)
}
