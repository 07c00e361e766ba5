package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	attributiondomain "github.com/smallbiznis/clipcart/internal/attribution/domain"
	"github.com/smallbiznis/clipcart/internal/config"
	deliverabledomain "github.com/smallbiznis/clipcart/internal/deliverable/domain"
	performancedomain "github.com/smallbiznis/clipcart/internal/performance/domain"
	syncerdomain "github.com/smallbiznis/clipcart/internal/syncer/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	videoSvc       videodomain.Service
	attributionSvc attributiondomain.Service
	deliverableSvc deliverabledomain.Service
	performanceSvc performancedomain.Service
	syncerSvc      syncerdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	VideoSvc       videodomain.Service
	AttributionSvc attributiondomain.Service
	DeliverableSvc deliverabledomain.Service
	PerformanceSvc performancedomain.Service
	SyncerSvc      syncerdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		videoSvc:       p.VideoSvc,
		attributionSvc: p.AttributionSvc,
		deliverableSvc: p.DeliverableSvc,
		performanceSvc: p.PerformanceSvc,
		syncerSvc:      p.SyncerSvc,
	}
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
}

func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/creators/:creator_id/videos/sync", s.SyncCreatorVideos)
	v1.GET("/creators/:creator_id/videos", s.ListCreatorVideos)
	v1.GET("/creators/:creator_id/performance", s.GetCreatorPerformance)

	v1.GET("/videos/:video_id", s.GetVideo)
	v1.POST("/videos/:video_id/metrics", s.UpdateVideoMetrics)
	v1.POST("/videos/:video_id/metrics/refresh", s.RefreshVideoMetrics)
	v1.GET("/videos/:video_id/snapshot", s.GetVideoSnapshot)
	v1.DELETE("/videos/:video_id", s.DeleteVideo)

	v1.POST("/attribution/run", s.RunAttribution)

	v1.POST("/deliverables", s.CreateDeliverable)
	v1.GET("/deliverables/:id", s.GetDeliverable)
	v1.POST("/deliverables/:id/approve", s.ApproveDeliverable)
	v1.POST("/deliverables/:id/reject", s.RejectDeliverable)
	v1.POST("/deliverables/:id/complete", s.CompleteDeliverable)
	v1.PUT("/deliverables/:id/review", s.ReviewDeliverable)
}
