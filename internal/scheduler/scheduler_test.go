package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	attributiondomain "github.com/smallbiznis/clipcart/internal/attribution/domain"
	attributionrepo "github.com/smallbiznis/clipcart/internal/attribution/repository"
	attributionservice "github.com/smallbiznis/clipcart/internal/attribution/service"
	"github.com/smallbiznis/clipcart/internal/clock"
	"github.com/smallbiznis/clipcart/internal/config"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	orderrepo "github.com/smallbiznis/clipcart/internal/order/repository"
	syncerservice "github.com/smallbiznis/clipcart/internal/syncer/service"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	videorepo "github.com/smallbiznis/clipcart/internal/video/repository"
	videoservice "github.com/smallbiznis/clipcart/internal/video/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type schedFixture struct {
	db    *gorm.DB
	sched *Scheduler
	genID *snowflake.Node
	clock *clock.FakeClock
}

func newSchedFixture(t *testing.T, dsn string) *schedFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&videodomain.Video{}, &videodomain.VideoMetric{}, &orderdomain.Order{}))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	videos := videoservice.New(videoservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  videorepo.Provide(),
	})
	syncer := syncerservice.New(syncerservice.Params{
		Log:    zap.NewNop(),
		Videos: videos,
	})
	attribution := attributionservice.New(attributionservice.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      attributionrepo.Provide(),
		VideoRepo: videorepo.Provide(),
		OrderRepo: orderrepo.Provide(),
	})

	sched, err := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       fake,
		AppCfg:      config.Config{AttributionWindow: attributiondomain.DefaultWindow},
		Syncer:      syncer,
		Attribution: attribution,
	})
	require.NoError(t, err)
	return &schedFixture{db: db, sched: sched, genID: node, clock: fake}
}

func TestAttributionJob(t *testing.T) {
	f := newSchedFixture(t, "file:sched_attr?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := f.clock.Now().Add(-10 * time.Hour)
	video := &videodomain.Video{
		ID:              f.genID.Generate(),
		CreatorID:       creatorID,
		PlatformVideoID: "tk-sched-1",
		PromoCodes:      datatypes.JSON(`["SPRING20"]`),
		Status:          videodomain.VideoStatusActive,
		PublishedAt:     published,
		CreatedAt:       published,
		UpdatedAt:       published,
	}
	require.NoError(t, f.db.Create(video).Error)

	order := &orderdomain.Order{
		ID:              f.genID.Generate(),
		PlatformOrderID: "shop-sched-1",
		TotalAmount:     50.00,
		Currency:        "USD",
		CreatorID:       creatorID,
		PromoCodeUsed:   "SPRING20",
		OrderDate:       published.Add(2 * time.Hour),
		CreatedAt:       published.Add(2 * time.Hour),
		UpdatedAt:       published.Add(2 * time.Hour),
	}
	require.NoError(t, f.db.Create(order).Error)

	require.NoError(t, f.sched.AttributionJob(ctx))

	var got orderdomain.Order
	require.NoError(t, f.db.First(&got, "id = ?", order.ID).Error)
	require.NotNil(t, got.AttributedVideoID)
	assert.Equal(t, video.ID, *got.AttributedVideoID)

	// A second pass finds no pending creators and changes nothing.
	require.NoError(t, f.sched.AttributionJob(ctx))
	var v videodomain.Video
	require.NoError(t, f.db.First(&v, "id = ?", video.ID).Error)
	assert.Equal(t, int64(1), v.AttributedOrders)
}

func TestAttributionJob_IgnoresOldOrders(t *testing.T) {
	f := newSchedFixture(t, "file:sched_old?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	old := f.clock.Now().Add(-30 * 24 * time.Hour)
	order := &orderdomain.Order{
		ID:              f.genID.Generate(),
		PlatformOrderID: "shop-sched-old",
		TotalAmount:     10.00,
		Currency:        "USD",
		CreatorID:       creatorID,
		OrderDate:       old,
		CreatedAt:       old,
		UpdatedAt:       old,
	}
	require.NoError(t, f.db.Create(order).Error)

	require.NoError(t, f.sched.AttributionJob(ctx))

	var got orderdomain.Order
	require.NoError(t, f.db.First(&got, "id = ?", order.ID).Error)
	assert.Nil(t, got.AttributedVideoID)
}

func TestRunOnce_NoProvidersIsQuiet(t *testing.T) {
	f := newSchedFixture(t, "file:sched_quiet?mode=memory&cache=shared")

	// Without sync providers, only the attribution job does work.
	assert.NoError(t, f.sched.RunOnce(context.Background()))
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 3*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 3*time.Minute, cfg.MetricsInterval)
	assert.Equal(t, time.Hour, cfg.AttributionInterval)
	assert.Equal(t, 2*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 50, cfg.BatchSize)

	custom := Config{SyncInterval: time.Minute}.withDefaults()
	assert.Equal(t, time.Minute, custom.SyncInterval)
	assert.Equal(t, time.Hour, custom.AttributionInterval)
}

func TestIsJobEnabled(t *testing.T) {
	f := newSchedFixture(t, "file:sched_enabled?mode=memory&cache=shared")

	assert.True(t, f.sched.isJobEnabled(JobVideoSync))

	f.sched.cfg.EnabledJobs = []string{JobAttribution}
	assert.True(t, f.sched.isJobEnabled(JobAttribution))
	assert.False(t, f.sched.isJobEnabled(JobVideoSync))
}
