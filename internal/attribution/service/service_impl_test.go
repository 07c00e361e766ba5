package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	attributiondomain "github.com/smallbiznis/clipcart/internal/attribution/domain"
	attributionrepo "github.com/smallbiznis/clipcart/internal/attribution/repository"
	"github.com/smallbiznis/clipcart/internal/clock"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	orderrepo "github.com/smallbiznis/clipcart/internal/order/repository"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	videorepo "github.com/smallbiznis/clipcart/internal/video/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type engineFixture struct {
	db    *gorm.DB
	svc   attributiondomain.Service
	genID *snowflake.Node
	clock *clock.FakeClock
}

func newEngineFixture(t *testing.T, dsn string) *engineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&videodomain.Video{}, &videodomain.VideoMetric{}, &orderdomain.Order{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      attributionrepo.Provide(),
		VideoRepo: videorepo.Provide(),
		OrderRepo: orderrepo.Provide(),
	})

	return &engineFixture{db: db, svc: svc, genID: node, clock: fake}
}

func (f *engineFixture) seedVideo(t *testing.T, creatorID snowflake.ID, publishedAt time.Time, promoCodes string) *videodomain.Video {
	t.Helper()
	v := &videodomain.Video{
		ID:              f.genID.Generate(),
		CreatorID:       creatorID,
		PlatformVideoID: f.genID.Generate().String(),
		Status:          videodomain.VideoStatusActive,
		PublishedAt:     publishedAt,
		CreatedAt:       publishedAt,
		UpdatedAt:       publishedAt,
	}
	if promoCodes != "" {
		v.PromoCodes = datatypes.JSON(promoCodes)
	}
	require.NoError(t, f.db.Create(v).Error)
	return v
}

func (f *engineFixture) seedOrder(t *testing.T, creatorID snowflake.ID, amount float64, orderDate time.Time, promoCode string, method orderdomain.AttributionMethod) *orderdomain.Order {
	t.Helper()
	o := &orderdomain.Order{
		ID:                f.genID.Generate(),
		PlatformOrderID:   f.genID.Generate().String(),
		TotalAmount:       amount,
		Currency:          "USD",
		CreatorID:         creatorID,
		PromoCodeUsed:     promoCode,
		AttributionMethod: method,
		OrderDate:         orderDate,
		CreatedAt:         orderDate,
		UpdatedAt:         orderDate,
	}
	require.NoError(t, f.db.Create(o).Error)
	return o
}

func (f *engineFixture) reloadOrder(t *testing.T, id snowflake.ID) *orderdomain.Order {
	t.Helper()
	var o orderdomain.Order
	require.NoError(t, f.db.First(&o, "id = ?", id).Error)
	return &o
}

func (f *engineFixture) reloadVideo(t *testing.T, id snowflake.ID) *videodomain.Video {
	t.Helper()
	var v videodomain.Video
	require.NoError(t, f.db.First(&v, "id = ?", id).Error)
	return &v
}

func TestAttribute_PromoMatchWithinWindow(t *testing.T) {
	f := newEngineFixture(t, "file:attr_promo?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := f.seedVideo(t, creatorID, published, `["SPRING20"]`)
	order := f.seedOrder(t, creatorID, 50.00, published.Add(2*time.Hour), "SPRING20", "")

	result, err := f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: video.ID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)

	assert.Equal(t, 1, result.NewlyAttributedOrders)
	assert.InDelta(t, 50.00, result.NewlyAttributedGMV, 1e-9)
	assert.Equal(t, 1, result.VideosTouched)

	got := f.reloadOrder(t, order.ID)
	require.NotNil(t, got.AttributedVideoID)
	assert.Equal(t, video.ID, *got.AttributedVideoID)
	assert.InDelta(t, 0.9, got.AttributionConfidence, 1e-9)
	assert.Equal(t, orderdomain.MethodEngagementBased, got.AttributionMethod)

	v := f.reloadVideo(t, video.ID)
	assert.InDelta(t, 50.00, v.AttributedGMV, 1e-9)
	assert.Equal(t, int64(1), v.AttributedOrders)
	require.NotNil(t, v.LastAttributionUpdate)

	// One audit snapshot per touched video.
	var snapshots int64
	require.NoError(t, f.db.Model(&videodomain.VideoMetric{}).Where("video_id = ?", video.ID).Count(&snapshots).Error)
	assert.Equal(t, int64(1), snapshots)
}

func TestAttribute_OrderOutsideWindow(t *testing.T) {
	f := newEngineFixture(t, "file:attr_window?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := f.seedVideo(t, creatorID, published, `["SPRING20"]`)
	order := f.seedOrder(t, creatorID, 80.00, published.Add(80*time.Hour), "SPRING20", "")

	result, err := f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: video.ID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)

	assert.Equal(t, attributiondomain.Result{}, result)
	assert.Nil(t, f.reloadOrder(t, order.ID).AttributedVideoID)
}

func TestAttribute_BelowThresholdRejected(t *testing.T) {
	f := newEngineFixture(t, "file:attr_threshold?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := f.seedVideo(t, creatorID, published, "")

	// Second-day order with no promo scores 0.3.
	low := f.seedOrder(t, creatorID, 25.00, published.Add(30*time.Hour), "", "")
	// Direct link on the second day scores exactly 0.6 and passes.
	high := f.seedOrder(t, creatorID, 40.00, published.Add(31*time.Hour), "", orderdomain.MethodDirectLink)

	result, err := f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: video.ID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)

	assert.Equal(t, 1, result.NewlyAttributedOrders)
	assert.InDelta(t, 40.00, result.NewlyAttributedGMV, 1e-9)
	assert.Nil(t, f.reloadOrder(t, low.ID).AttributedVideoID)

	got := f.reloadOrder(t, high.ID)
	require.NotNil(t, got.AttributedVideoID)
	assert.Equal(t, orderdomain.MethodDirectLink, got.AttributionMethod)
	assert.InDelta(t, 0.6, got.AttributionConfidence, 1e-9)
}

func TestAttribute_ExactThresholdRejected(t *testing.T) {
	f := newEngineFixture(t, "file:attr_exact?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := f.seedVideo(t, creatorID, published, "")

	// Third-day direct link scores 0.2 + 0.3 = 0.5 exactly.
	order := f.seedOrder(t, creatorID, 15.00, published.Add(50*time.Hour), "", orderdomain.MethodDirectLink)

	result, err := f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: video.ID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)

	assert.Equal(t, attributiondomain.Result{}, result)
	assert.Nil(t, f.reloadOrder(t, order.ID).AttributedVideoID)
}

func TestAttribute_ConfidenceCapped(t *testing.T) {
	f := newEngineFixture(t, "file:attr_cap?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := f.seedVideo(t, creatorID, published, `["SPRING20"]`)

	// 0.4 + 0.5 + 0.3 = 1.2 before the cap.
	order := f.seedOrder(t, creatorID, 99.99, published.Add(time.Hour), "SPRING20", orderdomain.MethodDirectLink)

	_, err := f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: video.ID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)

	got := f.reloadOrder(t, order.ID)
	require.NotNil(t, got.AttributedVideoID)
	assert.InDelta(t, 1.0, got.AttributionConfidence, 1e-9)
	assert.Equal(t, orderdomain.MethodDirectLink, got.AttributionMethod)
}

func TestAttribute_Idempotent(t *testing.T) {
	f := newEngineFixture(t, "file:attr_idem?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := f.seedVideo(t, creatorID, published, `["SPRING20"]`)
	f.seedOrder(t, creatorID, 50.00, published.Add(2*time.Hour), "SPRING20", "")

	first, err := f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: video.ID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)
	assert.Equal(t, 1, first.NewlyAttributedOrders)

	second, err := f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: video.ID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)
	assert.Equal(t, attributiondomain.Result{}, second)

	// Totals did not double.
	v := f.reloadVideo(t, video.ID)
	assert.InDelta(t, 50.00, v.AttributedGMV, 1e-9)
	assert.Equal(t, int64(1), v.AttributedOrders)
}

func TestAttribute_TieBreakEarliestPublished(t *testing.T) {
	f := newEngineFixture(t, "file:attr_tie?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := f.seedVideo(t, creatorID, published, `["SPRING20"]`)
	f.seedVideo(t, creatorID, published.Add(time.Hour), `["SPRING20"]`)

	// Both videos score 0.9 for this order; the earlier publish wins.
	order := f.seedOrder(t, creatorID, 20.00, published.Add(2*time.Hour), "SPRING20", "")

	result, err := f.svc.Attribute(ctx, attributiondomain.Scope{CreatorID: creatorID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewlyAttributedOrders)
	assert.Equal(t, 1, result.VideosTouched)

	got := f.reloadOrder(t, order.ID)
	require.NotNil(t, got.AttributedVideoID)
	assert.Equal(t, earlier.ID, *got.AttributedVideoID)
}

func TestAttribute_CreatorScopeSpansVideos(t *testing.T) {
	f := newEngineFixture(t, "file:attr_creator?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v1 := f.seedVideo(t, creatorID, base, `["CODE1"]`)
	v2 := f.seedVideo(t, creatorID, base.Add(96*time.Hour), `["CODE2"]`)

	o1 := f.seedOrder(t, creatorID, 10.00, base.Add(time.Hour), "CODE1", "")
	o2 := f.seedOrder(t, creatorID, 30.00, base.Add(97*time.Hour), "CODE2", "")

	result, err := f.svc.Attribute(ctx, attributiondomain.Scope{CreatorID: creatorID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NewlyAttributedOrders)
	assert.InDelta(t, 40.00, result.NewlyAttributedGMV, 1e-9)
	assert.Equal(t, 2, result.VideosTouched)

	assert.Equal(t, v1.ID, *f.reloadOrder(t, o1.ID).AttributedVideoID)
	assert.Equal(t, v2.ID, *f.reloadOrder(t, o2.ID).AttributedVideoID)

	// Per-video totals agree with the ledger.
	gmv, count, err := orderrepo.Provide().SumAttributed(ctx, f.db, v1.ID)
	require.NoError(t, err)
	assert.InDelta(t, f.reloadVideo(t, v1.ID).AttributedGMV, gmv, 1e-9)
	assert.Equal(t, f.reloadVideo(t, v1.ID).AttributedOrders, count)
}

func TestAttribute_DeletedVideoIgnored(t *testing.T) {
	f := newEngineFixture(t, "file:attr_deleted?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := f.seedVideo(t, creatorID, published, `["SPRING20"]`)
	require.NoError(t, f.db.Model(&videodomain.Video{}).
		Where("id = ?", video.ID).
		Update("status", videodomain.VideoStatusDeleted).Error)

	order := f.seedOrder(t, creatorID, 50.00, published.Add(2*time.Hour), "SPRING20", "")

	result, err := f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: video.ID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)
	assert.Equal(t, attributiondomain.Result{}, result)
	assert.Nil(t, f.reloadOrder(t, order.ID).AttributedVideoID)
}

func TestAttribute_StaleClaimOnDeletedVideoReresolved(t *testing.T) {
	f := newEngineFixture(t, "file:attr_stale?mode=memory&cache=shared")
	ctx := context.Background()

	creatorID := f.genID.Generate()
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	original := f.seedVideo(t, creatorID, published, `["SPRING20"]`)
	order := f.seedOrder(t, creatorID, 50.00, published.Add(2*time.Hour), "SPRING20", "")

	first, err := f.svc.Attribute(ctx, attributiondomain.Scope{CreatorID: creatorID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)
	require.Equal(t, 1, first.NewlyAttributedOrders)
	require.Equal(t, original.ID, *f.reloadOrder(t, order.ID).AttributedVideoID)

	// The claimed video disappears; the order's reference is now weak
	// and must resolve against the surviving catalog.
	require.NoError(t, f.db.Model(&videodomain.Video{}).
		Where("id = ?", original.ID).
		Update("status", videodomain.VideoStatusDeleted).Error)
	replacement := f.seedVideo(t, creatorID, published.Add(time.Hour), `["SPRING20"]`)

	second, err := f.svc.Attribute(ctx, attributiondomain.Scope{CreatorID: creatorID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)
	assert.Equal(t, 1, second.NewlyAttributedOrders)
	assert.InDelta(t, 50.00, second.NewlyAttributedGMV, 1e-9)
	assert.Equal(t, 1, second.VideosTouched)

	got := f.reloadOrder(t, order.ID)
	require.NotNil(t, got.AttributedVideoID)
	assert.Equal(t, replacement.ID, *got.AttributedVideoID)

	v := f.reloadVideo(t, replacement.ID)
	assert.InDelta(t, 50.00, v.AttributedGMV, 1e-9)
	assert.Equal(t, int64(1), v.AttributedOrders)

	// A third run leaves the fresh claim alone.
	third, err := f.svc.Attribute(ctx, attributiondomain.Scope{CreatorID: creatorID}, attributiondomain.DefaultWindow)
	require.NoError(t, err)
	assert.Equal(t, attributiondomain.Result{}, third)
}

func TestAttribute_ScopeNotFound(t *testing.T) {
	f := newEngineFixture(t, "file:attr_missing?mode=memory&cache=shared")

	_, err := f.svc.Attribute(context.Background(), attributiondomain.Scope{VideoID: f.genID.Generate()}, attributiondomain.DefaultWindow)
	assert.ErrorIs(t, err, attributiondomain.ErrScopeNotFound)
}

func TestAttribute_InvalidInputs(t *testing.T) {
	f := newEngineFixture(t, "file:attr_invalid?mode=memory&cache=shared")
	ctx := context.Background()

	_, err := f.svc.Attribute(ctx, attributiondomain.Scope{}, attributiondomain.DefaultWindow)
	assert.ErrorIs(t, err, attributiondomain.ErrInvalidScope)

	_, err = f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: f.genID.Generate(), CreatorID: f.genID.Generate()}, attributiondomain.DefaultWindow)
	assert.ErrorIs(t, err, attributiondomain.ErrInvalidScope)

	_, err = f.svc.Attribute(ctx, attributiondomain.Scope{VideoID: f.genID.Generate()}, 0)
	assert.ErrorIs(t, err, attributiondomain.ErrInvalidWindow)
}
