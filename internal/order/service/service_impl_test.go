package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/clipcart/internal/clock"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	orderrepo "github.com/smallbiznis/clipcart/internal/order/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newOrderFixture(t *testing.T, dsn string) (orderdomain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orderdomain.Order{}))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  orderrepo.Provide(),
	})
	return svc, db, fake
}

func TestUpsert_CreateThenRefresh(t *testing.T) {
	svc, db, fake := newOrderFixture(t, "file:order_upsert?mode=memory&cache=shared")
	ctx := context.Background()

	data := orderdomain.OrderData{
		PlatformOrderID: "shop-1001",
		TotalAmount:     50.00,
		Currency:        "usd",
		OrderStatus:     "pending",
		CreatorID:       snowflake.ID(77),
		PromoCodeUsed:   "SPRING20",
		OrderDate:       fake.Now().Add(-time.Hour),
	}

	o, created, err := svc.Upsert(ctx, data)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "USD", o.Currency)
	assert.Nil(t, o.AttributedVideoID)

	// Re-sync refreshes mutable fields in place.
	data.TotalAmount = 45.00
	data.OrderStatus = "fulfilled"
	got, created, err := svc.Upsert(ctx, data)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, o.ID, got.ID)
	assert.InDelta(t, 45.00, got.TotalAmount, 1e-9)
	assert.Equal(t, "fulfilled", got.OrderStatus)

	var count int64
	require.NoError(t, db.Model(&orderdomain.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsert_PreservesAttribution(t *testing.T) {
	svc, db, fake := newOrderFixture(t, "file:order_preserve?mode=memory&cache=shared")
	ctx := context.Background()

	data := orderdomain.OrderData{
		PlatformOrderID: "shop-1002",
		TotalAmount:     30.00,
		CreatorID:       snowflake.ID(77),
		OrderDate:       fake.Now().Add(-time.Hour),
	}
	o, _, err := svc.Upsert(ctx, data)
	require.NoError(t, err)

	// Simulate the engine having claimed the order.
	videoID := snowflake.ID(5150)
	require.NoError(t, db.Model(&orderdomain.Order{}).Where("id = ?", o.ID).Updates(map[string]any{
		"attributed_video_id":    videoID,
		"attribution_method":     string(orderdomain.MethodEngagementBased),
		"attribution_confidence": 0.9,
	}).Error)

	data.TotalAmount = 25.00
	_, created, err := svc.Upsert(ctx, data)
	require.NoError(t, err)
	assert.False(t, created)

	var got orderdomain.Order
	require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
	require.NotNil(t, got.AttributedVideoID)
	assert.Equal(t, videoID, *got.AttributedVideoID)
	assert.InDelta(t, 0.9, got.AttributionConfidence, 1e-9)
	assert.InDelta(t, 25.00, got.TotalAmount, 1e-9)
}

func TestUpsert_Validation(t *testing.T) {
	svc, _, fake := newOrderFixture(t, "file:order_val?mode=memory&cache=shared")
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, orderdomain.OrderData{OrderDate: fake.Now()})
	assert.ErrorIs(t, err, orderdomain.ErrInvalidOrder)

	_, _, err = svc.Upsert(ctx, orderdomain.OrderData{PlatformOrderID: "x"})
	assert.ErrorIs(t, err, orderdomain.ErrInvalidOrder)

	_, _, err = svc.Upsert(ctx, orderdomain.OrderData{PlatformOrderID: "x", OrderDate: fake.Now(), TotalAmount: -1})
	assert.ErrorIs(t, err, orderdomain.ErrInvalidAmount)

	_, _, err = svc.Upsert(ctx, orderdomain.OrderData{PlatformOrderID: "x", OrderDate: fake.Now(), Method: "teleport"})
	assert.ErrorIs(t, err, orderdomain.ErrInvalidOrder)
}

func TestGetByPlatformID(t *testing.T) {
	svc, _, fake := newOrderFixture(t, "file:order_get?mode=memory&cache=shared")
	ctx := context.Background()

	o, _, err := svc.Upsert(ctx, orderdomain.OrderData{
		PlatformOrderID: "shop-1003",
		TotalAmount:     10.00,
		OrderDate:       fake.Now(),
	})
	require.NoError(t, err)

	got, err := svc.GetByPlatformID(ctx, "shop-1003")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = svc.GetByPlatformID(ctx, "shop-nope")
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)

	_, err = svc.GetByPlatformID(ctx, "  ")
	assert.ErrorIs(t, err, orderdomain.ErrInvalidOrder)
}
