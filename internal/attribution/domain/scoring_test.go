package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestTemporalBonus(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"immediately after publish", 0, 0.4},
		{"just under 24h", 24*time.Hour - time.Second, 0.4},
		{"exactly 24h falls into next bucket", 24 * time.Hour, 0.3},
		{"just under 48h", 48*time.Hour - time.Second, 0.3},
		{"exactly 48h falls into last bucket", 48 * time.Hour, 0.2},
		{"just under 72h", 72*time.Hour - time.Second, 0.2},
		{"exactly 72h is outside", 72 * time.Hour, 0},
		{"well outside", 96 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TemporalBonus(tt.elapsed), 1e-9)
		})
	}
}

func TestConfidence(t *testing.T) {
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := &videodomain.Video{
		ID:          snowflake.ID(1),
		PublishedAt: published,
		PromoCodes:  datatypes.JSON(`["SPRING20"]`),
	}

	tests := []struct {
		name  string
		order orderdomain.Order
		want  float64
	}{
		{
			name: "recent order with matching promo and direct link caps at 1.0",
			order: orderdomain.Order{
				OrderDate:         published.Add(2 * time.Hour),
				PromoCodeUsed:     "SPRING20",
				AttributionMethod: orderdomain.MethodDirectLink,
			},
			want: 1.0,
		},
		{
			name: "recent order with matching promo",
			order: orderdomain.Order{
				OrderDate:     published.Add(2 * time.Hour),
				PromoCodeUsed: "SPRING20",
			},
			want: 0.9,
		},
		{
			name: "second day order with no promo",
			order: orderdomain.Order{
				OrderDate: published.Add(30 * time.Hour),
			},
			want: 0.3,
		},
		{
			name: "third day order with non-matching promo",
			order: orderdomain.Order{
				OrderDate:     published.Add(50 * time.Hour),
				PromoCodeUsed: "OTHER",
			},
			want: 0.2,
		},
		{
			name: "direct link alone on day three",
			order: orderdomain.Order{
				OrderDate:         published.Add(50 * time.Hour),
				AttributionMethod: orderdomain.MethodDirectLink,
			},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(&tt.order, video), 1e-9)
		})
	}
}

func TestEligible(t *testing.T) {
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 72 * time.Hour
	video := &videodomain.Video{ID: snowflake.ID(1), PublishedAt: published}
	other := snowflake.ID(2)

	t.Run("order inside window", func(t *testing.T) {
		o := &orderdomain.Order{OrderDate: published.Add(time.Hour)}
		assert.True(t, Eligible(o, video, window))
	})

	t.Run("order before publish", func(t *testing.T) {
		o := &orderdomain.Order{OrderDate: published.Add(-time.Minute)}
		assert.False(t, Eligible(o, video, window))
	})

	t.Run("order at window boundary", func(t *testing.T) {
		o := &orderdomain.Order{OrderDate: published.Add(window)}
		assert.False(t, Eligible(o, video, window))
	})

	t.Run("order claimed by another video", func(t *testing.T) {
		o := &orderdomain.Order{OrderDate: published.Add(time.Hour), AttributedVideoID: &other}
		assert.False(t, Eligible(o, video, window))
	})
}

func TestScopeValid(t *testing.T) {
	assert.False(t, Scope{}.Valid())
	assert.True(t, Scope{VideoID: snowflake.ID(1)}.Valid())
	assert.True(t, Scope{CreatorID: snowflake.ID(2)}.Valid())
	assert.False(t, Scope{VideoID: snowflake.ID(1), CreatorID: snowflake.ID(2)}.Valid())
}
