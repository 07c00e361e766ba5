package domain

import (
	"time"

	orderdomain "github.com/smallbiznis/clipcart/internal/order/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
)

// Temporal proximity bonuses, bucketed by time elapsed between the
// video's publish and the order.
const (
	bonusWithin24h = 0.4
	bonusWithin48h = 0.3
	bonusWithin72h = 0.2

	bonusPromoMatch = 0.5
)

// TemporalBonus returns the proximity bonus for an order placed
// elapsed after publish. Negative elapsed (order precedes publish)
// scores zero.
func TemporalBonus(elapsed time.Duration) float64 {
	switch {
	case elapsed < 0:
		return 0
	case elapsed < 24*time.Hour:
		return bonusWithin24h
	case elapsed < 48*time.Hour:
		return bonusWithin48h
	case elapsed < 72*time.Hour:
		return bonusWithin72h
	default:
		return 0
	}
}

// Eligible reports whether an order may be considered for the video at
// all: its timestamp falls inside [published_at, published_at+window)
// and it is not already claimed by a different video.
func Eligible(o *orderdomain.Order, v *videodomain.Video, window time.Duration) bool {
	if window <= 0 {
		return false
	}
	if o.OrderDate.Before(v.PublishedAt) {
		return false
	}
	if !o.OrderDate.Before(v.PublishedAt.Add(window)) {
		return false
	}
	if o.Attributed() && *o.AttributedVideoID != v.ID {
		return false
	}
	return true
}

// Confidence scores how likely the order resulted from the video. All
// bonuses are additive and the result is capped at 1.0.
func Confidence(o *orderdomain.Order, v *videodomain.Video) float64 {
	score := TemporalBonus(o.OrderDate.Sub(v.PublishedAt))

	if v.HasPromoCode(o.PromoCodeUsed) {
		score += bonusPromoMatch
	}

	score += o.AttributionMethod.Bonus()

	if score > 1.0 {
		return 1.0
	}
	return score
}
