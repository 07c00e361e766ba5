package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AttributionMethod is a closed enumeration of the ways an order can
// be tied to a video. Extending it means adding a variant and its
// bonus weight below, not comparing new strings.
type AttributionMethod string

const (
	MethodDirectLink      AttributionMethod = "direct_link"
	MethodPromoCode       AttributionMethod = "promo_code"
	MethodCookieBased     AttributionMethod = "cookie_based"
	MethodManual          AttributionMethod = "manual"
	MethodEngagementBased AttributionMethod = "engagement_based"
)

// methodBonus assigns the confidence bonus a pre-declared method
// contributes during scoring. Absent variants contribute nothing.
var methodBonus = map[AttributionMethod]float64{
	MethodDirectLink: 0.3,
}

// Bonus returns the scoring bonus for a declared method.
func (m AttributionMethod) Bonus() float64 {
	return methodBonus[m]
}

// Known reports whether m is one of the closed set of variants.
func (m AttributionMethod) Known() bool {
	switch m {
	case MethodDirectLink, MethodPromoCode, MethodCookieBased, MethodManual, MethodEngagementBased:
		return true
	default:
		return false
	}
}

// StrongerThanEngagement reports whether a declared method should be
// preserved over the engine's engagement_based default.
func (m AttributionMethod) StrongerThanEngagement() bool {
	switch m {
	case MethodDirectLink, MethodPromoCode, MethodManual:
		return true
	default:
		return false
	}
}

// Order is a purchase order synced from the platform. Attribution
// fields are written exactly once, by the attribution engine; replays
// leave them untouched. AttributedVideoID is a weak reference: the
// video may be gone while the order lives on.
type Order struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	PlatformOrderID string       `gorm:"type:text;not null;uniqueIndex:ux_orders_platform_id"`

	TotalAmount float64 `gorm:"not null"`
	Currency    string  `gorm:"type:text;not null;default:'USD'"`
	OrderStatus string  `gorm:"type:text"`

	CreatorID             snowflake.ID      `gorm:"index"`
	AttributedVideoID     *snowflake.ID     `gorm:"index"`
	AttributionMethod     AttributionMethod `gorm:"type:text"`
	AttributionConfidence float64           `gorm:"not null;default:0"`

	PromoCodeUsed  string  `gorm:"type:text"`
	DiscountAmount float64 `gorm:"not null;default:0"`

	CustomerID    string `gorm:"type:text"`
	CustomerEmail string `gorm:"type:text"`

	OrderDate     time.Time  `gorm:"not null;index"`
	FulfilledDate *time.Time `gorm:""`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// Attributed reports whether the order has already been assigned to a
// video.
func (o *Order) Attributed() bool {
	return o.AttributedVideoID != nil && *o.AttributedVideoID != 0
}

// OrderData is the validated shape of an order payload crossing the
// sync boundary into the ledger.
type OrderData struct {
	PlatformOrderID string
	TotalAmount     float64
	Currency        string
	OrderStatus     string
	CreatorID       snowflake.ID
	Method          AttributionMethod
	PromoCodeUsed   string
	DiscountAmount  float64
	CustomerID      string
	CustomerEmail   string
	OrderDate       time.Time
}

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
