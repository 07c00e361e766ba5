package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// VideoStatus tracks the lifecycle of a published video. Videos are
// never hard-deleted; removal transitions the status instead.
type VideoStatus string

const (
	VideoStatusActive   VideoStatus = "active"
	VideoStatusInactive VideoStatus = "inactive"
	VideoStatusDeleted  VideoStatus = "deleted"
	VideoStatusPending  VideoStatus = "pending"
)

// Video is a creator's published short-form video and its running
// attribution totals. AttributedGMV and AttributedOrders are mutated
// only by the attribution engine.
type Video struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	CreatorID       snowflake.ID `gorm:"not null;index"`
	PlatformVideoID string       `gorm:"type:text;not null;uniqueIndex:ux_videos_platform_id"`

	Title        string `gorm:"type:text"`
	Description  string `gorm:"type:text"`
	VideoURL     string `gorm:"type:text"`
	ThumbnailURL string `gorm:"type:text"`

	ViewCount    int64 `gorm:"not null;default:0"`
	LikeCount    int64 `gorm:"not null;default:0"`
	CommentCount int64 `gorm:"not null;default:0"`
	ShareCount   int64 `gorm:"not null;default:0"`

	PromoCodes datatypes.JSON `gorm:"column:promo_codes"`

	Status VideoStatus `gorm:"type:text;not null;default:'active'"`

	AttributedGMV         float64    `gorm:"column:attributed_gmv;not null;default:0"`
	AttributedOrders      int64      `gorm:"not null;default:0"`
	LastAttributionUpdate *time.Time `gorm:"column:last_attribution_update"`

	PublishedAt time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Video) TableName() string { return "videos" }

// PromoCodeList decodes the stored promo codes. A missing or malformed
// column decodes to an empty list.
func (v *Video) PromoCodeList() []string {
	if len(v.PromoCodes) == 0 {
		return nil
	}
	var codes []string
	if err := json.Unmarshal(v.PromoCodes, &codes); err != nil {
		return nil
	}
	return codes
}

// HasPromoCode reports whether code is one of the video's promo codes.
func (v *Video) HasPromoCode(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range v.PromoCodeList() {
		if c == code {
			return true
		}
	}
	return false
}

// VideoMetric is an append-only snapshot of a video's engagement
// counters and attribution totals at RecordedAt. Rows are never
// updated or deleted while the video exists; the video owns them
// (cascade on video removal).
type VideoMetric struct {
	ID      snowflake.ID `gorm:"primaryKey"`
	VideoID snowflake.ID `gorm:"not null;index"`

	ViewCount    int64 `gorm:"not null;default:0"`
	LikeCount    int64 `gorm:"not null;default:0"`
	CommentCount int64 `gorm:"not null;default:0"`
	ShareCount   int64 `gorm:"not null;default:0"`

	EngagementRate  float64 `gorm:"not null;default:0"`
	EngagementCount int64   `gorm:"not null;default:0"`

	AttributedGMV    float64 `gorm:"column:attributed_gmv;not null;default:0"`
	AttributedOrders int64   `gorm:"not null;default:0"`

	RecordedAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (VideoMetric) TableName() string { return "video_metrics" }

// Counters carries a video's cumulative engagement counters.
type Counters struct {
	Views    int64 `json:"view_count"`
	Likes    int64 `json:"like_count"`
	Comments int64 `json:"comment_count"`
	Shares   int64 `json:"share_count"`
}

// Valid reports whether all counters are non-negative.
func (c Counters) Valid() bool {
	return c.Views >= 0 && c.Likes >= 0 && c.Comments >= 0 && c.Shares >= 0
}

// EngagementRate computes (likes+comments+shares)/views as a
// percentage. Zero views yields 0, not a division error.
func EngagementRate(c Counters) float64 {
	if c.Views <= 0 {
		return 0
	}
	return float64(c.Likes+c.Comments+c.Shares) / float64(c.Views) * 100
}

// VideoData is the validated shape of a video payload crossing the
// sync boundary into the catalog.
type VideoData struct {
	PlatformVideoID string
	Title           string
	Description     string
	VideoURL        string
	ThumbnailURL    string
	Counters        Counters
	PromoCodes      []string
	PublishedAt     time.Time
}

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
