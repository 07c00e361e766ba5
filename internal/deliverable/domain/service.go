package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Mark registers a pending deliverable for a (video, campaign)
	// pair. A second mark for the same pair fails with ErrDuplicate.
	Mark(ctx context.Context, videoID, campaignID snowflake.ID, deliverableType string) (*Deliverable, error)

	Approve(ctx context.Context, id snowflake.ID) (*Deliverable, error)

	Reject(ctx context.Context, id snowflake.ID, reason string) (*Deliverable, error)

	Complete(ctx context.Context, id snowflake.ID) (*Deliverable, error)

	// SetReview attaches an opaque performance score and bonus flag.
	// It is legal in any state; review data is advisory.
	SetReview(ctx context.Context, id snowflake.ID, score float64, bonusEligible bool) (*Deliverable, error)

	GetByID(ctx context.Context, id snowflake.ID) (*Deliverable, error)

	ListByCampaign(ctx context.Context, campaignID snowflake.ID) ([]Deliverable, error)
}
