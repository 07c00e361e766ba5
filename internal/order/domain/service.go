package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Upsert records a synced order keyed on its platform identifier.
	// Re-syncing a known order refreshes mutable fields but never
	// touches attribution state. The bool reports creation.
	Upsert(ctx context.Context, data OrderData) (*Order, bool, error)

	GetByPlatformID(ctx context.Context, platformOrderID string) (*Order, error)
}

var (
	ErrNotFound      = errors.New("order_not_found")
	ErrInvalidOrder  = errors.New("invalid_order_data")
	ErrInvalidAmount = errors.New("invalid_order_amount")
)
