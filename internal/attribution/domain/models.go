package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultWindow is the attribution window applied when a caller does
// not supply one.
const DefaultWindow = 72 * time.Hour

// Threshold is the strict acceptance bar: an order is attributed only
// when its confidence exceeds this value. Ties at the threshold are
// rejected.
const Threshold = 0.5

// Scope selects the videos an attribution run evaluates: a single
// video, or a creator's full set. Exactly one field must be set.
type Scope struct {
	VideoID   snowflake.ID
	CreatorID snowflake.ID
}

// Valid reports whether exactly one scope field is set.
func (s Scope) Valid() bool {
	return (s.VideoID != 0) != (s.CreatorID != 0)
}

// Result reports the net effect of a single attribution run. A run
// that finds nothing to do returns the zero Result, not an error.
type Result struct {
	NewlyAttributedOrders int     `json:"newly_attributed_orders"`
	NewlyAttributedGMV    float64 `json:"newly_attributed_gmv"`
	VideosTouched         int     `json:"videos_touched"`
}

var (
	ErrInvalidScope  = errors.New("invalid_attribution_scope")
	ErrInvalidWindow = errors.New("invalid_attribution_window")
	ErrScopeNotFound = errors.New("attribution_scope_not_found")

	// ErrStorage marks persistence failures; the whole batch has been
	// rolled back when a caller sees it.
	ErrStorage = errors.New("attribution_storage_failure")
)
