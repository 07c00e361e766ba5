package domain

import (
	"context"
	"errors"

	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
)

// VideoProvider is the platform-facing boundary for listing a
// creator's published videos. Implementations own authentication,
// paging, and payload shape.
type VideoProvider interface {
	FetchCreatorVideos(ctx context.Context, platformUserID string) ([]videodomain.VideoData, error)
}

// MetricsProvider fetches current engagement counters for one video.
type MetricsProvider interface {
	FetchVideoMetrics(ctx context.Context, platformVideoID string) (videodomain.Counters, error)
}

// Result reports one sync pass. Total counts payloads the provider
// returned; Synced counts the ones newly added to the catalog.
type Result struct {
	Synced int `json:"synced"`
	Total  int `json:"total"`
}

var (
	// ErrSyncFailed wraps provider failures. The catalog is untouched
	// when a caller sees it.
	ErrSyncFailed = errors.New("platform_sync_failed")

	ErrNoProvider = errors.New("sync_provider_not_configured")
)
