package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a fire-and-forget notification emitted after a successful
// catalog, attribution, or deliverable mutation. Delivery is best
// effort; producers never wait on acknowledgment.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	VideoID   string         `json:"video_id,omitempty"`
	OrderID   string         `json:"order_id,omitempty"`
	CreatorID string         `json:"creator_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	EmittedAt time.Time      `json:"emitted_at"`
}

const (
	EventVideoDiscovered      = "video.discovered"
	EventMetricsUpdated       = "metrics.updated"
	EventAttributionCompleted = "attribution.completed"
	EventDeliverableUpdated   = "deliverable.updated"
)

// Sink receives events. Implementations must not block the caller and
// must swallow delivery failures (logging them at most).
type Sink interface {
	Publish(ctx context.Context, event Event)
}

// NewEvent stamps an event with a fresh id and emit time.
func NewEvent(eventType string, emittedAt time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EmittedAt: emittedAt,
	}
}

// NopSink drops every event. Used when no broker is configured.
type NopSink struct{}

func (NopSink) Publish(context.Context, Event) {}
