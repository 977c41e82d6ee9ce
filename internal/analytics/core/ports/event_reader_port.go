package ports

import (
	"context"
	"time"

	events "telemetry-analytics-service/internal/events/core/domain"
)

type EventFilter struct {
	From   time.Time // inclusive
	To     time.Time // exclusive
	AppID  string    // optional
	UserID string    // optional
}

// EventReaderPort is the engine's only inbound dependency: a queryable log
// of interaction records with the service filter already applied.
type EventReaderPort interface {
	// FetchEvents returns events in [From, To) with optional filters applied.
	// Order is not guaranteed; the engine never assumes one.
	FetchEvents(ctx context.Context, f EventFilter) ([]events.Event, error)

	// FetchHistory returns all events before `until`, for the full-history
	// cohort pass. The optional filters match FetchEvents.
	FetchHistory(ctx context.Context, until time.Time, appID, userID string) ([]events.Event, error)
}
