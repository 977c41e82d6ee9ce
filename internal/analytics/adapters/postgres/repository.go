package postgres

import (
	"context"
	"fmt"
	"time"

	"telemetry-analytics-service/internal/analytics/core/ports"
	events "telemetry-analytics-service/internal/events/core/domain"
)

// EventReader fetches raw rows only; all grouping and windowing happens in
// the compute package, so the engine stays independent of SQL dialect
// features.
type EventReader struct {
	db DB
}

func NewEventReader(db DB) *EventReader {
	return &EventReader{db: db}
}

var _ ports.EventReaderPort = (*EventReader)(nil)

const selectEventsSQL = `
SELECT
    user_id,
    COALESCE(app_id, ''),
    COALESCE(app_name, ''),
    action,
    event_time,
    COALESCE(status_code, 0),
    COALESCE(error_message, '')
FROM interaction_events
WHERE `

func (r *EventReader) FetchEvents(ctx context.Context, f ports.EventFilter) ([]events.Event, error) {
	where := "event_time >= $1 AND event_time < $2"
	args := []any{f.From, f.To}

	where, args = appendFilters(where, args, f.AppID, f.UserID)

	return r.query(ctx, selectEventsSQL+where, args)
}

func (r *EventReader) FetchHistory(ctx context.Context, until time.Time, appID, userID string) ([]events.Event, error) {
	where := "event_time < $1"
	args := []any{until}

	where, args = appendFilters(where, args, appID, userID)

	return r.query(ctx, selectEventsSQL+where, args)
}

func appendFilters(where string, args []any, appID, userID string) (string, []any) {
	if appID != "" {
		args = append(args, appID)
		where += fmt.Sprintf(" AND app_id = $%d", len(args))
	}
	if userID != "" {
		args = append(args, userID)
		where += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	return where, args
}

func (r *EventReader) query(ctx context.Context, query string, args []any) ([]events.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var e events.Event
		if err := rows.Scan(
			&e.UserID,
			&e.AppID,
			&e.AppName,
			&e.Action,
			&e.EventTime,
			&e.StatusCode,
			&e.ErrorMessage,
		); err != nil {
			return nil, err
		}
		e.EventTime = e.EventTime.UTC()
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
