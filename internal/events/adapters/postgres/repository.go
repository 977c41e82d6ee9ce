package postgres

import (
	"context"

	"telemetry-analytics-service/internal/events/core/domain"
	"telemetry-analytics-service/internal/events/core/ports"
)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

// SQL template
const insertEventSQL = `
INSERT INTO interaction_events (
    event_id,
    user_id,
    app_id,
    app_name,
    action,
    event_time,
    status_code,
    error_message,
    dedupe_key
) VALUES (
    $1, $2, $3, $4, $5,
    $6, $7, $8, $9
)
ON CONFLICT (dedupe_key) DO NOTHING;
`

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {

	res, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.UserID,
		nullable(e.AppID),
		nullable(e.AppName),
		e.Action,
		e.EventTime,
		nullableInt(e.StatusCode),
		nullable(e.ErrorMessage),
		e.DedupeKey,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new record
	// rows == 0  -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
