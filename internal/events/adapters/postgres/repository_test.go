package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"telemetry-analytics-service/internal/events/core/domain"
)

type fakeResult struct {
	rows int64
	err  error
}

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.rows, f.err }

type fakeDB struct {
	ExecFn   func(ctx context.Context, query string, args ...any) (sql.Result, error)
	lastArgs []any
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.lastArgs = args
	return f.ExecFn(ctx, query, args...)
}

func sampleEvent() *domain.Event {
	return &domain.Event{
		EventID:    "7c3a0a46-41a8-4f7e-9c3e-2f6a86a6a001",
		UserID:     "u1",
		AppID:      "app-1",
		AppName:    "Sales Tracker",
		Action:     domain.ActionOpen,
		EventTime:  time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		StatusCode: 200,
		DedupeKey:  "u1|app-1|open|1740996000|200",
	}
}

func TestInsertEvent_Created(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return fakeResult{rows: 1}, nil
		},
	}
	repo := NewEventRepository(db)

	created, err := repo.InsertEvent(context.Background(), sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if len(db.lastArgs) != 9 {
		t.Fatalf("expected 9 insert args, got %d", len(db.lastArgs))
	}
}

func TestInsertEvent_Duplicate(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return fakeResult{rows: 0}, nil
		},
	}
	repo := NewEventRepository(db)

	created, err := repo.InsertEvent(context.Background(), sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for conflict")
	}
}

func TestInsertEvent_NullableColumns(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return fakeResult{rows: 1}, nil
		},
	}
	repo := NewEventRepository(db)

	e := sampleEvent()
	e.AppID = ""
	e.AppName = ""
	e.StatusCode = 0
	e.ErrorMessage = ""

	if _, err := repo.InsertEvent(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// app_id, app_name, status_code, error_message must be NULL, not zero values
	for _, idx := range []int{2, 3, 6, 7} {
		if db.lastArgs[idx] != nil {
			t.Fatalf("expected arg %d to be nil, got %v", idx, db.lastArgs[idx])
		}
	}
}

func TestInsertEvent_DBError(t *testing.T) {
	dbErr := errors.New("no connection")
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return nil, dbErr
		},
	}
	repo := NewEventRepository(db)

	_, err := repo.InsertEvent(context.Background(), sampleEvent())
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected db error passthrough, got %v", err)
	}
}
