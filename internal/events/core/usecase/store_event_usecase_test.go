package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"telemetry-analytics-service/internal/events/core/domain"
	"telemetry-analytics-service/internal/events/core/usecase"
)

// Fake repository implementing EventRepositoryPort
type fakeEventRepo struct {
	InsertFn func(ctx context.Context, e *domain.Event) (bool, error)
}

func (f *fakeEventRepo) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	return f.InsertFn(ctx, e)
}

// ------------------------------------------------------------
// SUCCESS TEST
// ------------------------------------------------------------
func TestStoreEvent_Success(t *testing.T) {
	called := false

	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			called = true

			if e.UserID != "user_123" {
				t.Fatalf("expected user 'user_123', got %s", e.UserID)
			}
			if e.Action != domain.ActionOpen {
				t.Fatalf("expected action 'open', got %s", e.Action)
			}
			if e.EventID == "" {
				t.Fatalf("expected generated event_id, got empty")
			}
			if e.DedupeKey == "" {
				t.Fatalf("expected dedupe key, got empty")
			}
			if e.EventTime.Location() != time.UTC {
				t.Fatalf("expected UTC event time")
			}

			return true, nil
		},
	}

	uc := usecase.NewStoreEventUseCase(repo)

	input := usecase.StoreEventInput{
		UserID:    "user_123",
		AppID:     "app-1",
		Action:    domain.ActionOpen,
		Timestamp: time.Now().Unix(),
	}

	created, err := uc.Execute(context.Background(), input)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true, got false")
	}
	if !called {
		t.Fatalf("repository InsertEvent was not called")
	}
}

// ------------------------------------------------------------
// VALIDATION
// ------------------------------------------------------------
func TestStoreEvent_InvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		input usecase.StoreEventInput
	}{
		{"missing user", usecase.StoreEventInput{Action: domain.ActionOpen, Timestamp: time.Now().Unix()}},
		{"missing action", usecase.StoreEventInput{UserID: "u1", Timestamp: time.Now().Unix()}},
		{"missing timestamp", usecase.StoreEventInput{UserID: "u1", Action: domain.ActionOpen}},
	}

	for _, tc := range cases {
		repo := &fakeEventRepo{
			InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
				t.Fatalf("%s: repository must not be called", tc.name)
				return false, nil
			},
		}
		uc := usecase.NewStoreEventUseCase(repo)

		created, err := uc.Execute(context.Background(), tc.input)
		if !errors.Is(err, usecase.ErrInvalidEvent) {
			t.Fatalf("%s: expected ErrInvalidEvent, got %v", tc.name, err)
		}
		if created {
			t.Fatalf("%s: expected created=false", tc.name)
		}
	}
}

func TestStoreEvent_FutureTimestamp(t *testing.T) {
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			t.Fatalf("repository must not be called")
			return false, nil
		},
	}
	uc := usecase.NewStoreEventUseCase(repo)

	input := usecase.StoreEventInput{
		UserID:    "u1",
		Action:    domain.ActionView,
		Timestamp: time.Now().Add(1 * time.Hour).Unix(),
	}

	_, err := uc.Execute(context.Background(), input)
	if !errors.Is(err, usecase.ErrFutureTime) {
		t.Fatalf("expected ErrFutureTime, got %v", err)
	}
}

// ------------------------------------------------------------
// DUPLICATE & REPO ERROR
// ------------------------------------------------------------
func TestStoreEvent_Duplicate(t *testing.T) {
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			return false, nil
		},
	}
	uc := usecase.NewStoreEventUseCase(repo)

	created, err := uc.Execute(context.Background(), usecase.StoreEventInput{
		UserID:    "u1",
		Action:    domain.ActionOpen,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for duplicate")
	}
}

func TestStoreEvent_RepoError(t *testing.T) {
	dbErr := errors.New("connection reset")
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			return false, dbErr
		},
	}
	uc := usecase.NewStoreEventUseCase(repo)

	_, err := uc.Execute(context.Background(), usecase.StoreEventInput{
		UserID:    "u1",
		Action:    domain.ActionOpen,
		Timestamp: time.Now().Unix(),
	})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected repo error passthrough, got %v", err)
	}
}

// ------------------------------------------------------------
// BULK
// ------------------------------------------------------------
func TestBulkCreateEvents_CountsCreatedAndDuplicates(t *testing.T) {
	seen := map[string]bool{}
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			if seen[e.DedupeKey] {
				return false, nil
			}
			seen[e.DedupeKey] = true
			return true, nil
		},
	}
	uc := usecase.NewStoreEventUseCase(repo)

	ts := time.Now().Unix()
	in := usecase.BulkCreateEventsInput{
		Events: []usecase.StoreEventInput{
			{UserID: "u1", AppID: "a1", Action: domain.ActionOpen, Timestamp: ts},
			{UserID: "u2", AppID: "a1", Action: domain.ActionView, Timestamp: ts},
			{UserID: "u1", AppID: "a1", Action: domain.ActionOpen, Timestamp: ts}, // duplicate
		},
	}

	res, err := uc.BulkCreateEvents(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created != 2 || res.Duplicates != 1 {
		t.Fatalf("expected 2 created / 1 duplicate, got %+v", res)
	}
}

func TestBulkCreateEvents_RejectsBatchWithInvalidEvent(t *testing.T) {
	inserted := 0
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.Event) (bool, error) {
			inserted++
			return true, nil
		},
	}
	uc := usecase.NewStoreEventUseCase(repo)

	in := usecase.BulkCreateEventsInput{
		Events: []usecase.StoreEventInput{
			{UserID: "u1", Action: domain.ActionOpen, Timestamp: time.Now().Unix()},
			{UserID: "", Action: domain.ActionOpen, Timestamp: time.Now().Unix()},
		},
	}

	_, err := uc.BulkCreateEvents(context.Background(), in)
	if !errors.Is(err, usecase.ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected upfront validation to block all inserts, got %d", inserted)
	}
}
