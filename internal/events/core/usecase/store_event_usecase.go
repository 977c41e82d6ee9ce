package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telemetry-analytics-service/internal/events/core/domain"
	"telemetry-analytics-service/internal/events/core/ports"

	"github.com/google/uuid"
)

var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrFutureTime   = errors.New("timestamp cannot be in the future")
)

type StoreEventUseCase struct {
	repo ports.EventRepositoryPort
}

func NewStoreEventUseCase(repo ports.EventRepositoryPort) *StoreEventUseCase {
	return &StoreEventUseCase{repo: repo}
}

type StoreEventInput struct {
	UserID       string
	AppID        string
	AppName      string
	Action       string
	Timestamp    int64
	StatusCode   int
	ErrorMessage string
}

func (uc *StoreEventUseCase) Execute(ctx context.Context, in StoreEventInput) (bool, error) {

	if err := uc.validateInput(in); err != nil {
		return false, err
	}

	eventTime := time.Unix(in.Timestamp, 0).UTC()

	e := &domain.Event{
		EventID:      uuid.NewString(),
		UserID:       in.UserID,
		AppID:        in.AppID,
		AppName:      in.AppName,
		Action:       in.Action,
		EventTime:    eventTime,
		StatusCode:   in.StatusCode,
		ErrorMessage: in.ErrorMessage,
		DedupeKey:    buildDedupeKey(in, eventTime),
	}

	created, err := uc.repo.InsertEvent(ctx, e)
	if err != nil {
		return false, err
	}

	return created, nil
}

func buildDedupeKey(in StoreEventInput, t time.Time) string {
	// user_id + app_id + action + unix_timestamp + status_code
	return fmt.Sprintf("%s|%s|%s|%d|%d",
		in.UserID,
		in.AppID,
		in.Action,
		t.Unix(),
		in.StatusCode,
	)
}

type BulkCreateEventsInput struct {
	Events []StoreEventInput
}

type BulkCreateEventsResult struct {
	Created    int
	Duplicates int
}

func (uc *StoreEventUseCase) BulkCreateEvents(ctx context.Context, in BulkCreateEventsInput) (BulkCreateEventsResult, error) {
	var res BulkCreateEventsResult

	for _, ev := range in.Events {
		if err := uc.validateInput(ev); err != nil {
			return res, err
		}
	}

	for _, ev := range in.Events {
		ok, err := uc.Execute(ctx, ev)
		if err != nil {
			return res, err
		}

		if ok {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

func (uc *StoreEventUseCase) validateInput(in StoreEventInput) error {

	if in.UserID == "" || in.Action == "" || in.Timestamp <= 0 {
		return ErrInvalidEvent
	}

	now := time.Now().Unix()
	if in.Timestamp > now {
		return ErrFutureTime
	}

	return nil
}
