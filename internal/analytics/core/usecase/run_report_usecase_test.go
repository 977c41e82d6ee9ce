package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"telemetry-analytics-service/internal/analytics/core/compute"
	"telemetry-analytics-service/internal/analytics/core/ports"
	"telemetry-analytics-service/internal/analytics/core/usecase"
	events "telemetry-analytics-service/internal/events/core/domain"
)

type fakeEventReader struct {
	FetchEventsFn  func(ctx context.Context, f ports.EventFilter) ([]events.Event, error)
	FetchHistoryFn func(ctx context.Context, until time.Time, appID, userID string) ([]events.Event, error)
}

func (f *fakeEventReader) FetchEvents(ctx context.Context, flt ports.EventFilter) ([]events.Event, error) {
	return f.FetchEventsFn(ctx, flt)
}

func (f *fakeEventReader) FetchHistory(ctx context.Context, until time.Time, appID, userID string) ([]events.Event, error) {
	if f.FetchHistoryFn != nil {
		return f.FetchHistoryFn(ctx, until, appID, userID)
	}
	return nil, nil
}

var (
	windowFrom = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	windowTo   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func sampleWindow() []events.Event {
	return []events.Event{
		{UserID: "u1", AppID: "a1", Action: events.ActionOpen, EventTime: windowFrom.Add(10 * time.Hour)},
		{UserID: "u1", AppID: "a1", Action: events.ActionView, EventTime: windowFrom.Add(10*time.Hour + 5*time.Minute)},
		{UserID: "u2", AppID: "a2", Action: events.ActionOpen, EventTime: windowFrom.Add(26 * time.Hour)},
		{UserID: "", Action: events.ActionOpen, EventTime: windowFrom.Add(1 * time.Hour)}, // malformed
	}
}

// readerForWindow serves the report window, an empty previous period, and
// the window itself as history.
func readerForWindow(evs []events.Event) *fakeEventReader {
	return &fakeEventReader{
		FetchEventsFn: func(ctx context.Context, f ports.EventFilter) ([]events.Event, error) {
			if f.To.Equal(windowFrom) {
				return nil, nil // previous period
			}
			return evs, nil
		},
		FetchHistoryFn: func(ctx context.Context, until time.Time, appID, userID string) ([]events.Event, error) {
			return evs, nil
		},
	}
}

func runInput() usecase.RunReportInput {
	return usecase.RunReportInput{From: windowFrom.Unix(), To: windowTo.Unix()}
}

func TestRunReport_InvalidTimeRange(t *testing.T) {
	uc := usecase.NewRunReportUseCase(&fakeEventReader{}, compute.DefaultSettings())

	cases := []usecase.RunReportInput{
		{From: 0, To: windowTo.Unix()},
		{From: windowFrom.Unix(), To: 0},
		{From: windowTo.Unix(), To: windowFrom.Unix()}, // reversed
		{From: windowFrom.Unix(), To: windowFrom.Unix()},
	}
	for _, in := range cases {
		if _, err := uc.Execute(context.Background(), in); !errors.Is(err, usecase.ErrInvalidTimeRange) {
			t.Fatalf("input %+v: expected ErrInvalidTimeRange, got %v", in, err)
		}
	}
}

func TestRunReport_WindowFetchFailureIsFatal(t *testing.T) {
	reader := &fakeEventReader{
		FetchEventsFn: func(ctx context.Context, f ports.EventFilter) ([]events.Event, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := usecase.NewRunReportUseCase(reader, compute.DefaultSettings())

	_, err := uc.Execute(context.Background(), runInput())
	if !errors.Is(err, usecase.ErrEventSource) {
		t.Fatalf("expected ErrEventSource, got %v", err)
	}
}

func TestRunReport_Success(t *testing.T) {
	uc := usecase.NewRunReportUseCase(readerForWindow(sampleWindow()), compute.DefaultSettings())

	report, err := uc.Execute(context.Background(), runInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.SectionErrors) != 0 {
		t.Fatalf("expected no section errors, got %v", report.SectionErrors)
	}
	if report.Skipped != 1 {
		t.Fatalf("skipped: got %d, want 1", report.Skipped)
	}
	if report.KPI == nil || report.KPI.UniqueUsers != 2 {
		t.Fatalf("kpi: %+v", report.KPI)
	}
	if len(report.DAUTrend) != 2 {
		t.Fatalf("dau_trend: got %d days, want 2", len(report.DAUTrend))
	}
	if len(report.TopApps) != 2 {
		t.Fatalf("top_apps: got %d, want 2", len(report.TopApps))
	}
	if report.Segmentation == nil || len(report.Segmentation.Users) != 2 {
		t.Fatalf("segmentation: %+v", report.Segmentation)
	}
	if report.Sessions == nil || report.Sessions.TotalSessions != 2 {
		t.Fatalf("sessions: %+v", report.Sessions)
	}
	if len(report.Cohorts) != 1 {
		t.Fatalf("cohorts: got %d rows, want 1", len(report.Cohorts))
	}
	if len(report.NewVsReturning) != 2 {
		t.Fatalf("new_vs_returning: got %d days, want 2", len(report.NewVsReturning))
	}
	if len(report.Anomalies) != 2 {
		t.Fatalf("anomalies: got %d points, want 2", len(report.Anomalies))
	}
}

func TestRunReport_HistoryFailureDegradesSections(t *testing.T) {
	reader := readerForWindow(sampleWindow())
	reader.FetchHistoryFn = func(ctx context.Context, until time.Time, appID, userID string) ([]events.Event, error) {
		return nil, errors.New("scan timeout")
	}
	uc := usecase.NewRunReportUseCase(reader, compute.DefaultSettings())

	report, err := uc.Execute(context.Background(), runInput())
	if err != nil {
		t.Fatalf("history failure must not fail the report: %v", err)
	}

	for _, section := range []string{usecase.SectionCohorts, usecase.SectionNewVsReturning} {
		if _, ok := report.SectionErrors[section]; !ok {
			t.Fatalf("expected %s marker, got %v", section, report.SectionErrors)
		}
	}
	if report.Cohorts != nil || report.NewVsReturning != nil {
		t.Fatalf("degraded sections must stay empty: %+v", report)
	}
	// unrelated sections still compute
	if report.KPI == nil || report.Sessions == nil {
		t.Fatalf("independent sections missing: %+v", report)
	}
}

func TestRunReport_PreviousPeriodFailureDegradesComparison(t *testing.T) {
	evs := sampleWindow()
	reader := readerForWindow(evs)
	reader.FetchEventsFn = func(ctx context.Context, f ports.EventFilter) ([]events.Event, error) {
		if f.To.Equal(windowFrom) {
			return nil, errors.New("partition offline")
		}
		return evs, nil
	}
	uc := usecase.NewRunReportUseCase(reader, compute.DefaultSettings())

	report, err := uc.Execute(context.Background(), runInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := report.SectionErrors[usecase.SectionKPIComparison]; !ok {
		t.Fatalf("expected kpi_comparison marker, got %v", report.SectionErrors)
	}
	// the base KPI tile still computes, without growth fields
	if report.KPI == nil || report.KPI.UniqueUsers != 2 {
		t.Fatalf("kpi missing: %+v", report.KPI)
	}
	if report.KPI.UserGrowthPct != nil {
		t.Fatalf("growth must stay nil when previous period failed: %v", *report.KPI.UserGrowthPct)
	}
}

func TestRunReport_NowDefaultsToWindowEnd(t *testing.T) {
	uc := usecase.NewRunReportUseCase(readerForWindow(sampleWindow()), compute.DefaultSettings())

	report, err := uc.Execute(context.Background(), runInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// all activity is within 7 days of the window end
	for _, u := range report.Segmentation.Users {
		if u.Status != "Active" {
			t.Fatalf("user %s status: got %s, want Active", u.UserID, u.Status)
		}
	}
}

func TestRunReport_Deterministic(t *testing.T) {
	uc := usecase.NewRunReportUseCase(readerForWindow(sampleWindow()), compute.DefaultSettings())

	var payloads [][]byte
	for i := 0; i < 2; i++ {
		report, err := uc.Execute(context.Background(), runInput())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		raw, err := json.Marshal(report)
		if err != nil {
			t.Fatalf("marshal %d: %v", i, err)
		}
		payloads = append(payloads, raw)
	}

	if !bytes.Equal(payloads[0], payloads[1]) {
		t.Fatalf("identical inputs produced different reports:\n%s\n%s", payloads[0], payloads[1])
	}
}
