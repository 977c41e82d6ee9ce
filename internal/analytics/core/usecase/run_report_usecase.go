package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"telemetry-analytics-service/internal/analytics/core/compute"
	"telemetry-analytics-service/internal/analytics/core/domain"
	"telemetry-analytics-service/internal/analytics/core/ports"
	events "telemetry-analytics-service/internal/events/core/domain"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrEventSource      = errors.New("event source unavailable")
)

// Section names used as SectionErrors keys (the external contract for
// degraded results).
const (
	SectionKPI            = "kpi"
	SectionKPIComparison  = "kpi_comparison"
	SectionDAUTrend       = "dau_trend"
	SectionTopApps        = "top_apps"
	SectionHeatmap        = "heatmap"
	SectionErrorTrend     = "error_trend"
	SectionWeeklyTrends   = "weekly_trends"
	SectionNewVsReturning = "new_vs_returning"
	SectionSegmentation   = "segmentation"
	SectionSessions       = "sessions"
	SectionCohorts        = "cohorts"
	SectionAnomalies      = "anomalies"
	SectionLifecycle      = "lifecycle"
)

type RunReportInput struct {
	From int64 // unix second, inclusive
	To   int64 // unix second, exclusive

	AppID  string // optional filter
	UserID string // optional filter

	// Now anchors activity-status classification. Zero means the window
	// end, which keeps identical inputs producing identical reports.
	Now int64
}

type RunReportUseCase struct {
	reader   ports.EventReaderPort
	settings compute.Settings
}

func NewRunReportUseCase(reader ports.EventReaderPort, settings compute.Settings) *RunReportUseCase {
	return &RunReportUseCase{reader: reader, settings: settings}
}

// Execute runs the full report over [From, To). The window fetch is a hard
// precondition; everything after it degrades per section — a failed or
// panicked sub-computation records a marker in SectionErrors and the rest
// of the report still computes.
func (uc *RunReportUseCase) Execute(ctx context.Context, in RunReportInput) (*domain.Report, error) {

	if in.From <= 0 || in.To <= 0 || in.From >= in.To {
		return nil, ErrInvalidTimeRange
	}

	from := time.Unix(in.From, 0).UTC()
	to := time.Unix(in.To, 0).UTC()

	raw, err := uc.reader.FetchEvents(ctx, ports.EventFilter{
		From:   from,
		To:     to,
		AppID:  in.AppID,
		UserID: in.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventSource, err)
	}

	evs, skipped := events.Clean(raw)

	report := &domain.Report{
		From:          in.From,
		To:            in.To,
		Skipped:       skipped,
		SectionErrors: make(map[string]string),
	}

	now := to
	if in.Now > 0 {
		now = time.Unix(in.Now, 0).UTC()
	}

	var mu sync.Mutex
	fail := func(name, msg string) {
		mu.Lock()
		report.SectionErrors[name] = msg
		mu.Unlock()
	}

	// Optional extra inputs. Their absence degrades the sections that need
	// them, never the whole report.
	prev, prevErr := uc.reader.FetchEvents(ctx, ports.EventFilter{
		From:   from.Add(-to.Sub(from)),
		To:     from,
		AppID:  in.AppID,
		UserID: in.UserID,
	})
	if prevErr != nil {
		fail(SectionKPIComparison, "previous period unavailable: "+prevErr.Error())
	} else {
		prev, _ = events.Clean(prev)
	}

	history, histErr := uc.reader.FetchHistory(ctx, to, in.AppID, in.UserID)
	if histErr != nil {
		msg := "history unavailable: " + histErr.Error()
		fail(SectionCohorts, msg)
		fail(SectionNewVsReturning, msg)
	} else {
		history, _ = events.Clean(history)
	}

	// Each section reads the shared immutable slices and writes only its
	// own report field, so no locking beyond the error map is needed.
	section := func(name string, fn func()) func() error {
		return func() error {
			defer func() {
				if r := recover(); r != nil {
					fail(name, fmt.Sprintf("computation failed: %v", r))
				}
			}()
			fn()
			return nil
		}
	}

	var g errgroup.Group

	g.Go(section(SectionKPI, func() {
		kpi := compute.KPISummary(evs)
		if prevErr == nil {
			compute.AttachComparison(kpi, prev)
		}
		report.KPI = kpi
	}))
	g.Go(section(SectionDAUTrend, func() {
		report.DAUTrend = compute.DAUTrend(evs)
	}))
	g.Go(section(SectionTopApps, func() {
		report.TopApps = compute.TopApps(evs, uc.settings.TopAppsLimit)
	}))
	g.Go(section(SectionHeatmap, func() {
		report.Heatmap = compute.Heatmap(evs)
	}))
	g.Go(section(SectionErrorTrend, func() {
		report.ErrorTrend = compute.ErrorTrend(evs)
	}))
	g.Go(section(SectionWeeklyTrends, func() {
		report.WeeklyTrends = compute.WeeklyTrends(evs)
	}))
	g.Go(section(SectionSegmentation, func() {
		report.Segmentation = compute.Segmentation(evs, now, uc.settings)
	}))
	g.Go(section(SectionSessions, func() {
		report.Sessions = compute.SessionSummary(evs, uc.settings.SessionGap)
	}))
	g.Go(section(SectionAnomalies, func() {
		report.Anomalies = compute.DetectAnomalies(evs, uc.settings.AnomalyZThreshold)
	}))
	g.Go(section(SectionLifecycle, func() {
		report.Lifecycle = compute.Lifecycle(evs, uc.settings.LifecycleLimit)
	}))

	if histErr == nil {
		g.Go(section(SectionCohorts, func() {
			report.Cohorts = compute.CohortRetention(history, from, to, uc.settings.CohortMaxOffsetWeeks)
		}))
		g.Go(section(SectionNewVsReturning, func() {
			report.NewVsReturning = compute.NewVsReturning(evs, compute.FirstInteractions(history))
		}))
	}

	_ = g.Wait() // sections never return errors; failures land in SectionErrors

	return report, nil
}
