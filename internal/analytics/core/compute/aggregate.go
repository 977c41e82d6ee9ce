package compute

import (
	"sort"
	"time"

	"telemetry-analytics-service/internal/analytics/core/domain"
	events "telemetry-analytics-service/internal/events/core/domain"
)

// KPISummary computes the headline tiles over the window. Unique apps count
// distinct non-null app IDs; total interactions count only the engagement
// action set; the error rate runs over all events. Empty input yields zeros,
// never a division error.
func KPISummary(evs []events.Event) *domain.KPISummary {
	users := distinct{}
	apps := distinct{}
	interactions := 0
	errs := 0

	for _, e := range evs {
		users.add(e.UserID)
		apps.add(e.AppID)
		if e.IsInteraction() {
			interactions++
		}
		if e.IsError() {
			errs++
		}
	}

	k := &domain.KPISummary{
		UniqueUsers:       users.count(),
		UniqueApps:        apps.count(),
		TotalInteractions: interactions,
	}
	if k.UniqueUsers > 0 {
		k.AvgInteractionsPerUser = round2(float64(interactions) / float64(k.UniqueUsers))
	}
	if len(evs) > 0 {
		k.ErrorRatePct = round2(float64(errs) * 100.0 / float64(len(evs)))
	}
	return k
}

// AttachComparison fills the previous-period fields on an existing summary.
// Growth percentages stay nil when the previous period had no data.
func AttachComparison(k *domain.KPISummary, prev []events.Event) {
	users := distinct{}
	interactions := 0
	for _, e := range prev {
		users.add(e.UserID)
		if e.IsInteraction() {
			interactions++
		}
	}

	k.PrevUsers = users.count()
	k.PrevInteractions = interactions

	if k.PrevUsers > 0 {
		g := round1(float64(k.UniqueUsers-k.PrevUsers) * 100.0 / float64(k.PrevUsers))
		k.UserGrowthPct = &g
	}
	if k.PrevInteractions > 0 {
		g := round1(float64(k.TotalInteractions-k.PrevInteractions) * 100.0 / float64(k.PrevInteractions))
		k.InteractionGrowthPct = &g
	}
}

// DAUTrend returns per-day activity ascending by date. Days with zero
// events are absent from the output.
func DAUTrend(evs []events.Event) []domain.DailyActivity {
	byDay := groupBy(evs, func(e events.Event) string { return day(e.EventTime) })

	out := make([]domain.DailyActivity, 0, len(byDay))
	for _, d := range sortedKeys(byDay) {
		users := distinct{}
		apps := distinct{}
		for _, e := range byDay[d] {
			users.add(e.UserID)
			apps.add(e.AppID)
		}
		out = append(out, domain.DailyActivity{
			Date:         d,
			ActiveUsers:  users.count(),
			TotalClicks:  len(byDay[d]),
			AppsAccessed: apps.count(),
		})
	}
	return out
}

// TopApps ranks apps by click count descending; ties break by unique users
// descending, then app name ascending, so the ranking is deterministic.
func TopApps(evs []events.Event, limit int) []domain.AppUsage {
	byApp := groupBy(evs, func(e events.Event) string { return e.App() })

	out := make([]domain.AppUsage, 0, len(byApp))
	for app, group := range byApp {
		users := distinct{}
		days := distinct{}
		for _, e := range group {
			users.add(e.UserID)
			days.add(day(e.EventTime))
		}
		row := domain.AppUsage{
			AppName:     app,
			ClickCount:  len(group),
			UniqueUsers: users.count(),
			ActiveDays:  days.count(),
		}
		if len(evs) > 0 {
			row.PctOfTotal = round2(float64(len(group)) * 100.0 / float64(len(evs)))
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ClickCount != out[j].ClickCount {
			return out[i].ClickCount > out[j].ClickCount
		}
		if out[i].UniqueUsers != out[j].UniqueUsers {
			return out[i].UniqueUsers > out[j].UniqueUsers
		}
		return out[i].AppName < out[j].AppName
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var dayNames = [8]string{"", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Heatmap buckets events by (day-of-week, hour-of-day) with the fixed
// Sun=1..Sat=7 numbering. An empty window yields an empty grid.
func Heatmap(evs []events.Event) []domain.HeatmapCell {
	type slot struct {
		dow  int
		hour int
	}
	bySlot := groupBy(evs, func(e events.Event) slot {
		t := e.EventTime.UTC()
		return slot{dow: int(t.Weekday()) + 1, hour: t.Hour()}
	})

	slots := make([]slot, 0, len(bySlot))
	for s := range bySlot {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].dow != slots[j].dow {
			return slots[i].dow < slots[j].dow
		}
		return slots[i].hour < slots[j].hour
	})

	out := make([]domain.HeatmapCell, 0, len(slots))
	for _, s := range slots {
		users := distinct{}
		for _, e := range bySlot[s] {
			users.add(e.UserID)
		}
		out = append(out, domain.HeatmapCell{
			DayOfWeek:   s.dow,
			DayName:     dayNames[s.dow],
			HourOfDay:   s.hour,
			ClickCount:  len(bySlot[s]),
			UniqueUsers: users.count(),
		})
	}
	return out
}

// ErrorTrend returns per-day request health ascending by date.
func ErrorTrend(evs []events.Event) []domain.ErrorStat {
	byDay := groupBy(evs, func(e events.Event) string { return day(e.EventTime) })

	out := make([]domain.ErrorStat, 0, len(byDay))
	for _, d := range sortedKeys(byDay) {
		row := domain.ErrorStat{Date: d}
		for _, e := range byDay[d] {
			row.TotalRequests++
			if e.IsSuccess() {
				row.Successful++
			}
			if e.IsError() {
				row.Failed++
			}
		}
		row.ErrorRatePct = round2(float64(row.Failed) * 100.0 / float64(row.TotalRequests))
		out = append(out, row)
	}
	return out
}

// WeeklyTrends rolls the window up by ISO week, ascending.
func WeeklyTrends(evs []events.Event) []domain.WeeklyTrend {
	byWeek := groupBy(evs, func(e events.Event) string {
		return isoWeekStart(e.EventTime).Format(dateLayout)
	})

	out := make([]domain.WeeklyTrend, 0, len(byWeek))
	for _, w := range sortedKeys(byWeek) {
		users := distinct{}
		apps := distinct{}
		interactions := 0
		errs := 0
		for _, e := range byWeek[w] {
			users.add(e.UserID)
			apps.add(e.AppID)
			if e.IsInteraction() {
				interactions++
			}
			if e.IsError() {
				errs++
			}
		}
		out = append(out, domain.WeeklyTrend{
			WeekStart:    w,
			Users:        users.count(),
			Interactions: interactions,
			Apps:         apps.count(),
			ErrorRatePct: round2(float64(errs) * 100.0 / float64(len(byWeek[w]))),
		})
	}
	return out
}

// NewVsReturning splits each day's users into first-ever-seen vs returning,
// using first interaction dates from full history. Users missing from
// firstSeen (no interaction on record) are counted as returning only in the
// day total.
func NewVsReturning(evs []events.Event, firstSeen map[string]time.Time) []domain.DailyMix {
	byDay := groupBy(evs, func(e events.Event) string { return day(e.EventTime) })

	out := make([]domain.DailyMix, 0, len(byDay))
	for _, d := range sortedKeys(byDay) {
		newUsers := distinct{}
		returning := distinct{}
		total := distinct{}
		for _, e := range byDay[d] {
			total.add(e.UserID)
			first, ok := firstSeen[e.UserID]
			if !ok {
				continue
			}
			switch {
			case day(first) == d:
				newUsers.add(e.UserID)
			case day(first) < d:
				returning.add(e.UserID)
			}
		}
		out = append(out, domain.DailyMix{
			Date:           d,
			NewUsers:       newUsers.count(),
			ReturningUsers: returning.count(),
			TotalUsers:     total.count(),
		})
	}
	return out
}

// Lifecycle returns the most recent app lifecycle events, newest first.
func Lifecycle(evs []events.Event, limit int) []domain.LifecycleEvent {
	out := make([]domain.LifecycleEvent, 0)
	for _, e := range evs {
		if !e.IsLifecycle() {
			continue
		}
		out = append(out, domain.LifecycleEvent{
			EventTime:  e.EventTime.UTC(),
			Action:     e.Action,
			AppName:    e.App(),
			UserID:     e.UserID,
			StatusCode: e.StatusCode,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].EventTime.Equal(out[j].EventTime) {
			return out[i].EventTime.After(out[j].EventTime)
		}
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Action < out[j].Action
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
