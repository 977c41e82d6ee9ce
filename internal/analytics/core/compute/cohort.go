package compute

import (
	"sort"
	"time"

	"telemetry-analytics-service/internal/analytics/core/domain"
	events "telemetry-analytics-service/internal/events/core/domain"
)

// FirstInteractions returns each user's earliest interaction time across
// the supplied history. Cohort membership is fixed at this first
// observation and recomputed fresh each run from whatever history is
// available.
func FirstInteractions(history []events.Event) map[string]time.Time {
	first := make(map[string]time.Time)
	for _, e := range interactionsOnly(history) {
		cur, ok := first[e.UserID]
		if !ok || e.EventTime.Before(cur) {
			first[e.UserID] = e.EventTime
		}
	}
	return first
}

// CohortRetention builds the weekly retention matrix. Pass one: every
// user's cohort week is the ISO week of their first-ever interaction in
// history. Pass two: for cohorts whose week starts inside [from, to), count
// distinct cohort members active at each week offset 0..maxOffset; the
// activity lookup also runs over history so offsets past the window edge
// still count. Rows are ordered most-recent-first.
func CohortRetention(history []events.Event, from, to time.Time, maxOffset int) []domain.CohortRow {
	interactions := interactionsOnly(history)
	first := FirstInteractions(history)

	// user -> set of ISO weeks with activity
	activity := make(map[string]map[string]struct{})
	for _, e := range interactions {
		w := isoWeekStart(e.EventTime).Format(dateLayout)
		if activity[e.UserID] == nil {
			activity[e.UserID] = make(map[string]struct{})
		}
		activity[e.UserID][w] = struct{}{}
	}

	windowStart := isoWeekStart(from)
	cohorts := make(map[string][]string)
	for user, t := range first {
		week := isoWeekStart(t)
		if week.Before(windowStart) || !week.Before(to) {
			continue
		}
		key := week.Format(dateLayout)
		cohorts[key] = append(cohorts[key], user)
	}

	weeks := sortedKeys(cohorts)
	// most recent first
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))

	out := make([]domain.CohortRow, 0, len(weeks))
	for _, week := range weeks {
		start, _ := time.Parse(dateLayout, week)
		members := cohorts[week]

		row := domain.CohortRow{
			CohortWeek:   week,
			CohortSize:   len(members),
			Active:       make([]int, maxOffset+1),
			RetentionPct: make([]*float64, maxOffset+1),
		}

		for k := 0; k <= maxOffset; k++ {
			target := start.AddDate(0, 0, 7*k).Format(dateLayout)
			for _, user := range members {
				if _, ok := activity[user][target]; ok {
					row.Active[k]++
				}
			}
		}

		base := row.Active[0]
		for k := 0; k <= maxOffset; k++ {
			row.RetentionPct[k] = RetentionPct(row.Active[k], base)
		}
		out = append(out, row)
	}
	return out
}

// RetentionPct is nil (unknown), not zero, when the cohort had no week-0
// activity.
func RetentionPct(active, base int) *float64 {
	if base == 0 {
		return nil
	}
	pct := round1(float64(active) * 100.0 / float64(base))
	return &pct
}
