package compute

import (
	"sort"
	"time"

	"telemetry-analytics-service/internal/analytics/core/domain"
	events "telemetry-analytics-service/internal/events/core/domain"
)

// Sessionize reconstructs sessions per (user, app) pair from interaction
// events. Within each pair events are sorted ascending and a gap larger
// than the threshold starts a new session; the gap itself never counts
// toward any session's duration.
func Sessionize(evs []events.Event, gap time.Duration) []domain.Session {
	type pair struct {
		user string
		app  string
	}
	byPair := groupBy(interactionsOnly(evs), func(e events.Event) pair {
		app := e.AppID
		if app == "" {
			app = events.UnknownApp
		}
		return pair{user: e.UserID, app: app}
	})

	pairs := make([]pair, 0, len(byPair))
	for p := range byPair {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].user != pairs[j].user {
			return pairs[i].user < pairs[j].user
		}
		return pairs[i].app < pairs[j].app
	})

	var sessions []domain.Session
	for _, p := range pairs {
		group := append([]events.Event(nil), byPair[p]...)
		sort.Slice(group, func(i, j int) bool {
			return group[i].EventTime.Before(group[j].EventTime)
		})

		cur := domain.Session{
			UserID:     p.user,
			AppID:      p.app,
			Start:      group[0].EventTime.UTC(),
			End:        group[0].EventTime.UTC(),
			EventCount: 1,
		}
		for _, e := range group[1:] {
			t := e.EventTime.UTC()
			if t.Sub(cur.End) > gap {
				sessions = append(sessions, cur)
				cur = domain.Session{
					UserID:     p.user,
					AppID:      p.app,
					Start:      t,
					End:        t,
					EventCount: 1,
				}
				continue
			}
			cur.End = t
			cur.EventCount++
		}
		sessions = append(sessions, cur)
	}
	return sessions
}

// SessionSummary sessionizes the window and computes duration statistics
// over multi-event sessions only. Single-event sessions have undefined
// duration and are reported as single-touch; with no multi-event sessions
// at all, Duration is nil rather than a divide-by-zero.
func SessionSummary(evs []events.Event, gap time.Duration) *domain.SessionStats {
	sessions := Sessionize(evs, gap)

	stats := &domain.SessionStats{TotalSessions: len(sessions)}

	var durations []float64
	for _, s := range sessions {
		if s.EventCount < 2 {
			stats.SingleTouch++
			continue
		}
		stats.MultiEvent++
		durations = append(durations, s.End.Sub(s.Start).Minutes())
	}

	if len(durations) == 0 {
		return stats
	}

	sort.Float64s(durations)
	stats.Duration = &domain.DurationStats{
		Mean:   round2(mean(durations)),
		Median: round2(percentile(durations, 0.5)),
		P90:    round2(percentile(durations, 0.9)),
		Min:    round2(durations[0]),
		Max:    round2(durations[len(durations)-1]),
	}
	return stats
}
