package compute

import (
	"sort"
	"time"

	"telemetry-analytics-service/internal/analytics/core/domain"
	events "telemetry-analytics-service/internal/events/core/domain"
)

// ClassifySegment maps an interaction count to its engagement tier.
// Thresholds are checked highest-first, so the mapping is monotonic:
// a larger count can never land in a lower tier.
func ClassifySegment(clicks int, s Settings) string {
	switch {
	case clicks >= s.SegmentPowerMin:
		return domain.SegmentPower
	case clicks >= s.SegmentActiveMin:
		return domain.SegmentActive
	case clicks >= s.SegmentRegularMin:
		return domain.SegmentRegular
	default:
		return domain.SegmentCasual
	}
}

// ClassifyStatus maps the time since a user's last interaction to an
// activity status relative to now.
func ClassifyStatus(last time.Time, now time.Time, s Settings) string {
	idle := now.Sub(last)
	switch {
	case idle <= s.ActiveWithin:
		return domain.StatusActive
	case idle <= s.AtRiskWithin:
		return domain.StatusAtRisk
	default:
		return domain.StatusInactive
	}
}

// Segmentation classifies every user with at least one interaction in the
// window. Users are ordered by click count descending (user ID ascending on
// ties); the summary lists tiers highest-first including empty ones.
func Segmentation(evs []events.Event, now time.Time, s Settings) *domain.Segmentation {
	byUser := groupBy(interactionsOnly(evs), func(e events.Event) string { return e.UserID })

	users := make([]domain.UserSegment, 0, len(byUser))
	for _, id := range sortedKeys(byUser) {
		apps := distinct{}
		days := distinct{}
		var last time.Time
		for _, e := range byUser[id] {
			apps.add(e.AppID)
			days.add(day(e.EventTime))
			if e.EventTime.After(last) {
				last = e.EventTime
			}
		}

		clicks := len(byUser[id])
		row := domain.UserSegment{
			UserID:          id,
			Segment:         ClassifySegment(clicks, s),
			Status:          ClassifyStatus(last, now, s),
			TotalClicks:     clicks,
			AppsAccessed:    apps.count(),
			DaysActive:      days.count(),
			LastInteraction: last.UTC(),
		}
		if row.DaysActive > 0 {
			row.AvgClicksPerDay = round2(float64(clicks) / float64(row.DaysActive))
		}
		users = append(users, row)
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].TotalClicks != users[j].TotalClicks {
			return users[i].TotalClicks > users[j].TotalClicks
		}
		return users[i].UserID < users[j].UserID
	})

	counts := map[string]int{}
	for _, u := range users {
		counts[u.Segment]++
	}
	summary := []domain.SegmentCount{
		{Segment: domain.SegmentPower, Users: counts[domain.SegmentPower]},
		{Segment: domain.SegmentActive, Users: counts[domain.SegmentActive]},
		{Segment: domain.SegmentRegular, Users: counts[domain.SegmentRegular]},
		{Segment: domain.SegmentCasual, Users: counts[domain.SegmentCasual]},
	}

	return &domain.Segmentation{Users: users, Summary: summary}
}
