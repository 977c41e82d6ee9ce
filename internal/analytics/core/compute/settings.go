package compute

import "time"

// Settings holds every tunable the engine uses. It is passed explicitly
// into each computation so runs are deterministic and repeatable; nothing
// here is read from ambient global state.
type Settings struct {
	// SessionGap is the inactivity gap that closes a session.
	SessionGap time.Duration

	// TopAppsLimit caps the app ranking.
	TopAppsLimit int

	// Segment tier minimum interaction counts within the window.
	SegmentPowerMin   int
	SegmentActiveMin  int
	SegmentRegularMin int

	// Activity status cutoffs relative to the run's reference time.
	ActiveWithin time.Duration
	AtRiskWithin time.Duration

	// AnomalyZThreshold flags a day when |z| reaches it.
	AnomalyZThreshold float64

	// CohortMaxOffsetWeeks is the largest retention offset reported.
	CohortMaxOffsetWeeks int

	// LifecycleLimit caps the lifecycle event feed.
	LifecycleLimit int
}

func DefaultSettings() Settings {
	return Settings{
		SessionGap:           60 * time.Minute,
		TopAppsLimit:         10,
		SegmentPowerMin:      100,
		SegmentActiveMin:     50,
		SegmentRegularMin:    10,
		ActiveWithin:         7 * 24 * time.Hour,
		AtRiskWithin:         30 * 24 * time.Hour,
		AnomalyZThreshold:    2.0,
		CohortMaxOffsetWeeks: 4,
		LifecycleLimit:       50,
	}
}
