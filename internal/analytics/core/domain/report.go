package domain

import "time"

// Report is the full result set returned to the presentation layer.
// Every section derives independently from the same event window; a failed
// section leaves its field empty and records a message in SectionErrors
// instead of aborting the run.
type Report struct {
	From int64 // unix second, inclusive
	To   int64 // unix second, exclusive

	// Skipped counts malformed events dropped before computation.
	Skipped int

	KPI            *KPISummary
	DAUTrend       []DailyActivity
	TopApps        []AppUsage
	Heatmap        []HeatmapCell
	ErrorTrend     []ErrorStat
	WeeklyTrends   []WeeklyTrend
	NewVsReturning []DailyMix
	Segmentation   *Segmentation
	Sessions       *SessionStats
	Cohorts        []CohortRow
	Anomalies      []AnomalyPoint
	Lifecycle      []LifecycleEvent

	// SectionErrors maps section name -> failure message.
	SectionErrors map[string]string
}

// KPISummary mirrors the dashboard's headline tiles. Growth fields are nil
// when the previous period is empty or could not be fetched.
type KPISummary struct {
	UniqueUsers            int
	UniqueApps             int
	TotalInteractions      int
	AvgInteractionsPerUser float64
	ErrorRatePct           float64

	PrevUsers            int
	PrevInteractions     int
	UserGrowthPct        *float64
	InteractionGrowthPct *float64
}

// DailyActivity is one day of the DAU trend. Days with zero events are not
// synthesized; gap-filling belongs to the presentation layer.
type DailyActivity struct {
	Date         string // YYYY-MM-DD
	ActiveUsers  int
	TotalClicks  int
	AppsAccessed int
}

type AppUsage struct {
	AppName     string
	ClickCount  int
	UniqueUsers int
	PctOfTotal  float64
	ActiveDays  int
}

// HeatmapCell is one (day-of-week, hour) bucket. DayOfWeek is fixed
// Sun=1..Sat=7 regardless of locale.
type HeatmapCell struct {
	DayOfWeek   int
	DayName     string
	HourOfDay   int
	ClickCount  int
	UniqueUsers int
}

type ErrorStat struct {
	Date          string
	TotalRequests int
	Successful    int
	Failed        int
	ErrorRatePct  float64
}

type WeeklyTrend struct {
	WeekStart    string // Monday of the ISO week, YYYY-MM-DD
	Users        int
	Interactions int
	Apps         int
	ErrorRatePct float64
}

type DailyMix struct {
	Date           string
	NewUsers       int
	ReturningUsers int
	TotalUsers     int
}

// Segmentation tiers, highest first.
const (
	SegmentPower   = "Power User"
	SegmentActive  = "Active User"
	SegmentRegular = "Regular User"
	SegmentCasual  = "Casual User"
)

// Activity statuses, relative to the run's reference time.
const (
	StatusActive   = "Active"
	StatusAtRisk   = "At Risk"
	StatusInactive = "Inactive"
)

type UserSegment struct {
	UserID          string
	Segment         string
	Status          string
	TotalClicks     int
	AppsAccessed    int
	DaysActive      int
	AvgClicksPerDay float64
	LastInteraction time.Time
}

type SegmentCount struct {
	Segment string
	Users   int
}

type Segmentation struct {
	Users   []UserSegment
	Summary []SegmentCount
}

// Session is a maximal run of interaction events for one (user, app) pair
// with consecutive gaps within the configured threshold.
type Session struct {
	UserID     string
	AppID      string
	Start      time.Time
	End        time.Time
	EventCount int
}

// SessionStats summarizes sessionization over the window. Duration is nil
// when no session has two or more events ("no data", not a zero).
type SessionStats struct {
	TotalSessions int
	SingleTouch   int
	MultiEvent    int
	Duration      *DurationStats
}

// DurationStats is computed only over sessions with >= 2 events, in minutes.
type DurationStats struct {
	Mean   float64
	Median float64
	P90    float64
	Min    float64
	Max    float64
}

// CohortRow is one weekly cohort with activity counts at week offsets
// 0..len(Active)-1. RetentionPct[k] is nil when Active[0] is zero.
type CohortRow struct {
	CohortWeek   string // Monday of the ISO week, YYYY-MM-DD
	CohortSize   int
	Active       []int
	RetentionPct []*float64
}

// Anomaly scan outcomes.
const (
	StatusNormal  = "Normal"
	StatusAnomaly = "Anomaly"
)

// AnomalyPoint is one day of the anomaly scan. ZScore is nil when the
// series' standard deviation is zero; such days are Normal by policy.
type AnomalyPoint struct {
	Date   string
	Value  float64
	Mean   float64
	StdDev float64
	ZScore *float64
	Status string // "Normal" | "Anomaly"
}

type LifecycleEvent struct {
	EventTime  time.Time
	Action     string
	AppName    string
	UserID     string
	StatusCode int
}
