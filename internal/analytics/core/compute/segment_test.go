package compute_test

import (
	"math/rand"
	"testing"
	"time"

	"telemetry-analytics-service/internal/analytics/core/compute"
	"telemetry-analytics-service/internal/analytics/core/domain"
	events "telemetry-analytics-service/internal/events/core/domain"
)

func TestClassifySegment_Boundaries(t *testing.T) {
	s := compute.DefaultSettings()

	cases := []struct {
		clicks int
		want   string
	}{
		{0, domain.SegmentCasual},
		{9, domain.SegmentCasual},
		{10, domain.SegmentRegular},
		{49, domain.SegmentRegular},
		{50, domain.SegmentActive},
		{99, domain.SegmentActive},
		{100, domain.SegmentPower},
		{5000, domain.SegmentPower},
	}
	for _, tc := range cases {
		if got := compute.ClassifySegment(tc.clicks, s); got != tc.want {
			t.Fatalf("clicks=%d: got %s, want %s", tc.clicks, got, tc.want)
		}
	}
}

func TestClassifySegment_Monotonic(t *testing.T) {
	s := compute.DefaultSettings()
	rank := map[string]int{
		domain.SegmentCasual:  0,
		domain.SegmentRegular: 1,
		domain.SegmentActive:  2,
		domain.SegmentPower:   3,
	}

	rng := rand.New(rand.NewSource(42))
	prev := 0
	prevRank := rank[compute.ClassifySegment(0, s)]
	for i := 0; i < 500; i++ {
		clicks := prev + rng.Intn(5)
		r := rank[compute.ClassifySegment(clicks, s)]
		if r < prevRank {
			t.Fatalf("tier dropped from rank %d to %d at clicks=%d", prevRank, r, clicks)
		}
		prev, prevRank = clicks, r
	}
}

func TestClassifyStatus_Boundaries(t *testing.T) {
	s := compute.DefaultSettings()
	now := base

	cases := []struct {
		idle time.Duration
		want string
	}{
		{0, domain.StatusActive},
		{7 * 24 * time.Hour, domain.StatusActive},
		{7*24*time.Hour + time.Second, domain.StatusAtRisk},
		{30 * 24 * time.Hour, domain.StatusAtRisk},
		{30*24*time.Hour + time.Second, domain.StatusInactive},
		{365 * 24 * time.Hour, domain.StatusInactive},
	}
	for _, tc := range cases {
		if got := compute.ClassifyStatus(now.Add(-tc.idle), now, s); got != tc.want {
			t.Fatalf("idle=%v: got %s, want %s", tc.idle, got, tc.want)
		}
	}
}

func TestSegmentation(t *testing.T) {
	s := compute.DefaultSettings()
	now := base.AddDate(0, 0, 10)

	var evs []events.Event
	// heavy: 120 clicks across 2 days and 2 apps, last one recent
	for i := 0; i < 120; i++ {
		app := "a1"
		if i%2 == 0 {
			app = "a2"
		}
		evs = append(evs, ev("heavy", app, events.ActionOpen, base.AddDate(0, 0, i%2).Add(time.Duration(i)*time.Minute)))
	}
	evs = append(evs, ev("heavy", "a1", events.ActionOpen, now.Add(-time.Hour)))
	// light: 3 clicks, idle 10 days
	for i := 0; i < 3; i++ {
		evs = append(evs, ev("light", "a1", events.ActionView, base.Add(time.Duration(i)*time.Minute)))
	}
	// non-interaction events contribute nothing
	evs = append(evs, ev("ghost", "a1", events.ActionCreateApp, base))

	seg := compute.Segmentation(evs, now, s)

	if len(seg.Users) != 2 {
		t.Fatalf("expected 2 segmented users, got %d", len(seg.Users))
	}
	heavy := seg.Users[0]
	if heavy.UserID != "heavy" || heavy.Segment != domain.SegmentPower {
		t.Fatalf("expected heavy user first as Power User, got %+v", heavy)
	}
	if heavy.Status != domain.StatusActive {
		t.Fatalf("heavy status: got %s, want Active", heavy.Status)
	}
	if heavy.AppsAccessed != 2 {
		t.Fatalf("heavy apps: got %d, want 2", heavy.AppsAccessed)
	}

	light := seg.Users[1]
	if light.Segment != domain.SegmentCasual {
		t.Fatalf("light segment: got %s, want Casual", light.Segment)
	}
	if light.Status != domain.StatusAtRisk {
		t.Fatalf("light status: got %s, want At Risk", light.Status)
	}

	// summary lists all tiers highest-first, zero counts included
	wantSummary := []domain.SegmentCount{
		{Segment: domain.SegmentPower, Users: 1},
		{Segment: domain.SegmentActive, Users: 0},
		{Segment: domain.SegmentRegular, Users: 0},
		{Segment: domain.SegmentCasual, Users: 1},
	}
	if len(seg.Summary) != len(wantSummary) {
		t.Fatalf("summary length: got %d, want %d", len(seg.Summary), len(wantSummary))
	}
	for i, w := range wantSummary {
		if seg.Summary[i] != w {
			t.Fatalf("summary[%d]: got %+v, want %+v", i, seg.Summary[i], w)
		}
	}
}

func TestSegmentation_Empty(t *testing.T) {
	seg := compute.Segmentation(nil, base, compute.DefaultSettings())
	if len(seg.Users) != 0 {
		t.Fatalf("expected no users, got %d", len(seg.Users))
	}
	for _, row := range seg.Summary {
		if row.Users != 0 {
			t.Fatalf("expected zero counts, got %+v", seg.Summary)
		}
	}
}
