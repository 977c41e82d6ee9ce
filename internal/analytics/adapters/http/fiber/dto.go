package fiber

import (
	"time"

	"telemetry-analytics-service/internal/analytics/core/domain"
)

// ReportResponse is the façade's external schema. Field names are stable
// for dashboard compatibility.
type ReportResponse struct {
	From    int64 `json:"from"`
	To      int64 `json:"to"`
	Skipped int   `json:"skipped"`

	KPI            *KPIResponse          `json:"kpi"`
	DAUTrend       []DailyActivityItem   `json:"dau_trend"`
	TopApps        []AppUsageItem        `json:"top_apps"`
	Heatmap        []HeatmapCellItem     `json:"heatmap"`
	ErrorTrend     []ErrorStatItem       `json:"error_trend"`
	WeeklyTrends   []WeeklyTrendItem     `json:"weekly_trends"`
	NewVsReturning []DailyMixItem        `json:"new_vs_returning"`
	Segmentation   *SegmentationResponse `json:"segmentation"`
	Sessions       *SessionStatsResponse `json:"sessions"`
	Cohorts        []CohortRowItem       `json:"cohorts"`
	Anomalies      []AnomalyPointItem    `json:"anomalies"`
	Lifecycle      []LifecycleEventItem  `json:"lifecycle"`

	SectionErrors map[string]string `json:"section_errors,omitempty"`
}

type KPIResponse struct {
	UniqueUsers            int      `json:"unique_users"`
	UniqueApps             int      `json:"unique_apps"`
	TotalInteractions      int      `json:"total_interactions"`
	AvgInteractionsPerUser float64  `json:"avg_interactions_per_user"`
	ErrorRatePct           float64  `json:"error_rate_pct"`
	PrevUsers              int      `json:"prev_users"`
	PrevInteractions       int      `json:"prev_interactions"`
	UserGrowthPct          *float64 `json:"user_growth_pct"`
	InteractionGrowthPct   *float64 `json:"interaction_growth_pct"`
}

type DailyActivityItem struct {
	Date         string `json:"date"`
	ActiveUsers  int    `json:"daily_active_users"`
	TotalClicks  int    `json:"total_clicks"`
	AppsAccessed int    `json:"apps_accessed"`
}

type AppUsageItem struct {
	AppName     string  `json:"app_name"`
	ClickCount  int     `json:"click_count"`
	UniqueUsers int     `json:"unique_users"`
	PctOfTotal  float64 `json:"pct_of_total"`
	ActiveDays  int     `json:"active_days"`
}

type HeatmapCellItem struct {
	DayOfWeek   int    `json:"day_of_week"`
	DayName     string `json:"day_name"`
	HourOfDay   int    `json:"hour_of_day"`
	ClickCount  int    `json:"click_count"`
	UniqueUsers int    `json:"unique_users"`
}

type ErrorStatItem struct {
	Date          string  `json:"date"`
	TotalRequests int     `json:"total_requests"`
	Successful    int     `json:"successful_requests"`
	Failed        int     `json:"failed_requests"`
	ErrorRatePct  float64 `json:"error_rate_pct"`
}

type WeeklyTrendItem struct {
	WeekStart    string  `json:"week_start"`
	Users        int     `json:"users"`
	Interactions int     `json:"interactions"`
	Apps         int     `json:"apps"`
	ErrorRatePct float64 `json:"error_rate_pct"`
}

type DailyMixItem struct {
	Date           string `json:"date"`
	NewUsers       int    `json:"new_users"`
	ReturningUsers int    `json:"returning_users"`
	TotalUsers     int    `json:"total_users"`
}

type SegmentationResponse struct {
	Users   []UserSegmentItem  `json:"users"`
	Summary []SegmentCountItem `json:"summary"`
}

type UserSegmentItem struct {
	UserID          string  `json:"user_id"`
	Segment         string  `json:"segment"`
	Status          string  `json:"status"`
	TotalClicks     int     `json:"total_clicks"`
	AppsAccessed    int     `json:"apps_accessed"`
	DaysActive      int     `json:"days_active"`
	AvgClicksPerDay float64 `json:"avg_clicks_per_day"`
	LastInteraction string  `json:"last_interaction"`
}

type SegmentCountItem struct {
	Segment string `json:"segment"`
	Users   int    `json:"users"`
}

type SessionStatsResponse struct {
	TotalSessions int                    `json:"total_sessions"`
	SingleTouch   int                    `json:"single_touch"`
	MultiEvent    int                    `json:"multi_event"`
	Duration      *DurationStatsResponse `json:"duration"`
}

type DurationStatsResponse struct {
	MeanMinutes   float64 `json:"mean_minutes"`
	MedianMinutes float64 `json:"median_minutes"`
	P90Minutes    float64 `json:"p90_minutes"`
	MinMinutes    float64 `json:"min_minutes"`
	MaxMinutes    float64 `json:"max_minutes"`
}

type CohortRowItem struct {
	CohortWeek   string     `json:"cohort_week"`
	CohortSize   int        `json:"cohort_size"`
	Active       []int      `json:"active"`
	RetentionPct []*float64 `json:"retention_pct"`
}

type AnomalyPointItem struct {
	Date   string   `json:"date"`
	Value  float64  `json:"value"`
	Mean   float64  `json:"mean"`
	StdDev float64  `json:"stddev"`
	ZScore *float64 `json:"z_score"`
	Status string   `json:"status"`
}

type LifecycleEventItem struct {
	EventTime  string `json:"event_time"`
	Action     string `json:"action"`
	AppName    string `json:"app_name"`
	UserID     string `json:"user_id"`
	StatusCode int    `json:"status_code"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_time_range"`
	Message string `json:"message" example:"from must be before to"`
}

func toResponse(r *domain.Report) ReportResponse {
	resp := ReportResponse{
		From:    r.From,
		To:      r.To,
		Skipped: r.Skipped,
	}

	if len(r.SectionErrors) > 0 {
		resp.SectionErrors = r.SectionErrors
	}

	if r.KPI != nil {
		resp.KPI = &KPIResponse{
			UniqueUsers:            r.KPI.UniqueUsers,
			UniqueApps:             r.KPI.UniqueApps,
			TotalInteractions:      r.KPI.TotalInteractions,
			AvgInteractionsPerUser: r.KPI.AvgInteractionsPerUser,
			ErrorRatePct:           r.KPI.ErrorRatePct,
			PrevUsers:              r.KPI.PrevUsers,
			PrevInteractions:       r.KPI.PrevInteractions,
			UserGrowthPct:          r.KPI.UserGrowthPct,
			InteractionGrowthPct:   r.KPI.InteractionGrowthPct,
		}
	}

	for _, d := range r.DAUTrend {
		resp.DAUTrend = append(resp.DAUTrend, DailyActivityItem{
			Date:         d.Date,
			ActiveUsers:  d.ActiveUsers,
			TotalClicks:  d.TotalClicks,
			AppsAccessed: d.AppsAccessed,
		})
	}

	for _, a := range r.TopApps {
		resp.TopApps = append(resp.TopApps, AppUsageItem{
			AppName:     a.AppName,
			ClickCount:  a.ClickCount,
			UniqueUsers: a.UniqueUsers,
			PctOfTotal:  a.PctOfTotal,
			ActiveDays:  a.ActiveDays,
		})
	}

	for _, h := range r.Heatmap {
		resp.Heatmap = append(resp.Heatmap, HeatmapCellItem{
			DayOfWeek:   h.DayOfWeek,
			DayName:     h.DayName,
			HourOfDay:   h.HourOfDay,
			ClickCount:  h.ClickCount,
			UniqueUsers: h.UniqueUsers,
		})
	}

	for _, e := range r.ErrorTrend {
		resp.ErrorTrend = append(resp.ErrorTrend, ErrorStatItem{
			Date:          e.Date,
			TotalRequests: e.TotalRequests,
			Successful:    e.Successful,
			Failed:        e.Failed,
			ErrorRatePct:  e.ErrorRatePct,
		})
	}

	for _, w := range r.WeeklyTrends {
		resp.WeeklyTrends = append(resp.WeeklyTrends, WeeklyTrendItem{
			WeekStart:    w.WeekStart,
			Users:        w.Users,
			Interactions: w.Interactions,
			Apps:         w.Apps,
			ErrorRatePct: w.ErrorRatePct,
		})
	}

	for _, m := range r.NewVsReturning {
		resp.NewVsReturning = append(resp.NewVsReturning, DailyMixItem{
			Date:           m.Date,
			NewUsers:       m.NewUsers,
			ReturningUsers: m.ReturningUsers,
			TotalUsers:     m.TotalUsers,
		})
	}

	if r.Segmentation != nil {
		seg := &SegmentationResponse{}
		for _, u := range r.Segmentation.Users {
			seg.Users = append(seg.Users, UserSegmentItem{
				UserID:          u.UserID,
				Segment:         u.Segment,
				Status:          u.Status,
				TotalClicks:     u.TotalClicks,
				AppsAccessed:    u.AppsAccessed,
				DaysActive:      u.DaysActive,
				AvgClicksPerDay: u.AvgClicksPerDay,
				LastInteraction: u.LastInteraction.UTC().Format(time.RFC3339),
			})
		}
		for _, s := range r.Segmentation.Summary {
			seg.Summary = append(seg.Summary, SegmentCountItem{Segment: s.Segment, Users: s.Users})
		}
		resp.Segmentation = seg
	}

	if r.Sessions != nil {
		sess := &SessionStatsResponse{
			TotalSessions: r.Sessions.TotalSessions,
			SingleTouch:   r.Sessions.SingleTouch,
			MultiEvent:    r.Sessions.MultiEvent,
		}
		if r.Sessions.Duration != nil {
			sess.Duration = &DurationStatsResponse{
				MeanMinutes:   r.Sessions.Duration.Mean,
				MedianMinutes: r.Sessions.Duration.Median,
				P90Minutes:    r.Sessions.Duration.P90,
				MinMinutes:    r.Sessions.Duration.Min,
				MaxMinutes:    r.Sessions.Duration.Max,
			}
		}
		resp.Sessions = sess
	}

	for _, c := range r.Cohorts {
		resp.Cohorts = append(resp.Cohorts, CohortRowItem{
			CohortWeek:   c.CohortWeek,
			CohortSize:   c.CohortSize,
			Active:       c.Active,
			RetentionPct: c.RetentionPct,
		})
	}

	for _, a := range r.Anomalies {
		resp.Anomalies = append(resp.Anomalies, AnomalyPointItem{
			Date:   a.Date,
			Value:  a.Value,
			Mean:   a.Mean,
			StdDev: a.StdDev,
			ZScore: a.ZScore,
			Status: a.Status,
		})
	}

	for _, l := range r.Lifecycle {
		resp.Lifecycle = append(resp.Lifecycle, LifecycleEventItem{
			EventTime:  l.EventTime.UTC().Format(time.RFC3339),
			Action:     l.Action,
			AppName:    l.AppName,
			UserID:     l.UserID,
			StatusCode: l.StatusCode,
		})
	}

	return resp
}
