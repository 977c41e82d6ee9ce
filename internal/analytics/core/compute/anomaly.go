package compute

import (
	"telemetry-analytics-service/internal/analytics/core/domain"
	events "telemetry-analytics-service/internal/events/core/domain"
)

// DetectAnomalies scans the window's daily click counts against a global
// baseline: population mean and standard deviation over the entire series,
// then z = (value - mean) / stddev per day. Days reaching |z| >= threshold
// are flagged Anomaly. A zero standard deviation leaves every day Normal
// with an undefined z-score rather than dividing by zero.
//
// Known limitation: the baseline is global, with no seasonality adjustment,
// so a regular weekend dip can read as a deviation on busy-weekday series.
func DetectAnomalies(evs []events.Event, threshold float64) []domain.AnomalyPoint {
	byDay := groupBy(evs, func(e events.Event) string { return day(e.EventTime) })

	days := sortedKeys(byDay)
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = float64(len(byDay[d]))
	}

	m := mean(values)
	sd := popStdDev(values, m)

	out := make([]domain.AnomalyPoint, 0, len(days))
	for i, d := range days {
		p := domain.AnomalyPoint{
			Date:   d,
			Value:  values[i],
			Mean:   round2(m),
			StdDev: round2(sd),
			Status: domain.StatusNormal,
		}
		if sd > 0 {
			z := (values[i] - m) / sd
			if z >= threshold || z <= -threshold {
				p.Status = domain.StatusAnomaly
			}
			rounded := round2(z)
			p.ZScore = &rounded
		}
		out = append(out, p)
	}
	return out
}
