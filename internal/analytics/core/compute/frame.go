// Package compute is the analytics engine: pure functions turning an
// in-memory slice of audit events into the report sections. The source
// system expressed these as declarative aggregate queries; here each query
// becomes an explicit group-by over the shared immutable event slice, so
// every computation is deterministic and safe to run in parallel.
package compute

import (
	"sort"
	"time"

	events "telemetry-analytics-service/internal/events/core/domain"
)

const dateLayout = "2006-01-02"

// groupBy buckets events by an arbitrary key. Events keep their input order
// within each bucket.
func groupBy[K comparable](evs []events.Event, key func(events.Event) K) map[K][]events.Event {
	out := make(map[K][]events.Event)
	for _, e := range evs {
		k := key(e)
		out[k] = append(out[k], e)
	}
	return out
}

// distinct is a running COUNT(DISTINCT ...) emulation.
type distinct map[string]struct{}

func (d distinct) add(v string) {
	if v != "" {
		d[v] = struct{}{}
	}
}

func (d distinct) count() int {
	return len(d)
}

// sortedKeys returns map keys in ascending order so every result table has
// a stable row order regardless of map iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func day(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// isoWeekStart returns the Monday (00:00 UTC) of the ISO week containing t.
func isoWeekStart(t time.Time) time.Time {
	t = t.UTC()
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// interactionsOnly filters to the engagement action set.
func interactionsOnly(evs []events.Event) []events.Event {
	out := make([]events.Event, 0, len(evs))
	for _, e := range evs {
		if e.IsInteraction() {
			out = append(out, e)
		}
	}
	return out
}
