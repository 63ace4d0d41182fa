// Package analytics implements the time-windowed aggregation of detection
// events: bucketing, daily summaries and weekly/monthly range summaries.
// All functions are pure; they operate on an already-materialized slice of
// events and perform no I/O.
package analytics

import "time"

// Named bucket widths. The live day view buckets by half hour, the offline
// daily report buckets by hour. Both share the same anchoring, zero-omission
// and tie-break rules.
const (
	HalfHour = 30 * time.Minute
	Hour     = time.Hour
)

// BucketStart returns the start of the fixed-width bucket containing ts.
// Buckets are anchored at rangeStart, so boundaries always align to the
// midnight of the queried range rather than drifting with an epoch.
func BucketStart(ts, rangeStart time.Time, width time.Duration) time.Time {
	offset := ts.Sub(rangeStart)
	floored := offset / width
	if offset < 0 && offset%width != 0 {
		floored--
	}
	return rangeStart.Add(floored * width)
}
