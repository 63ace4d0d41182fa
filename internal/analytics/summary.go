package analytics

import "time"

// Granularity selects the reporting cadence for range summaries.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// TimeBucket is a fixed-width, half-open interval [Start, End) with the
// number of events whose timestamp falls inside it.
type TimeBucket struct {
	Start time.Time
	End   time.Time
	Count int
}

// DailySummary is the aggregation result for one calendar day.
type DailySummary struct {
	Date       time.Time    // midnight of the summarized day, in the query timezone
	TotalCalls int          // events in [Date, Date+24h)
	FirstCall  *time.Time   // earliest timestamp in range, nil iff TotalCalls == 0
	LastCall   *time.Time   // latest timestamp in range, nil iff TotalCalls == 0
	Peak       *TimeBucket  // bucket with the highest count, earliest start wins ties, nil iff TotalCalls == 0
	Buckets    []TimeBucket // non-empty buckets only, ordered by start ascending
}

// RangeSummary is the aggregation result for a multi-day half-open interval.
type RangeSummary struct {
	RangeStart  time.Time
	RangeEnd    time.Time
	Granularity Granularity
	TotalCalls  int

	// AveragePerDay divides TotalCalls by the calendar days of the range for
	// weekly summaries, and by days with at least one event for monthly
	// summaries.
	AveragePerDay float64

	// AveragePerWeek divides TotalCalls by the number of ISO weeks with data.
	// Only populated for monthly summaries.
	AveragePerWeek float64

	// PerDay maps YYYY-MM-DD to event count. Days without events are absent.
	PerDay map[string]int

	// PerWeek maps ISO week identifiers (YYYY-Www) to event count. Only
	// populated for monthly summaries; weeks without events are absent.
	PerWeek map[string]int
}

// SortedDays returns the PerDay keys in ascending order.
func (rs *RangeSummary) SortedDays() []string {
	return sortedKeys(rs.PerDay)
}

// SortedWeeks returns the PerWeek keys in ascending order.
func (rs *RangeSummary) SortedWeeks() []string {
	return sortedKeys(rs.PerWeek)
}
