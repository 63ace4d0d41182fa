package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/dovewatch/dovewatch-go/internal/datastore"
	"github.com/dovewatch/dovewatch-go/internal/errors"
)

// Sentinel errors surfaced to the API and report boundaries.
var (
	ErrInvalidRange       = errors.NewStd("analytics: range end must be after range start")
	ErrInvalidBucketWidth = errors.NewStd("analytics: bucket width must be positive")
	ErrInvalidGranularity = errors.NewStd("analytics: unknown granularity")
)

// SummarizeDay aggregates events for the calendar day starting at day
// (midnight in the caller's chosen timezone) into fixed-width buckets.
// Input order is irrelevant; events outside [day, day+24h) are ignored.
// An empty day yields a zero summary, not an error.
func SummarizeDay(events []datastore.Event, day time.Time, width time.Duration) (DailySummary, error) {
	if width <= 0 {
		return DailySummary{}, errors.New(ErrInvalidBucketWidth).
			Component("analytics").
			Category(errors.CategoryTimeRange).
			Context("width", width.String()).
			Build()
	}

	rangeEnd := day.AddDate(0, 0, 1)
	summary := DailySummary{Date: day}

	counts := make(map[time.Time]int)
	for i := range events {
		ts := events[i].Timestamp.In(day.Location())
		if ts.Before(day) || !ts.Before(rangeEnd) {
			continue
		}

		summary.TotalCalls++
		if summary.FirstCall == nil || ts.Before(*summary.FirstCall) {
			first := ts
			summary.FirstCall = &first
		}
		if summary.LastCall == nil || ts.After(*summary.LastCall) {
			last := ts
			summary.LastCall = &last
		}

		counts[BucketStart(ts, day, width)]++
	}

	if summary.TotalCalls == 0 {
		summary.Buckets = []TimeBucket{}
		return summary, nil
	}

	starts := make([]time.Time, 0, len(counts))
	for start := range counts {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	summary.Buckets = make([]TimeBucket, 0, len(starts))
	for _, start := range starts {
		bucket := TimeBucket{Start: start, End: start.Add(width), Count: counts[start]}
		summary.Buckets = append(summary.Buckets, bucket)
		// first-max semantics: strictly greater count replaces, equal keeps
		// the earlier bucket
		if summary.Peak == nil || bucket.Count > summary.Peak.Count {
			peak := bucket
			summary.Peak = &peak
		}
	}

	return summary, nil
}

// SummarizeRange aggregates events over the half-open interval
// [rangeStart, rangeEnd) grouped by calendar day, and for monthly summaries
// additionally by ISO week. Days and weeks without events are omitted.
func SummarizeRange(events []datastore.Event, rangeStart, rangeEnd time.Time, granularity Granularity) (RangeSummary, error) {
	if !rangeEnd.After(rangeStart) {
		return RangeSummary{}, errors.New(ErrInvalidRange).
			Component("analytics").
			Category(errors.CategoryTimeRange).
			Context("range_start", rangeStart.Format(time.RFC3339)).
			Context("range_end", rangeEnd.Format(time.RFC3339)).
			Build()
	}

	switch granularity {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
	default:
		return RangeSummary{}, errors.New(ErrInvalidGranularity).
			Component("analytics").
			Category(errors.CategoryValidation).
			Context("granularity", string(granularity)).
			Build()
	}

	summary := RangeSummary{
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
		Granularity: granularity,
		PerDay:      make(map[string]int),
	}
	if granularity == GranularityMonthly {
		summary.PerWeek = make(map[string]int)
	}

	loc := rangeStart.Location()
	for i := range events {
		ts := events[i].Timestamp.In(loc)
		if ts.Before(rangeStart) || !ts.Before(rangeEnd) {
			continue
		}

		summary.TotalCalls++
		summary.PerDay[ts.Format(dateLayout)]++
		if summary.PerWeek != nil {
			summary.PerWeek[isoWeekKey(ts)]++
		}
	}

	if summary.TotalCalls == 0 {
		return summary, nil
	}

	switch granularity {
	case GranularityMonthly:
		// monthly summaries average over days and weeks with data
		summary.AveragePerDay = float64(summary.TotalCalls) / float64(len(summary.PerDay))
		summary.AveragePerWeek = float64(summary.TotalCalls) / float64(len(summary.PerWeek))
	default:
		summary.AveragePerDay = float64(summary.TotalCalls) / float64(daysInRange(rangeStart, rangeEnd))
	}

	return summary, nil
}

// daysInRange counts the calendar days covered by [start, end), walking day
// boundaries so DST transitions don't skew the count.
func daysInRange(start, end time.Time) int {
	days := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// isoWeekKey formats the ISO 8601 week identifier for ts, e.g. "2026-W35".
func isoWeekKey(ts time.Time) string {
	year, week := ts.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
