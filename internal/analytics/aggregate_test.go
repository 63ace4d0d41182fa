// aggregate_test.go: Tests for the daily and range aggregation functions
package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dovewatch/dovewatch-go/internal/datastore"
	"github.com/dovewatch/dovewatch-go/internal/errors"
)

// eventsAt builds events at the given clock times on the given day.
func eventsAt(day time.Time, clockTimes ...string) []datastore.Event {
	events := make([]datastore.Event, 0, len(clockTimes))
	for _, ct := range clockTimes {
		clock, err := time.Parse("15:04:05", ct)
		if err != nil {
			panic(err)
		}
		ts := day.Add(time.Duration(clock.Hour())*time.Hour +
			time.Duration(clock.Minute())*time.Minute +
			time.Duration(clock.Second())*time.Second)
		events = append(events, datastore.Event{Timestamp: ts, Species: "Spotted Dove", Confidence: 0.9})
	}
	return events
}

func TestSummarizeDay(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("half hour buckets", func(t *testing.T) {
		t.Parallel()

		events := eventsAt(day, "08:00:00", "08:15:00", "08:45:00", "09:10:00")
		summary, err := SummarizeDay(events, day, HalfHour)
		require.NoError(t, err)

		assert.Equal(t, 4, summary.TotalCalls)
		require.NotNil(t, summary.FirstCall)
		assert.Equal(t, day.Add(8*time.Hour), *summary.FirstCall)
		require.NotNil(t, summary.LastCall)
		assert.Equal(t, day.Add(9*time.Hour+10*time.Minute), *summary.LastCall)

		require.Len(t, summary.Buckets, 3)
		assert.Equal(t, day.Add(8*time.Hour), summary.Buckets[0].Start)
		assert.Equal(t, day.Add(8*time.Hour+30*time.Minute), summary.Buckets[0].End)
		assert.Equal(t, 2, summary.Buckets[0].Count)
		assert.Equal(t, day.Add(8*time.Hour+30*time.Minute), summary.Buckets[1].Start)
		assert.Equal(t, 1, summary.Buckets[1].Count)
		assert.Equal(t, day.Add(9*time.Hour), summary.Buckets[2].Start)
		assert.Equal(t, 1, summary.Buckets[2].Count)

		require.NotNil(t, summary.Peak)
		assert.Equal(t, day.Add(8*time.Hour), summary.Peak.Start)
		assert.Equal(t, 2, summary.Peak.Count)
	})

	t.Run("unsorted input yields identical output", func(t *testing.T) {
		t.Parallel()

		sorted := eventsAt(day, "08:00:00", "08:15:00", "08:45:00", "09:10:00")
		shuffled := []datastore.Event{sorted[2], sorted[0], sorted[3], sorted[1]}

		s1, err := SummarizeDay(sorted, day, HalfHour)
		require.NoError(t, err)
		s2, err := SummarizeDay(shuffled, day, HalfHour)
		require.NoError(t, err)

		assert.Equal(t, s1, s2)
	})

	t.Run("empty day", func(t *testing.T) {
		t.Parallel()

		summary, err := SummarizeDay(nil, day, HalfHour)
		require.NoError(t, err)

		assert.Equal(t, 0, summary.TotalCalls)
		assert.Nil(t, summary.FirstCall)
		assert.Nil(t, summary.LastCall)
		assert.Nil(t, summary.Peak)
		assert.Empty(t, summary.Buckets)
	})

	t.Run("boundary exactness", func(t *testing.T) {
		t.Parallel()

		events := []datastore.Event{
			{Timestamp: day},                  // exactly at range start: included
			{Timestamp: day.AddDate(0, 0, 1)}, // exactly at range end: excluded
		}
		summary, err := SummarizeDay(events, day, HalfHour)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.TotalCalls)
		require.NotNil(t, summary.FirstCall)
		assert.True(t, summary.FirstCall.Equal(day))
	})

	t.Run("peak tie broken by earliest start", func(t *testing.T) {
		t.Parallel()

		events := eventsAt(day, "10:05:00", "08:05:00", "14:20:00")
		summary, err := SummarizeDay(events, day, HalfHour)
		require.NoError(t, err)

		require.NotNil(t, summary.Peak)
		assert.Equal(t, 1, summary.Peak.Count)
		assert.Equal(t, day.Add(8*time.Hour), summary.Peak.Start)
	})

	t.Run("total equals sum of bucket counts", func(t *testing.T) {
		t.Parallel()

		events := eventsAt(day, "00:00:00", "05:59:59", "06:00:00", "12:30:00", "12:31:00", "23:59:59")
		summary, err := SummarizeDay(events, day, Hour)
		require.NoError(t, err)

		sum := 0
		for _, bucket := range summary.Buckets {
			sum += bucket.Count
		}
		assert.Equal(t, summary.TotalCalls, sum)
	})

	t.Run("utc events fall into local day buckets", func(t *testing.T) {
		t.Parallel()

		loc := time.FixedZone("EET", 2*3600)
		localDay := time.Date(2026, 6, 1, 0, 0, 0, 0, loc)
		events := []datastore.Event{
			// 00:10 local on June 1st, expressed as a UTC instant
			{Timestamp: time.Date(2026, 5, 31, 22, 10, 0, 0, time.UTC)},
		}

		summary, err := SummarizeDay(events, localDay, HalfHour)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.TotalCalls)
		require.Len(t, summary.Buckets, 1)
		assert.True(t, summary.Buckets[0].Start.Equal(localDay))
	})

	t.Run("invalid bucket width", func(t *testing.T) {
		t.Parallel()

		_, err := SummarizeDay(nil, day, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidBucketWidth))
	})

	t.Run("deterministic and idempotent", func(t *testing.T) {
		t.Parallel()

		events := eventsAt(day, "07:00:00", "07:10:00", "21:45:00")
		s1, err := SummarizeDay(events, day, HalfHour)
		require.NoError(t, err)
		s2, err := SummarizeDay(events, day, HalfHour)
		require.NoError(t, err)
		assert.Equal(t, s1, s2)
	})
}

func TestSummarizeRange(t *testing.T) {
	t.Parallel()

	t.Run("weekly spanning month boundary", func(t *testing.T) {
		t.Parallel()

		// Monday 2026-08-31 through Sunday 2026-09-06
		weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		weekEnd := weekStart.AddDate(0, 0, 7)
		events := []datastore.Event{
			{Timestamp: weekStart.Add(6 * time.Hour)},
			{Timestamp: weekStart.AddDate(0, 0, 6).Add(18 * time.Hour)},
		}

		summary, err := SummarizeRange(events, weekStart, weekEnd, GranularityWeekly)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.TotalCalls)
		assert.Equal(t, map[string]int{"2026-08-31": 1, "2026-09-06": 1}, summary.PerDay)
		assert.InDelta(t, 2.0/7.0, summary.AveragePerDay, 1e-9)
		assert.Nil(t, summary.PerWeek)
		assert.Zero(t, summary.AveragePerWeek)
	})

	t.Run("monthly with iso weeks", func(t *testing.T) {
		t.Parallel()

		monthStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0)
		events := []datastore.Event{
			{Timestamp: monthStart.Add(8 * time.Hour)},                   // Tue Sep 1, ISO week 36
			{Timestamp: monthStart.Add(9 * time.Hour)},                   // same day
			{Timestamp: monthStart.AddDate(0, 0, 13).Add(7 * time.Hour)}, // Mon Sep 14, ISO week 38
		}

		summary, err := SummarizeRange(events, monthStart, monthEnd, GranularityMonthly)
		require.NoError(t, err)

		assert.Equal(t, 3, summary.TotalCalls)
		assert.Equal(t, map[string]int{"2026-09-01": 2, "2026-09-14": 1}, summary.PerDay)
		assert.Equal(t, map[string]int{"2026-W36": 2, "2026-W38": 1}, summary.PerWeek)
		// monthly averages divide by days and weeks with data
		assert.InDelta(t, 1.5, summary.AveragePerDay, 1e-9)
		assert.InDelta(t, 1.5, summary.AveragePerWeek, 1e-9)
	})

	t.Run("empty range is not an error", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
		summary, err := SummarizeRange(nil, start, start.AddDate(0, 0, 7), GranularityWeekly)
		require.NoError(t, err)

		assert.Equal(t, 0, summary.TotalCalls)
		assert.Empty(t, summary.PerDay)
		assert.Zero(t, summary.AveragePerDay)
	})

	t.Run("events at range end excluded", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, 1)
		events := []datastore.Event{
			{Timestamp: start},
			{Timestamp: end},
		}

		summary, err := SummarizeRange(events, start, end, GranularityDaily)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.TotalCalls)
	})

	t.Run("invalid range", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
		_, err := SummarizeRange(nil, start, start, GranularityDaily)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRange))

		_, err = SummarizeRange(nil, start.AddDate(0, 0, 1), start, GranularityDaily)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRange))
	})

	t.Run("invalid granularity", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
		_, err := SummarizeRange(nil, start, start.AddDate(0, 0, 1), Granularity("hourly"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidGranularity))
	})
}
