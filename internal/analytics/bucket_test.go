package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dovewatch/dovewatch-go/internal/errors"
)

func TestBucketStart(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		ts    time.Time
		width time.Duration
		want  time.Time
	}{
		{"exactly on boundary", day.Add(8 * time.Hour), HalfHour, day.Add(8 * time.Hour)},
		{"inside half hour bucket", day.Add(8*time.Hour + 29*time.Minute), HalfHour, day.Add(8 * time.Hour)},
		{"second half of hour", day.Add(8*time.Hour + 30*time.Minute), HalfHour, day.Add(8*time.Hour + 30*time.Minute)},
		{"hour bucket", day.Add(8*time.Hour + 59*time.Minute), Hour, day.Add(8 * time.Hour)},
		{"range start itself", day, HalfHour, day},
		{"last instant of day", day.Add(24*time.Hour - time.Second), HalfHour, day.Add(23*time.Hour + 30*time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := BucketStart(tt.ts, day, tt.width)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestBucketStartAnchoredToRangeStart(t *testing.T) {
	t.Parallel()

	// a range starting mid-day anchors buckets at the range start, not at
	// midnight or an epoch
	rangeStart := time.Date(2026, 6, 1, 6, 15, 0, 0, time.UTC)
	ts := rangeStart.Add(44 * time.Minute)

	got := BucketStart(ts, rangeStart, HalfHour)
	assert.True(t, got.Equal(rangeStart.Add(30*time.Minute)))
}

func TestBucketStartBeforeRangeStart(t *testing.T) {
	t.Parallel()

	rangeStart := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	ts := rangeStart.Add(-10 * time.Minute)

	// floor semantics hold even for timestamps before the anchor
	got := BucketStart(ts, rangeStart, HalfHour)
	assert.True(t, got.Equal(rangeStart.Add(-30*time.Minute)))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("valid date in location", func(t *testing.T) {
		t.Parallel()

		loc := time.FixedZone("EET", 2*3600)
		day, err := ParseDate("2026-09-01", loc)
		require.NoError(t, err)
		assert.True(t, day.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, loc)))
	})

	t.Run("malformed input fails fast", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "09/01/2026", "2026-13-01", "yesterday"} {
			_, err := ParseDate(input, time.UTC)
			require.Error(t, err, "input %q", input)
			assert.True(t, errors.Is(err, ErrInvalidDate))
		}
	})
}

func TestWeekStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		day  time.Time
		want time.Time
	}{
		{"monday maps to itself", time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
		{"wednesday maps to monday", time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
		{"sunday maps to preceding monday", time.Date(2026, 9, 6, 23, 0, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WeekStart(tt.day)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestMonthInterval(t *testing.T) {
	t.Parallel()

	t.Run("mid year", func(t *testing.T) {
		t.Parallel()
		start, end := MonthInterval(time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC))
		assert.True(t, start.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, end.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("december rolls into next year", func(t *testing.T) {
		t.Parallel()
		start, end := MonthInterval(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
		assert.True(t, start.Equal(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, end.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
}
