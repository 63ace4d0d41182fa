// datastore_test.go: Tests for event store operations
package datastore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dovewatch/dovewatch-go/internal/errors"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DataStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&Event{})
	require.NoError(t, err)

	return &DataStore{DB: db}
}

func TestSaveNormalizesToUTC(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	loc := time.FixedZone("EET", 2*3600)
	local := time.Date(2026, 6, 1, 10, 30, 0, 0, loc)

	event := Event{Timestamp: local, Species: "Spotted Dove", Confidence: 0.92}
	require.NoError(t, ds.Save(t.Context(), &event))
	assert.NotZero(t, event.ID)

	stored, err := ds.Get(t.Context(), event.ID)
	require.NoError(t, err)

	// same instant, canonical UTC representation
	assert.True(t, stored.Timestamp.Equal(local))
	assert.Equal(t, time.UTC, event.Timestamp.Location())
}

func TestGetEventsInRangeHalfOpen(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	timestamps := []time.Time{
		day,                        // at range start: included
		day.Add(12 * time.Hour),    // inside: included
		nextDay.Add(-time.Second),  // last second: included
		nextDay,                    // at range end: excluded
		day.Add(-time.Millisecond), // before range: excluded
	}
	for _, ts := range timestamps {
		event := Event{Timestamp: ts, Species: "Spotted Dove"}
		require.NoError(t, ds.Save(t.Context(), &event))
	}

	events, err := ds.GetEventsInRange(t.Context(), day, nextDay)
	require.NoError(t, err)
	assert.Len(t, events, 3)
	for i := range events {
		assert.False(t, events[i].Timestamp.Before(day))
		assert.True(t, events[i].Timestamp.Before(nextDay))
	}
}

func TestGetDailyCounts(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	day1 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	for _, ts := range []time.Time{
		day1.Add(8 * time.Hour),
		day1.Add(9 * time.Hour),
		day2.Add(7 * time.Hour),
	} {
		event := Event{Timestamp: ts, Species: "Spotted Dove"}
		require.NoError(t, ds.Save(t.Context(), &event))
	}

	counts, err := ds.GetDailyCounts(t.Context(), day1, day2.AddDate(0, 0, 1))
	require.NoError(t, err)

	// June 2nd has no events and is absent, not zero-filled
	require.Len(t, counts, 2)
	assert.Equal(t, DailyCount{Date: "2026-06-01", Count: 2}, counts[0])
	assert.Equal(t, DailyCount{Date: "2026-06-03", Count: 1}, counts[1])
}

func TestCountEvents(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	count, err := ds.CountEvents(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count)

	event := Event{Timestamp: time.Now(), Species: "Spotted Dove"}
	require.NoError(t, ds.Save(t.Context(), &event))

	count, err = ds.CountEvents(t.Context())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	_, err := ds.Get(t.Context(), 42)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.CategoryOf(err))
}

func TestStoreUnavailable(t *testing.T) {
	t.Parallel()
	ds := &DataStore{}

	event := Event{Timestamp: time.Now()}
	assert.True(t, errors.Is(ds.Save(t.Context(), &event), ErrStoreUnavailable))

	_, err := ds.GetEventsInRange(t.Context(), time.Now(), time.Now().Add(time.Hour))
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}
