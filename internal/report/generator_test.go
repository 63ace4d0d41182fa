// generator_test.go: Tests for end to end report generation against an
// in-memory event store and an in-memory sink.
package report

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dovewatch/dovewatch-go/internal/datastore"
)

// memSink captures generated reports in memory.
type memSink struct {
	mu    sync.Mutex
	files map[string]*bytes.Buffer
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (s *memSink) Create(name string) (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string]*bytes.Buffer)
	}
	buf := &bytes.Buffer{}
	s.files[name] = buf
	return nopWriteCloser{buf}, nil
}

func (s *memSink) content(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if buf, ok := s.files[name]; ok {
		return buf.String()
	}
	return ""
}

// testStore wraps a gorm-backed DataStore with no-op open/close.
type testStore struct {
	datastore.DataStore
}

func (s *testStore) Open() error  { return nil }
func (s *testStore) Close() error { return nil }

func setupStore(t *testing.T) *testStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&datastore.Event{}))

	return &testStore{datastore.DataStore{DB: db}}
}

func seedEvents(t *testing.T, ds *testStore, timestamps ...time.Time) {
	t.Helper()
	for _, ts := range timestamps {
		event := datastore.Event{Timestamp: ts, Species: "Spotted Dove", Confidence: 0.9}
		require.NoError(t, ds.Save(t.Context(), &event))
	}
}

func TestGeneratorDaily(t *testing.T) {
	t.Parallel()

	ds := setupStore(t)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	seedEvents(t, ds,
		day.Add(8*time.Hour+5*time.Minute),
		day.Add(8*time.Hour+20*time.Minute),
		day.Add(9*time.Hour+40*time.Minute),
		day.AddDate(0, 0, 1).Add(time.Hour), // next day, excluded
	)

	sink := &memSink{}
	g := New(ds, sink, time.UTC)

	name, err := g.Daily(t.Context(), day.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "daily_20260601.md", name)

	doc := sink.content(name)
	assert.Contains(t, doc, "# Dove Call Report - 2026-06-01")
	assert.Contains(t, doc, "- **Total calls**: 3")
	assert.Contains(t, doc, "- **Busiest window**: 08:00 - 09:00")
}

func TestGeneratorWeekly(t *testing.T) {
	t.Parallel()

	ds := setupStore(t)
	// Monday of the week containing Wednesday 2026-09-02
	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	seedEvents(t, ds,
		weekStart.Add(6*time.Hour),
		weekStart.AddDate(0, 0, 6).Add(18*time.Hour),
	)

	sink := &memSink{}
	g := New(ds, sink, time.UTC)

	name, err := g.Weekly(t.Context(), time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "weekly_20260831.md", name)

	doc := sink.content(name)
	assert.Contains(t, doc, "- **Total calls**: 2")
	assert.Contains(t, doc, "| 2026-08-31 | 1 |")
	assert.Contains(t, doc, "| 2026-09-06 | 1 |")
}

func TestGeneratorMonthlyEmpty(t *testing.T) {
	t.Parallel()

	ds := setupStore(t)
	sink := &memSink{}
	g := New(ds, sink, time.UTC)

	name, err := g.Monthly(t.Context(), time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "monthly_202609.md", name)
	assert.Contains(t, sink.content(name), "No calls were recorded this month.")
}
