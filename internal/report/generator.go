package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dovewatch/dovewatch-go/internal/analytics"
	"github.com/dovewatch/dovewatch-go/internal/datastore"
	"github.com/dovewatch/dovewatch-go/internal/errors"
	"github.com/dovewatch/dovewatch-go/internal/logging"
)

// Sink abstracts the output medium for generated reports so the generator
// never writes files directly.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes reports into a directory on the local filesystem.
type DirSink struct {
	Dir string
}

// Create opens name under the sink directory for writing, creating the
// directory if needed.
func (s *DirSink) Create(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", s.Dir, err)
	}
	return os.Create(filepath.Join(s.Dir, name))
}

// Generator reads events from the store, aggregates them and writes report
// documents to a sink.
type Generator struct {
	ds   datastore.Interface
	sink Sink
	loc  *time.Location
	log  *slog.Logger
}

// New creates a report generator. A nil location defaults to the host's
// local timezone.
func New(ds datastore.Interface, sink Sink, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	log := logging.ForService("report")
	if log == nil {
		log = slog.Default().With("service", "report")
	}
	return &Generator{ds: ds, sink: sink, loc: loc, log: log}
}

// Daily generates the daily report for the calendar day containing ref.
// The offline daily report buckets by hour. Returns the report file name.
func (g *Generator) Daily(ctx context.Context, ref time.Time) (string, error) {
	day := analytics.DayStart(ref.In(g.loc))
	end := day.AddDate(0, 0, 1)

	events, err := g.ds.GetEventsInRange(ctx, day, end)
	if err != nil {
		return "", err
	}

	summary, err := analytics.SummarizeDay(events, day, analytics.Hour)
	if err != nil {
		return "", err
	}

	return g.write(reportFileName("daily", day), ComposeDaily(&summary))
}

// Weekly generates the report for the Monday-anchored week containing ref.
func (g *Generator) Weekly(ctx context.Context, ref time.Time) (string, error) {
	weekStart := analytics.WeekStart(ref.In(g.loc))
	weekEnd := weekStart.AddDate(0, 0, 7)

	summary, err := g.summarizeRange(ctx, weekStart, weekEnd, analytics.GranularityWeekly)
	if err != nil {
		return "", err
	}

	return g.write(reportFileName("weekly", weekStart), ComposeWeekly(summary))
}

// Monthly generates the report for the calendar month containing ref.
func (g *Generator) Monthly(ctx context.Context, ref time.Time) (string, error) {
	monthStart, monthEnd := analytics.MonthInterval(ref.In(g.loc))

	summary, err := g.summarizeRange(ctx, monthStart, monthEnd, analytics.GranularityMonthly)
	if err != nil {
		return "", err
	}

	return g.write(reportFileName("monthly", monthStart), ComposeMonthly(summary))
}

func (g *Generator) summarizeRange(ctx context.Context, start, end time.Time, granularity analytics.Granularity) (*analytics.RangeSummary, error) {
	events, err := g.ds.GetEventsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary, err := analytics.SummarizeRange(events, start, end, granularity)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// write renders lines into the sink under name.
func (g *Generator) write(name string, lines []string) (string, error) {
	w, err := g.sink.Create(name)
	if err != nil {
		return "", errors.New(err).
			Component("report").
			Category(errors.CategoryFileIO).
			Context("report", name).
			Build()
	}

	_, writeErr := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	closeErr := w.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return "", errors.New(writeErr).
			Component("report").
			Category(errors.CategoryReport).
			Context("report", name).
			Build()
	}

	g.log.Info("report generated", "report", name)
	return name, nil
}
