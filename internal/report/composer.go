// Package report turns aggregation summaries into markdown report documents
// and chart-ready series. It never recomputes aggregation and never reads the
// event store for summary content.
package report

import (
	"fmt"
	"time"

	"github.com/dovewatch/dovewatch-go/internal/analytics"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
	hourLayout = "15:04"
)

// ChartSeries holds label/value pairs for whatever renderer the caller
// supplies. Chart rendering itself is out of scope for this package.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// DailyChart derives a chart series from the non-empty buckets of a daily
// summary, labeled by bucket start time.
func DailyChart(s *analytics.DailySummary) ChartSeries {
	series := ChartSeries{
		Labels: make([]string, 0, len(s.Buckets)),
		Values: make([]int, 0, len(s.Buckets)),
	}
	for _, bucket := range s.Buckets {
		series.Labels = append(series.Labels, bucket.Start.Format(hourLayout))
		series.Values = append(series.Values, bucket.Count)
	}
	return series
}

// RangeChart derives a chart series from the per-day counts of a range
// summary, in ascending date order.
func RangeChart(s *analytics.RangeSummary) ChartSeries {
	days := s.SortedDays()
	series := ChartSeries{
		Labels: make([]string, 0, len(days)),
		Values: make([]int, 0, len(days)),
	}
	for _, day := range days {
		series.Labels = append(series.Labels, day)
		series.Values = append(series.Values, s.PerDay[day])
	}
	return series
}

// ComposeDaily renders a daily summary into markdown lines.
func ComposeDaily(s *analytics.DailySummary) []string {
	lines := []string{
		fmt.Sprintf("# Dove Call Report - %s", s.Date.Format(dateLayout)),
		"",
		"## Overview",
		fmt.Sprintf("- **Total calls**: %d", s.TotalCalls),
	}

	if s.FirstCall != nil {
		lines = append(lines,
			fmt.Sprintf("- **First call**: %s", s.FirstCall.Format(timeLayout)),
			fmt.Sprintf("- **Last call**: %s", s.LastCall.Format(timeLayout)),
		)
	} else {
		lines = append(lines, "- **No calls recorded on this day**")
	}

	if s.Peak != nil {
		lines = append(lines,
			"",
			"## Peak activity",
			fmt.Sprintf("- **Busiest window**: %s - %s", s.Peak.Start.Format(hourLayout), s.Peak.End.Format(hourLayout)),
			fmt.Sprintf("- **Calls in window**: %d", s.Peak.Count),
		)
	}

	return lines
}

// ComposeWeekly renders a weekly range summary into markdown lines.
func ComposeWeekly(s *analytics.RangeSummary) []string {
	title := fmt.Sprintf("# Weekly Dove Call Report - %s to %s",
		s.RangeStart.Format(dateLayout), s.RangeEnd.Format(dateLayout))

	if s.TotalCalls == 0 {
		return []string{title, "", "No calls were recorded this week."}
	}

	lines := []string{
		title,
		"",
		"## Overview",
		fmt.Sprintf("- **Total calls**: %d", s.TotalCalls),
		fmt.Sprintf("- **Average per day**: %.1f", s.AveragePerDay),
		"",
		"## Daily counts",
		"| Date | Calls |",
		"|------|-------|",
	}
	for _, day := range s.SortedDays() {
		lines = append(lines, fmt.Sprintf("| %s | %d |", day, s.PerDay[day]))
	}

	return lines
}

// ComposeMonthly renders a monthly range summary into markdown lines.
func ComposeMonthly(s *analytics.RangeSummary) []string {
	title := fmt.Sprintf("# Monthly Dove Call Report - %s", s.RangeStart.Format("2006-01"))

	if s.TotalCalls == 0 {
		return []string{title, "", "No calls were recorded this month."}
	}

	lines := []string{
		title,
		"",
		"## Overview",
		fmt.Sprintf("- **Total calls**: %d", s.TotalCalls),
		fmt.Sprintf("- **Average per day**: %.1f", s.AveragePerDay),
		fmt.Sprintf("- **Average per week**: %.1f", s.AveragePerWeek),
		"",
		"## Weekly counts",
		"| Week | Calls |",
		"|------|-------|",
	}
	for _, week := range s.SortedWeeks() {
		lines = append(lines, fmt.Sprintf("| %s | %d |", week, s.PerWeek[week]))
	}

	lines = append(lines,
		"",
		"## Daily counts",
		"| Date | Calls |",
		"|------|-------|",
	)
	for _, day := range s.SortedDays() {
		lines = append(lines, fmt.Sprintf("| %s | %d |", day, s.PerDay[day]))
	}

	return lines
}

// reportFileName builds the output file name for a report type and its
// reference time.
func reportFileName(reportType string, ref time.Time) string {
	switch reportType {
	case "monthly":
		return fmt.Sprintf("monthly_%s.md", ref.Format("200601"))
	default:
		return fmt.Sprintf("%s_%s.md", reportType, ref.Format("20060102"))
	}
}
