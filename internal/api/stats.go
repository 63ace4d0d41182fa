// stats.go: live statistics endpoints backed by the analytics aggregator.
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dovewatch/dovewatch-go/internal/analytics"
)

const dateLayout = "2006-01-02"

// StatsBin is one non-empty time bucket in the daily stats payload.
type StatsBin struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Count int    `json:"count"`
}

// DailyStatsResponse preserves the payload shape of the original live stats
// endpoint: nullable first call and peak fields, non-empty bins only.
type DailyStatsResponse struct {
	Date          string     `json:"date"`
	TotalCalls    int        `json:"total_calls"`
	FirstCallTime *string    `json:"first_call_time"`
	PeakStart     *string    `json:"peak_start"`
	PeakEnd       *string    `json:"peak_end"`
	PeakCount     int        `json:"peak_count"`
	Bins          []StatsBin `json:"bins"`
}

// RangeStatsResponse is the payload for multi-day summaries.
type RangeStatsResponse struct {
	RangeStart     string         `json:"range_start"`
	RangeEnd       string         `json:"range_end"`
	Granularity    string         `json:"granularity"`
	TotalCalls     int            `json:"total_calls"`
	AveragePerDay  float64        `json:"average_per_day"`
	AveragePerWeek float64        `json:"average_per_week,omitempty"`
	PerDayCounts   map[string]int `json:"per_day_counts"`
	PerWeekCounts  map[string]int `json:"per_week_counts,omitempty"`
}

// initStatsRoutes registers the statistics endpoints. Static routes are
// registered before the :date parameter route.
func (c *Controller) initStatsRoutes() {
	statsGroup := c.Group.Group("/stats")
	statsGroup.GET("/today", c.GetTodayStats)
	statsGroup.GET("/range", c.GetRangeStats)
	statsGroup.GET("/:date", c.GetDailyStats)

	c.Group.GET("/trends", c.GetTrends)
}

// GetTodayStats handles GET /api/v1/stats/today
func (c *Controller) GetTodayStats(ctx echo.Context) error {
	day := analytics.DayStart(time.Now().In(c.loc))
	return c.respondDailyStats(ctx, day)
}

// GetDailyStats handles GET /api/v1/stats/:date
func (c *Controller) GetDailyStats(ctx echo.Context) error {
	day, err := analytics.ParseDate(ctx.Param("date"), c.loc)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
	}
	return c.respondDailyStats(ctx, day)
}

// respondDailyStats aggregates one day with the live half-hour buckets and
// writes the compatibility payload.
func (c *Controller) respondDailyStats(ctx echo.Context, day time.Time) error {
	cacheKey := "stats:daily:" + day.Format(dateLayout)
	if c.statsCache != nil {
		if cached, found := c.statsCache.Get(cacheKey); found {
			return ctx.JSON(http.StatusOK, cached)
		}
	}

	events, err := c.DS.GetEventsInRange(ctx.Request().Context(), day, day.AddDate(0, 0, 1))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to query events", http.StatusInternalServerError)
	}

	summary, err := analytics.SummarizeDay(events, day, analytics.HalfHour)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to summarize day", http.StatusInternalServerError)
	}

	response := dailyStatsResponse(&summary)
	if c.statsCache != nil {
		c.statsCache.SetDefault(cacheKey, response)
	}
	return ctx.JSON(http.StatusOK, response)
}

// dailyStatsResponse maps a DailySummary onto the external payload shape.
func dailyStatsResponse(summary *analytics.DailySummary) *DailyStatsResponse {
	response := &DailyStatsResponse{
		Date:       summary.Date.Format(dateLayout),
		TotalCalls: summary.TotalCalls,
		Bins:       make([]StatsBin, 0, len(summary.Buckets)),
	}

	if summary.FirstCall != nil {
		first := summary.FirstCall.Format(time.RFC3339)
		response.FirstCallTime = &first
	}
	if summary.Peak != nil {
		peakStart := summary.Peak.Start.Format(time.RFC3339)
		peakEnd := summary.Peak.End.Format(time.RFC3339)
		response.PeakStart = &peakStart
		response.PeakEnd = &peakEnd
		response.PeakCount = summary.Peak.Count
	}

	for _, bucket := range summary.Buckets {
		response.Bins = append(response.Bins, StatsBin{
			Start: bucket.Start.Format(time.RFC3339),
			End:   bucket.End.Format(time.RFC3339),
			Count: bucket.Count,
		})
	}

	return response
}

// GetRangeStats handles GET /api/v1/stats/range?start=&end=&granularity=
// The end date is exclusive, consistent with the aggregator's half-open
// interval semantics.
func (c *Controller) GetRangeStats(ctx echo.Context) error {
	start, err := analytics.ParseDate(ctx.QueryParam("start"), c.loc)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid start date, expected YYYY-MM-DD", http.StatusBadRequest)
	}
	end, err := analytics.ParseDate(ctx.QueryParam("end"), c.loc)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid end date, expected YYYY-MM-DD", http.StatusBadRequest)
	}

	granularity := analytics.Granularity(ctx.QueryParam("granularity"))
	if granularity == "" {
		granularity = analytics.GranularityDaily
	}

	events, err := c.DS.GetEventsInRange(ctx.Request().Context(), start, end)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to query events", http.StatusInternalServerError)
	}

	summary, err := analytics.SummarizeRange(events, start, end, granularity)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid range query", http.StatusBadRequest)
	}

	response := RangeStatsResponse{
		RangeStart:    summary.RangeStart.Format(dateLayout),
		RangeEnd:      summary.RangeEnd.Format(dateLayout),
		Granularity:   string(summary.Granularity),
		TotalCalls:    summary.TotalCalls,
		AveragePerDay: summary.AveragePerDay,
		PerDayCounts:  summary.PerDay,
	}
	if summary.Granularity == analytics.GranularityMonthly {
		response.AveragePerWeek = summary.AveragePerWeek
		response.PerWeekCounts = summary.PerWeek
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetTrends handles GET /api/v1/trends?period=week|month|year using SQL-side
// daily counts.
func (c *Controller) GetTrends(ctx echo.Context) error {
	var days int
	switch ctx.QueryParam("period") {
	case "week":
		days = 7
	case "month", "":
		days = 30
	case "year":
		days = 365
	default:
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "period must be week, month or year"})
	}

	end := analytics.DayStart(time.Now().In(c.loc)).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)

	counts, err := c.DS.GetDailyCounts(ctx.Request().Context(), start, end)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to query daily counts", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, counts)
}
