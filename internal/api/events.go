// events.go: detection event listing endpoints.
package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dovewatch/dovewatch-go/internal/analytics"
	"github.com/dovewatch/dovewatch-go/internal/datastore"
)

// EventResponse is one detection event in API responses.
type EventResponse struct {
	ID         uint    `json:"id"`
	Timestamp  string  `json:"timestamp"`
	Species    string  `json:"species"`
	Confidence float64 `json:"confidence"`
	ClipName   string  `json:"clip_name,omitempty"`
	SourceNode string  `json:"source_node,omitempty"`
}

func (c *Controller) initEventRoutes() {
	c.Group.GET("/events", c.ListEvents)
}

// ListEvents handles GET /api/v1/events?date=YYYY-MM-DD
// Without a date parameter it returns the current day's events.
func (c *Controller) ListEvents(ctx echo.Context) error {
	var day time.Time
	if dateParam := ctx.QueryParam("date"); dateParam != "" {
		parsed, err := analytics.ParseDate(dateParam, c.loc)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		}
		day = parsed
	} else {
		day = analytics.DayStart(time.Now().In(c.loc))
	}

	events, err := c.DS.GetEventsInRange(ctx.Request().Context(), day, day.AddDate(0, 0, 1))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to query events", http.StatusInternalServerError)
	}

	// store gives no ordering guarantee
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	response := make([]EventResponse, 0, len(events))
	for i := range events {
		response = append(response, eventResponse(&events[i], c.loc))
	}
	return ctx.JSON(http.StatusOK, response)
}

func eventResponse(event *datastore.Event, loc *time.Location) EventResponse {
	return EventResponse{
		ID:         event.ID,
		Timestamp:  event.Timestamp.In(loc).Format(time.RFC3339),
		Species:    event.Species,
		Confidence: event.Confidence,
		ClipName:   event.ClipName,
		SourceNode: event.SourceNode,
	}
}
