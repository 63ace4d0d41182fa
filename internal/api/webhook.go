// webhook.go: ingest endpoint for remote detectors (Home Assistant / ESP32).
package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dovewatch/dovewatch-go/internal/datastore"
)

// webhookEventType is the only event type accepted by the ingest endpoint.
const webhookEventType = "dove_detected"

// WebhookDetection is the payload posted by remote detectors.
type WebhookDetection struct {
	EventType  string  `json:"event_type"`
	DeviceID   string  `json:"device_id"`
	Species    string  `json:"species"`
	Confidence float64 `json:"confidence"`
	// Timestamp is optional RFC 3339; server receive time is used when absent.
	Timestamp string `json:"timestamp,omitempty"`
}

// WebhookResponse acknowledges an accepted detection.
type WebhookResponse struct {
	Success bool   `json:"success"`
	ID      uint   `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c *Controller) initWebhookRoutes() {
	c.Group.POST("/webhook/detections", c.IngestDetection)
}

// IngestDetection handles POST /api/v1/webhook/detections
func (c *Controller) IngestDetection(ctx echo.Context) error {
	requestID := uuid.NewString()

	var payload WebhookDetection
	if err := ctx.Bind(&payload); err != nil {
		c.countDropped("invalid")
		return ctx.JSON(http.StatusBadRequest, WebhookResponse{Error: "malformed payload"})
	}

	if payload.EventType != webhookEventType {
		c.countDropped("invalid")
		return ctx.JSON(http.StatusBadRequest, WebhookResponse{Error: "invalid event type"})
	}

	timestamp := time.Now()
	if payload.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, payload.Timestamp)
		if err != nil {
			c.countDropped("invalid")
			return ctx.JSON(http.StatusBadRequest, WebhookResponse{Error: "invalid timestamp, expected RFC 3339"})
		}
		timestamp = parsed
	}

	sourceNode := payload.DeviceID
	if sourceNode == "" {
		sourceNode = "unknown"
	}
	species := payload.Species
	if species == "" {
		species = c.Settings.Listener.Species
	}

	event := datastore.Event{
		Timestamp:  timestamp,
		Species:    species,
		Confidence: payload.Confidence,
		SourceNode: sourceNode,
	}

	if err := c.DS.Save(ctx.Request().Context(), &event); err != nil {
		return c.HandleError(ctx, err, "Failed to store detection", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.DetectionsTotal.WithLabelValues("webhook").Inc()
	}
	c.apiLogger.Info("webhook detection accepted",
		"request_id", requestID,
		"device", sourceNode,
		"species", event.Species,
		"confidence", event.Confidence)

	return ctx.JSON(http.StatusCreated, WebhookResponse{Success: true, ID: event.ID})
}

func (c *Controller) countDropped(reason string) {
	if c.metrics != nil {
		c.metrics.DetectionsDropped.WithLabelValues(reason).Inc()
	}
}
