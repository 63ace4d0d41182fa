// api.go: HTTP API for events, live statistics and webhook ingest.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/dovewatch/dovewatch-go/internal/conf"
	"github.com/dovewatch/dovewatch-go/internal/datastore"
	"github.com/dovewatch/dovewatch-go/internal/errors"
	"github.com/dovewatch/dovewatch-go/internal/logging"
	"github.com/dovewatch/dovewatch-go/internal/observability"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings

	loc        *time.Location
	statsCache *cache.Cache // short TTL cache for stats queries, nil when disabled
	metrics    *observability.Metrics
	apiLogger  *slog.Logger
}

// New creates the API controller and registers all routes.
func New(settings *conf.Settings, ds datastore.Interface, metrics *observability.Metrics) (*Controller, error) {
	loc, err := settings.TimeLocation()
	if err != nil {
		return nil, errors.New(err).
			Component("api").
			Category(errors.CategoryConfiguration).
			Build()
	}

	apiLogger := logging.ForService("api")
	if apiLogger == nil {
		apiLogger = slog.Default().With("service", "api")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			apiLogger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status)
			return nil
		},
	}))

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		loc:       loc,
		metrics:   metrics,
		apiLogger: apiLogger,
	}

	if settings.WebServer.Cache.Enabled {
		ttl := time.Duration(settings.WebServer.Cache.TTL) * time.Second
		c.statsCache = cache.New(ttl, 2*ttl)
	}

	if metrics != nil {
		e.Use(c.metricsMiddleware)
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}
	e.GET("/healthz", c.HealthCheck)

	c.Group = e.Group("/api/v1")
	c.initEventRoutes()
	c.initStatsRoutes()
	c.initWebhookRoutes()

	return c, nil
}

// Start runs the HTTP server on the configured port. Blocks until shutdown.
func (c *Controller) Start() error {
	return c.Echo.Start(":" + c.Settings.WebServer.Port)
}

// Shutdown stops the HTTP server gracefully.
func (c *Controller) Shutdown(ctx context.Context) error {
	return c.Echo.Shutdown(ctx)
}

// HealthCheck reports service liveness.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// metricsMiddleware records request duration by route and status.
func (c *Controller) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		route := ctx.Path()
		status := ctx.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		c.metrics.HTTPRequestDuration.
			WithLabelValues(route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// HandleError maps application errors onto HTTP responses and logs them with
// their component and category attributes.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, defaultStatus int) error {
	status := defaultStatus

	switch errors.CategoryOf(err) {
	case errors.CategoryValidation, errors.CategoryTimeRange:
		status = http.StatusBadRequest
	case errors.CategoryNotFound:
		status = http.StatusNotFound
	}
	if errors.Is(err, datastore.ErrStoreUnavailable) {
		status = http.StatusServiceUnavailable
	}

	attrs := []any{"error", err.Error(), "status", status, "path", ctx.Request().URL.Path}
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		attrs = append(attrs, ee.LogAttrs()...)
	}
	c.apiLogger.Error(message, attrs...)

	return ctx.JSON(status, map[string]string{"error": message})
}
