package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/VrityaCodeRishi/order-exporter/internal/api/handler"
	"github.com/VrityaCodeRishi/order-exporter/internal/api/metrics"
	"github.com/VrityaCodeRishi/order-exporter/internal/api/middleware"
	"github.com/VrityaCodeRishi/order-exporter/internal/core/ports"
)

// Paths served by the router.
const (
	PathMetrics         = "/metrics"
	PathCustomMetrics   = "/custom_metrics"
	PathHealth          = "/health"
	PathReady           = "/health/ready"
	PathInternalMetrics = "/internal/metrics"
)

// Deps are the shared structures the HTTP layer reads from. Handlers never
// write to them.
type Deps struct {
	Metrics   ports.MetricsRenderer
	Snapshots ports.SnapshotReader
	Self      *metrics.SelfMetrics
	Readiness *handler.ReadinessHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log, PathMetrics, PathInternalMetrics, PathHealth, PathReady))

	// --- Read-only views of the sampler's state ---
	metricsHandler := handler.NewMetricsHandler(deps.Metrics)
	snapshotHandler := handler.NewSnapshotHandler(deps.Snapshots)

	e.GET(PathMetrics, metricsHandler.Scrape)
	e.GET(PathCustomMetrics, snapshotHandler.Latest)
	e.GET(PathInternalMetrics, echo.WrapHandler(deps.Self.Handler()))

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()

	e.GET(PathHealth, healthHandler.Liveness)  // liveness: is the process alive?
	e.GET(PathReady, deps.Readiness.Readiness) // readiness: is the sampler producing?

	return e
}
