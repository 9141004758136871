package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/domain"
	"github.com/VrityaCodeRishi/order-exporter/internal/core/ports"
)

// Component is reported by the health probes.
const Component = "order-exporter"

type healthResponse struct {
	Status     string `json:"status"`
	Component  string `json:"component"`
	LastSample string `json:"last_sample,omitempty"`
	Error      string `json:"error,omitempty"`
}

// HealthHandler handles GET /health, the liveness probe.
// Always 200 while the process can serve requests; it does not look at the
// sampler.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  healthResponse
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Component: Component,
	})
}

// ReadinessHandler handles GET /health/ready. It reports degraded until the
// sampler has written a snapshot, and again once that snapshot is older
// than staleAfter.
type ReadinessHandler struct {
	snapshots  ports.SnapshotReader
	staleAfter time.Duration
	now        func() time.Time
}

func NewReadinessHandler(snapshots ports.SnapshotReader, staleAfter time.Duration) *ReadinessHandler {
	return &ReadinessHandler{
		snapshots:  snapshots,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Readiness
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  healthResponse
// @Failure  503  {object}  healthResponse
// @Router   /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	last := h.snapshots.LastUpdated()
	if err := h.check(last); err != nil {
		resp := healthResponse{Status: "degraded", Component: Component, Error: err.Error()}
		if !last.IsZero() {
			resp.LastSample = domain.FormatTimestamp(last)
		}
		return c.JSON(http.StatusServiceUnavailable, resp)
	}

	return c.JSON(http.StatusOK, healthResponse{
		Status:     "ok",
		Component:  Component,
		LastSample: domain.FormatTimestamp(last),
	})
}

func (h *ReadinessHandler) check(last time.Time) error {
	if last.IsZero() {
		return domain.ErrNoSample
	}
	if h.now().Sub(last) > h.staleAfter {
		return domain.ErrStaleSample
	}
	return nil
}
