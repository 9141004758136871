package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/ports"
)

// MetricsHandler serves the order metrics in the text exposition format.
type MetricsHandler struct {
	renderer ports.MetricsRenderer
}

func NewMetricsHandler(renderer ports.MetricsRenderer) *MetricsHandler {
	return &MetricsHandler{renderer: renderer}
}

// Scrape handles GET /metrics.
//
// @Summary  Prometheus scrape endpoint
// @Tags     metrics
// @Produce  plain
// @Success  200
// @Router   /metrics [get]
func (h *MetricsHandler) Scrape(c echo.Context) error {
	body, err := h.renderer.Render()
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	return c.Blob(http.StatusOK, h.renderer.ContentType(), body)
}
