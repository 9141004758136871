package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/ports"
)

// SnapshotHandler serves the JSON mirror of the latest sample.
type SnapshotHandler struct {
	snapshots ports.SnapshotReader
}

func NewSnapshotHandler(snapshots ports.SnapshotReader) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// Latest handles GET /custom_metrics. The copy is taken before encoding, so
// the store's lock is never held during I/O.
//
// @Summary  Latest synthetic order snapshot
// @Tags     metrics
// @Produce  json
// @Success  200  {object}  domain.Snapshot
// @Router   /custom_metrics [get]
func (h *SnapshotHandler) Latest(c echo.Context) error {
	snap := h.snapshots.Get()
	return c.JSON(http.StatusOK, snap)
}
