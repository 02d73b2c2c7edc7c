package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hebdo-app/hebdo-api/internal/service"
	"github.com/hebdo-app/hebdo-api/pkg/response"
)

// SystemHandler exposes runtime statistics.
type SystemHandler struct {
	metrics *service.MetricsService
}

// NewSystemHandler constructs a system handler.
func NewSystemHandler(metrics *service.MetricsService) *SystemHandler {
	return &SystemHandler{metrics: metrics}
}

// Stats godoc
// @Summary Runtime system statistics
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /system/stats [get]
func (h *SystemHandler) Stats(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
