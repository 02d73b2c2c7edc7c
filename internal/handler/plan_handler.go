package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hebdo-app/hebdo-api/internal/service"
	appErrors "github.com/hebdo-app/hebdo-api/pkg/errors"
	"github.com/hebdo-app/hebdo-api/pkg/response"
)

// PlanHandler handles weekly plan endpoints.
type PlanHandler struct {
	plans   *service.PlanService
	exports *service.ExportService
}

// NewPlanHandler constructs a plan handler.
func NewPlanHandler(plans *service.PlanService, exports *service.ExportService) *PlanHandler {
	return &PlanHandler{plans: plans, exports: exports}
}

// Get godoc
// @Summary Generate the plan for the upcoming week
// @Tags Plan
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /plan [get]
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.plans.GeneratePlan(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Export godoc
// @Summary Download the upcoming week's plan as CSV or PDF
// @Tags Plan
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {file} file
// @Router /plan/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))

	var (
		payload     []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		payload, filename, err = h.exports.ExportCSV(c.Request.Context())
		contentType = "text/csv"
	case "pdf":
		payload, filename, err = h.exports.ExportPDF(c.Request.Context())
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
