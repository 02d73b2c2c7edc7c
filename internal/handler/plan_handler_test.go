package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/models"
	"github.com/hebdo-app/hebdo-api/internal/scheduler"
	"github.com/hebdo-app/hebdo-api/internal/service"
)

type planRepoMock struct {
	activities []models.Activity
}

func (m *planRepoMock) ListAll(ctx context.Context) ([]models.Activity, error) {
	return m.activities, nil
}

type fetcherMock struct{}

func (fetcherMock) FetchBusy(ctx context.Context, url string, windowStart, windowEnd time.Time, loc *time.Location) ([]models.BusyInterval, error) {
	return nil, nil
}

func newPlanServices() (*service.PlanService, *service.ExportService) {
	p := scheduler.DefaultPolicy()
	p.Timezone = "UTC"
	engine := scheduler.NewEngine(p, zap.NewNop())
	repo := &planRepoMock{activities: []models.Activity{
		{ID: "run", Name: "Running", WeeklyMinutes: 60, Category: "sport"},
	}}
	plans := service.NewPlanService(repo, fetcherMock{}, engine, nil, nil, nil, 0, nil)
	exports := service.NewExportService(plans, nil, nil, nil)
	return plans, exports
}

func TestPlanHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	plans, exports := newPlanServices()
	handler := NewPlanHandler(plans, exports)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/plan", nil)

	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.WeeklyPlan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Events, 2)
	assert.Equal(t, time.Monday, envelope.Data.WeekStart.Weekday())
}

func TestPlanHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	plans, exports := newPlanServices()
	handler := NewPlanHandler(plans, exports)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/plan/export?format=csv", nil)

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "weekly-plan-")
	assert.Contains(t, w.Body.String(), "Running")
}

func TestPlanHandlerExportPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	plans, exports := newPlanServices()
	handler := NewPlanHandler(plans, exports)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/plan/export?format=pdf", nil)

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestPlanHandlerExportUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	plans, exports := newPlanServices()
	handler := NewPlanHandler(plans, exports)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/plan/export?format=xml", nil)

	handler.Export(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
