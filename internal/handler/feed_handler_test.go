package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdo-app/hebdo-api/internal/models"
	"github.com/hebdo-app/hebdo-api/internal/service"
	"github.com/hebdo-app/hebdo-api/pkg/config"
)

type planProviderMock struct{}

func (planProviderMock) GeneratePlan(ctx context.Context) (*models.WeeklyPlan, error) {
	start := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)
	return &models.WeeklyPlan{
		WeekStart: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		Timezone:  "UTC",
		Events: []models.ScheduledEvent{
			{ActivityID: "run", Name: "Running", Category: "sport", Start: start, End: start.Add(30 * time.Minute)},
		},
	}, nil
}

func (planProviderMock) NextWeekWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

func newFeedHandler(cfg config.FeedConfig) *FeedHandler {
	return NewFeedHandler(service.NewFeedService(planProviderMock{}, nil, nil, cfg, nil))
}

func TestFeedHandlerIssueToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newFeedHandler(config.FeedConfig{RequireToken: true, TokenSecret: "secret", TokenTTL: time.Hour})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/feed/token", nil)

	handler.IssueToken(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var envelope struct {
		Data models.FeedToken `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)
}

func TestFeedHandlerFeedRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newFeedHandler(config.FeedConfig{RequireToken: true, TokenSecret: "secret", TokenTTL: time.Hour})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/calendar/feed.ics", nil)

	handler.Feed(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedHandlerFeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newFeedHandler(config.FeedConfig{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/calendar/feed.ics", nil)

	handler.Feed(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Body.String(), "SUMMARY:Running")
}
