package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

func exportTestPlan() *models.WeeklyPlan {
	start := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)
	return &models.WeeklyPlan{
		WeekStart: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		Timezone:  "UTC",
		Events: []models.ScheduledEvent{
			{ActivityID: "run", Name: "Running", Category: "sport", Start: start, End: start.Add(30 * time.Minute)},
			{ActivityID: "read", Name: "Reading", Category: "leisure", Start: start.Add(time.Hour), End: start.Add(90 * time.Minute)},
		},
		Shortfalls: []models.Shortfall{
			{ActivityID: "fr", Name: "French", MinutesMissing: 60, SlotsMissing: 2},
		},
	}
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(&planProviderStub{plan: exportTestPlan()}, nil, nil, nil)

	payload, filename, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "weekly-plan-2025-01-13.csv", filename)

	content := string(payload)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Day")
	assert.Contains(t, lines[1], "Running")
	assert.Contains(t, lines[1], "09:00")
	assert.Contains(t, lines[2], "Reading")
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(&planProviderStub{plan: exportTestPlan()}, nil, nil, nil)

	payload, filename, err := svc.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "weekly-plan-2025-01-13.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportServicePlanError(t *testing.T) {
	svc := NewExportService(&planProviderStub{err: errors.New("boom")}, nil, nil, nil)

	_, _, err := svc.ExportCSV(context.Background())
	require.Error(t, err)
	_, _, err = svc.ExportPDF(context.Background())
	require.Error(t, err)
}
