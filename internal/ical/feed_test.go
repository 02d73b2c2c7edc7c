package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

func TestFeedBuilderRender(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	plan := &models.WeeklyPlan{
		WeekStart: start.Truncate(24 * time.Hour),
		Timezone:  "UTC",
		Events: []models.ScheduledEvent{
			{ActivityID: "run", Name: "Running", Category: "sport", Start: start, End: start.Add(30 * time.Minute)},
			{ActivityID: "read", Name: "Reading", Category: "leisure", Start: start.Add(time.Hour), End: start.Add(90 * time.Minute)},
		},
	}

	builder := NewFeedBuilder()
	builder.now = func() time.Time { return time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC) }
	out := builder.Render(plan)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Running")
	assert.Contains(t, out, "SUMMARY:Reading")
	assert.Contains(t, out, "CATEGORIES:sport")
	assert.Contains(t, out, "UID:20250106T090000Z-Running@hebdo.app")
	assert.Contains(t, out, "DTSTART:20250106T090000Z")
}

func TestFeedBuilderStableUIDs(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	plan := &models.WeeklyPlan{
		Timezone: "UTC",
		Events: []models.ScheduledEvent{
			{ActivityID: "run", Name: "Running", Category: "sport", Start: start, End: start.Add(30 * time.Minute)},
		},
	}

	builder := NewFeedBuilder()
	first := builder.Render(plan)
	second := builder.Render(plan)

	uidLine := func(doc string) string {
		for _, line := range strings.Split(doc, "\r\n") {
			if strings.HasPrefix(line, "UID:") {
				return line
			}
		}
		return ""
	}
	require.NotEmpty(t, uidLine(first))
	assert.Equal(t, uidLine(first), uidLine(second))
}

func TestFeedBuilderEmptyPlan(t *testing.T) {
	out := NewFeedBuilder().Render(&models.WeeklyPlan{Timezone: "UTC"})
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
