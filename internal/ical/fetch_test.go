package ical

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

func icsBody(lines ...string) string {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//Test//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR")
	return strings.Join(all, "\r\n") + "\r\n"
}

func serveICS(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchBusyClampsAndMerges(t *testing.T) {
	windowStart := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, 0, 7)

	srv := serveICS(t, icsBody(
		"BEGIN:VEVENT",
		"UID:one@test",
		"DTSTART:20250106T100000Z",
		"DTEND:20250106T120000Z",
		"SUMMARY:Standup",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:two@test",
		"DTSTART:20250106T113000Z",
		"DTEND:20250106T130000Z",
		"SUMMARY:Review",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:outside@test",
		"DTSTART:20250120T100000Z",
		"DTEND:20250120T110000Z",
		"SUMMARY:Next month",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:straddle@test",
		"DTSTART:20250112T230000Z",
		"DTEND:20250113T020000Z",
		"SUMMARY:Late night",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:incomplete@test",
		"DTSTART:20250108T100000Z",
		"SUMMARY:No end",
		"END:VEVENT",
	))

	client := NewClient(5*time.Second, zap.NewNop())
	busy, err := client.FetchBusy(context.Background(), srv.URL, windowStart, windowEnd, time.UTC)
	require.NoError(t, err)

	require.Len(t, busy, 2)
	assert.Equal(t, time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), busy[0].Start)
	assert.Equal(t, time.Date(2025, 1, 6, 13, 0, 0, 0, time.UTC), busy[0].End)
	// Straddling event is clamped at the window edge.
	assert.Equal(t, time.Date(2025, 1, 12, 23, 0, 0, 0, time.UTC), busy[1].Start)
	assert.Equal(t, windowEnd, busy[1].End)
}

func TestFetchBusyAllDayEvent(t *testing.T) {
	windowStart := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, 0, 7)

	srv := serveICS(t, icsBody(
		"BEGIN:VEVENT",
		"UID:allday@test",
		"DTSTART;VALUE=DATE:20250107",
		"DTEND;VALUE=DATE:20250108",
		"SUMMARY:Holiday",
		"END:VEVENT",
	))

	client := NewClient(5*time.Second, zap.NewNop())
	busy, err := client.FetchBusy(context.Background(), srv.URL, windowStart, windowEnd, time.UTC)
	require.NoError(t, err)

	require.Len(t, busy, 1)
	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), busy[0].Start)
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), busy[0].End)
}

func TestFetchBusyHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(5*time.Second, zap.NewNop())
	_, err := client.FetchBusy(context.Background(), srv.URL, time.Now(), time.Now().Add(time.Hour), time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestFetchBusyUnparseableBody(t *testing.T) {
	srv := serveICS(t, "this is not a calendar")

	client := NewClient(5*time.Second, zap.NewNop())
	_, err := client.FetchBusy(context.Background(), srv.URL, time.Now(), time.Now().Add(time.Hour), time.UTC)
	require.Error(t, err)
}

func TestMergeIntervals(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 1, 6, h, 0, 0, 0, time.UTC) }

	merged := MergeIntervals([]models.BusyInterval{
		{Start: at(14), End: at(15)},
		{Start: at(9), End: at(11)},
		{Start: at(10), End: at(12)},
		{Start: at(12), End: at(13)},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, at(9), merged[0].Start)
	assert.Equal(t, at(13), merged[0].End)
	assert.Equal(t, at(14), merged[1].Start)
	assert.Equal(t, at(15), merged[1].End)

	assert.Nil(t, MergeIntervals(nil))
}
