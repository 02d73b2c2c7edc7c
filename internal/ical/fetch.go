// Package ical talks iCalendar: it pulls busy intervals out of remote .ics
// feeds and renders weekly plans back into one.
package ical

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

// Client downloads public .ics feeds and extracts the busy intervals that
// fall inside a given window.
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchBusy downloads one calendar and returns its events as busy intervals,
// clamped to [windowStart, windowEnd), sorted and merged. All-day events are
// interpreted as whole days in loc. Events without both DTSTART and DTEND are
// skipped.
func (c *Client) FetchBusy(ctx context.Context, url string, windowStart, windowEnd time.Time, loc *time.Location) ([]models.BusyInterval, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build calendar request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download calendar: unexpected status %d", resp.StatusCode)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	var busy []models.BusyInterval
	for _, event := range cal.Events() {
		start, end, ok := c.eventRange(event, loc)
		if !ok {
			continue
		}
		if !start.Before(windowEnd) || !end.After(windowStart) {
			continue
		}
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(windowEnd) {
			end = windowEnd
		}
		if start.Before(end) {
			busy = append(busy, models.BusyInterval{Start: start.UTC(), End: end.UTC()})
		}
	}

	return MergeIntervals(busy), nil
}

// eventRange resolves a VEVENT to a concrete [start, end) pair. All-day
// values span midnight to midnight in loc; an all-day event without DTEND
// covers a single day.
func (c *Client) eventRange(event *ics.VEvent, loc *time.Location) (time.Time, time.Time, bool) {
	startProp := event.GetProperty(ics.ComponentPropertyDtStart)
	endProp := event.GetProperty(ics.ComponentPropertyDtEnd)
	if startProp == nil {
		return time.Time{}, time.Time{}, false
	}

	if isDateOnly(startProp) {
		day, err := event.GetAllDayStartAt()
		if err != nil {
			c.logger.Debug("skipping event with unreadable all-day start", zap.Error(err))
			return time.Time{}, time.Time{}, false
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		end := start.AddDate(0, 0, 1)
		if endProp != nil && isDateOnly(endProp) {
			// DTEND is exclusive for all-day events.
			last, err := event.GetAllDayEndAt()
			if err == nil {
				end = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc)
			}
		}
		return start, end, true
	}

	if endProp == nil {
		return time.Time{}, time.Time{}, false
	}
	start, err := event.GetStartAt()
	if err != nil {
		c.logger.Debug("skipping event with unreadable start", zap.Error(err))
		return time.Time{}, time.Time{}, false
	}
	end, err := event.GetEndAt()
	if err != nil {
		c.logger.Debug("skipping event with unreadable end", zap.Error(err))
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func isDateOnly(prop *ics.IANAProperty) bool {
	for _, v := range prop.ICalParameters["VALUE"] {
		if v == "DATE" {
			return true
		}
	}
	return false
}

// MergeIntervals sorts intervals by start and coalesces any that overlap or
// touch. The input slice is not modified.
func MergeIntervals(intervals []models.BusyInterval) []models.BusyInterval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]models.BusyInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	merged := []models.BusyInterval{sorted[0]}
	for _, next := range sorted[1:] {
		cur := &merged[len(merged)-1]
		if !next.Start.After(cur.End) {
			if next.End.After(cur.End) {
				cur.End = next.End
			}
			continue
		}
		merged = append(merged, next)
	}
	return merged
}
