package scheduler

import (
	"strings"
	"time"

	"github.com/hebdo-app/hebdo-api/pkg/config"
)

// Policy is the immutable set of allocation rules for one planner run.
// A zero value is not usable; build one with DefaultPolicy or FromConfig.
type Policy struct {
	Timezone         string
	SlotDuration     time.Duration
	WorkdayStartHour int
	WorkdayEndHour   int
	LunchStartHour   int
	LunchEndHour     int
	ExcludedWeekday  time.Weekday
	MinGap           time.Duration
	MaxContinuous    time.Duration
	BusyBuffer       time.Duration
}

// DefaultPolicy returns the standard weekly allocation rules.
func DefaultPolicy() Policy {
	return Policy{
		Timezone:         "Europe/Paris",
		SlotDuration:     30 * time.Minute,
		WorkdayStartHour: 9,
		WorkdayEndHour:   22,
		LunchStartHour:   12,
		LunchEndHour:     15,
		ExcludedWeekday:  time.Sunday,
		MinGap:           30 * time.Minute,
		MaxContinuous:    120 * time.Minute,
		BusyBuffer:       60 * time.Minute,
	}
}

// FromConfig maps planner configuration onto a Policy, falling back to
// defaults for unset numeric fields.
func FromConfig(cfg config.PlannerConfig) Policy {
	p := DefaultPolicy()
	if cfg.Timezone != "" {
		p.Timezone = cfg.Timezone
	}
	if cfg.SlotMinutes > 0 {
		p.SlotDuration = time.Duration(cfg.SlotMinutes) * time.Minute
	}
	if cfg.WorkdayStartHour > 0 {
		p.WorkdayStartHour = cfg.WorkdayStartHour
	}
	if cfg.WorkdayEndHour > 0 {
		p.WorkdayEndHour = cfg.WorkdayEndHour
	}
	if cfg.LunchStartHour > 0 {
		p.LunchStartHour = cfg.LunchStartHour
	}
	if cfg.LunchEndHour > 0 {
		p.LunchEndHour = cfg.LunchEndHour
	}
	if wd, ok := parseWeekday(cfg.ExcludedWeekday); ok {
		p.ExcludedWeekday = wd
	}
	if cfg.MinGapMinutes > 0 {
		p.MinGap = time.Duration(cfg.MinGapMinutes) * time.Minute
	}
	if cfg.MaxContinuousMinutes > 0 {
		p.MaxContinuous = time.Duration(cfg.MaxContinuousMinutes) * time.Minute
	}
	if cfg.BusyBufferMinutes > 0 {
		p.BusyBuffer = time.Duration(cfg.BusyBufferMinutes) * time.Minute
	}
	return p
}

// SlotMinutes returns the slot duration in whole minutes.
func (p Policy) SlotMinutes() int {
	return int(p.SlotDuration / time.Minute)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(raw string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
	return wd, ok
}
