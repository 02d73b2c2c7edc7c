package models

import "time"

// BusyInterval is a half-open [Start, End) range of externally committed time in UTC.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScheduledEvent is one committed slot of an activity in the generated plan.
type ScheduledEvent struct {
	ActivityID string    `json:"activity_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// Shortfall reports the unassigned portion of an activity's weekly demand.
type Shortfall struct {
	ActivityID     string `json:"activity_id"`
	Name           string `json:"name"`
	MinutesMissing int    `json:"minutes_missing"`
	SlotsMissing   int    `json:"slots_missing"`
}

// PlanStats summarises a planner run.
type PlanStats struct {
	CandidateSlots   int `json:"candidate_slots"`
	BusyBlockedSlots int `json:"busy_blocked_slots"`
	ScheduledSlots   int `json:"scheduled_slots"`
	RelaxedSlots     int `json:"relaxed_slots"`
}

// WeeklyPlan is the full output of one planner run.
type WeeklyPlan struct {
	WeekStart  time.Time        `json:"week_start"`
	WeekEnd    time.Time        `json:"week_end"`
	Timezone   string           `json:"timezone"`
	Events     []ScheduledEvent `json:"events"`
	Shortfalls []Shortfall      `json:"shortfalls"`
	Warnings   []string         `json:"warnings,omitempty"`
	Stats      PlanStats        `json:"stats"`
}
