// Package scheduler implements the weekly allocation engine: it spreads each
// activity's weekly time budget over the free slots of a target week while
// honouring working hours, a lunch break, a rest day, externally busy periods,
// spacing between sessions and a cap on continuous work.
//
// The engine is a pure function of its inputs. It performs no I/O, keeps no
// state between runs and never fails on insufficient capacity; anomalies are
// reported inside the returned plan.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

// Engine runs the allocation over one week. Safe for concurrent use; every
// run operates on freshly built local state.
type Engine struct {
	policy Policy
	logger *zap.Logger
}

// NewEngine builds an engine with the given policy.
func NewEngine(policy Policy, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{policy: policy, logger: logger}
}

// Policy returns the engine's allocation rules.
func (e *Engine) Policy() Policy {
	return e.policy
}

// PlanRequest carries the fully materialised inputs for one run. Busy
// intervals may overlap and may come from several sources pre-concatenated;
// the engine normalises their union itself.
type PlanRequest struct {
	Activities []models.Activity
	Busy       []models.BusyInterval
	WeekStart  time.Time
	WeekEnd    time.Time
}

// Plan allocates the week. It always returns a plan; capacity shortfalls and
// configuration degradations are reported inside it rather than as errors.
func (e *Engine) Plan(ctx context.Context, req PlanRequest) *models.WeeklyPlan {
	_ = ctx

	plan := &models.WeeklyPlan{
		WeekStart: req.WeekStart,
		WeekEnd:   req.WeekEnd,
		Timezone:  e.policy.Timezone,
	}

	loc, err := time.LoadLocation(e.policy.Timezone)
	if err != nil {
		e.logger.Warn("unknown timezone, falling back to UTC",
			zap.String("timezone", e.policy.Timezone),
			zap.Error(err),
		)
		loc = time.UTC
		plan.Timezone = "UTC"
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("unknown timezone %q, using UTC", e.policy.Timezone))
	}

	slots := generateSlots(req.WeekStart, req.WeekEnd, loc, e.policy)
	busy := normalizeBusy(req.Busy, e.policy.BusyBuffer, req.WeekStart, req.WeekEnd)
	records, totalDemand := buildDemand(req.Activities, e.policy.SlotMinutes())

	blocked := blockSlots(slots, busy)

	alloc := newAllocator(e.policy, records, e.logger)
	alloc.run(slots, totalDemand)

	plan.Events = assembleEvents(alloc.assignments)
	plan.Shortfalls = assembleShortfalls(alloc.records, e.policy.SlotMinutes())
	plan.Stats = models.PlanStats{
		CandidateSlots:   len(slots),
		BusyBlockedSlots: blocked,
		ScheduledSlots:   len(alloc.assignments),
		RelaxedSlots:     alloc.relaxedUsed,
	}

	for _, sf := range plan.Shortfalls {
		e.logger.Warn("insufficient capacity for activity",
			zap.String("activity_id", sf.ActivityID),
			zap.String("name", sf.Name),
			zap.Int("minutes_missing", sf.MinutesMissing),
		)
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("not enough free time for %q: %d minutes unscheduled", sf.Name, sf.MinutesMissing))
	}

	return plan
}
