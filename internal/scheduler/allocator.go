package scheduler

import (
	"time"

	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

// assignment records a committed (activity, slot) placement. relaxed marks
// placements admitted only after the daily category-exclusivity check was
// waived.
type assignment struct {
	activity models.Activity
	slot     *candidateSlot
	relaxed  bool
}

type dayCategoryKey struct {
	date     string
	category string
}

// allocator runs the greedy constraint-checked assignment over one week.
// Demand is served round-robin over a shrinking record queue addressed through
// a cursor, so removing a satisfied record never desynchronises the rotation.
type allocator struct {
	policy Policy
	logger *zap.Logger

	records []*demandRecord
	cursor  int

	dayCategory map[dayCategoryKey]int
	lastEnd     time.Time
	blockID     string
	blockLen    time.Duration

	assignments []assignment
	relaxedUsed int
}

func newAllocator(p Policy, records []*demandRecord, logger *zap.Logger) *allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &allocator{
		policy:      p,
		logger:      logger,
		records:     records,
		dayCategory: make(map[dayCategoryKey]int),
	}
}

// blockSlots marks every candidate slot intersecting a normalized busy
// interval unavailable and returns how many were blocked. The busy list must
// be sorted and disjoint.
func blockSlots(slots []*candidateSlot, busy []models.BusyInterval) int {
	blocked := 0
	for _, slot := range slots {
		for _, b := range busy {
			if !slot.start.Before(b.End) {
				continue
			}
			if overlaps(slot.start, slot.end, b.Start, b.End) {
				slot.available = false
				blocked++
			}
			break
		}
	}
	return blocked
}

// run scans the candidate slots chronologically and assigns them to pending
// demand records until demand is met or slots run out.
func (a *allocator) run(slots []*candidateSlot, totalDemand int) {
	assigned := 0
	for _, slot := range slots {
		if len(a.records) == 0 || assigned >= totalDemand {
			break
		}
		if !slot.available {
			continue
		}
		// An exactly abutting slot may continue the current block; anything
		// closer than the minimum gap without abutting can host nothing.
		if !a.lastEnd.IsZero() && !slot.start.Equal(a.lastEnd) && slot.start.Before(a.lastEnd.Add(a.policy.MinGap)) {
			slot.available = false
			continue
		}

		idx, relaxed := a.admit(slot)
		if idx < 0 {
			slot.available = false
			continue
		}
		a.commit(idx, slot, relaxed)
		assigned++
	}
}

// admit walks the demand queue round-robin starting after the last record
// tried, applying the strict tier and then the relaxed-category tier to each
// record. It returns the index of the admitted record, or -1 when a full cycle
// admits nothing. The continuous-block bound applies in both tiers.
func (a *allocator) admit(slot *candidateSlot) (int, bool) {
	n := len(a.records)
	for i := 0; i < n; i++ {
		idx := (a.cursor + i) % n
		rec := a.records[idx]
		if a.projectedBlock(rec, slot) > a.policy.MaxContinuous {
			continue
		}
		key := dayCategoryKey{date: slot.localDate, category: rec.activity.Category}
		if a.dayCategory[key] == 0 {
			return idx, false
		}
		return idx, true
	}
	return -1, false
}

// projectedBlock returns the continuous duration the activity's current block
// would reach if this slot were committed. A block only continues when the
// slot starts exactly where the previous assignment of the same activity
// ended; otherwise the block restarts at one slot.
func (a *allocator) projectedBlock(rec *demandRecord, slot *candidateSlot) time.Duration {
	if slot.start.Equal(a.lastEnd) && rec.activity.ID == a.blockID {
		return a.blockLen + a.policy.SlotDuration
	}
	return a.policy.SlotDuration
}

func (a *allocator) commit(idx int, slot *candidateSlot, relaxed bool) {
	rec := a.records[idx]
	key := dayCategoryKey{date: slot.localDate, category: rec.activity.Category}

	rec.remaining--
	// The counter is bumped even for relaxed placements; later strict checks
	// for the same (day, category) will see it.
	a.dayCategory[key]++

	if slot.start.Equal(a.lastEnd) && rec.activity.ID == a.blockID {
		a.blockLen += a.policy.SlotDuration
	} else {
		a.blockID = rec.activity.ID
		a.blockLen = a.policy.SlotDuration
	}
	a.lastEnd = slot.end
	slot.available = false

	a.assignments = append(a.assignments, assignment{activity: rec.activity, slot: slot, relaxed: relaxed})
	if relaxed {
		a.relaxedUsed++
	}

	if rec.remaining == 0 {
		a.logger.Debug("activity fully scheduled",
			zap.String("activity_id", rec.activity.ID),
			zap.String("name", rec.activity.Name),
			zap.Int("slots", rec.demanded),
		)
		a.records = append(a.records[:idx], a.records[idx+1:]...)
		if len(a.records) > 0 {
			a.cursor = idx % len(a.records)
		} else {
			a.cursor = 0
		}
		return
	}
	a.cursor = (idx + 1) % len(a.records)
}
