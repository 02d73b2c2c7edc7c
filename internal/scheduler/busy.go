package scheduler

import (
	"sort"
	"time"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

// normalizeBusy pads every busy interval by the buffer on both sides, clamps
// the result to the week boundaries, drops intervals that become empty, and
// merges the remainder into a minimal sorted disjoint list. Adjacent intervals
// merge, not only strictly overlapping ones. The function is idempotent and
// must be applied to the union of all busy sources, since per-source merging
// does not account for cross-source overlaps.
func normalizeBusy(busy []models.BusyInterval, buffer time.Duration, weekStart, weekEnd time.Time) []models.BusyInterval {
	buffered := make([]models.BusyInterval, 0, len(busy))
	for _, b := range busy {
		start := b.Start.Add(-buffer)
		end := b.End.Add(buffer)
		if start.Before(weekStart) {
			start = weekStart
		}
		if end.After(weekEnd) {
			end = weekEnd
		}
		if !start.Before(end) {
			continue
		}
		buffered = append(buffered, models.BusyInterval{Start: start, End: end})
	}
	if len(buffered) == 0 {
		return nil
	}

	sort.Slice(buffered, func(i, j int) bool {
		return buffered[i].Start.Before(buffered[j].Start)
	})

	merged := buffered[:1]
	for _, next := range buffered[1:] {
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

// overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
