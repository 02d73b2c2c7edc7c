package scheduler

import (
	"math"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

// demandRecord pairs an activity with its remaining slot counter.
type demandRecord struct {
	activity  models.Activity
	demanded  int
	remaining int
}

// buildDemand converts weekly minute budgets into slot counts, rounding to the
// nearest integer with ties away from zero. Activities whose demand rounds to
// zero (including non-positive budgets) get no record and no shortfall
// reporting. Input order is preserved. The second return value is the total
// slot demand across all records.
func buildDemand(activities []models.Activity, slotMinutes int) ([]*demandRecord, int) {
	records := make([]*demandRecord, 0, len(activities))
	total := 0
	for _, act := range activities {
		if act.WeeklyMinutes <= 0 {
			continue
		}
		slots := int(math.Round(float64(act.WeeklyMinutes) / float64(slotMinutes)))
		if slots <= 0 {
			continue
		}
		records = append(records, &demandRecord{activity: act, demanded: slots, remaining: slots})
		total += slots
	}
	return records, total
}
