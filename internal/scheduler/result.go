package scheduler

import "github.com/hebdo-app/hebdo-api/internal/models"

// assembleEvents turns committed assignments into the output event list, one
// event per slot in commit order. Consecutive same-activity slots are not
// merged; calendar clients render them as adjacent entries.
func assembleEvents(assignments []assignment) []models.ScheduledEvent {
	events := make([]models.ScheduledEvent, 0, len(assignments))
	for _, as := range assignments {
		events = append(events, models.ScheduledEvent{
			ActivityID: as.activity.ID,
			Name:       as.activity.Name,
			Category:   as.activity.Category,
			Start:      as.slot.start,
			End:        as.slot.end,
		})
	}
	return events
}

// assembleShortfalls reports the unmet demand left in the queue when the run
// terminated. Unmet demand is not an error; the caller decides what to do
// with it.
func assembleShortfalls(outstanding []*demandRecord, slotMinutes int) []models.Shortfall {
	shortfalls := make([]models.Shortfall, 0, len(outstanding))
	for _, rec := range outstanding {
		if rec.remaining <= 0 {
			continue
		}
		shortfalls = append(shortfalls, models.Shortfall{
			ActivityID:     rec.activity.ID,
			Name:           rec.activity.Name,
			MinutesMissing: rec.remaining * slotMinutes,
			SlotsMissing:   rec.remaining,
		})
	}
	return shortfalls
}
