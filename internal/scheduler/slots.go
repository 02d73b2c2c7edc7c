package scheduler

import "time"

// candidateSlot is one fixed-duration unit of allocatable time. Times are
// absolute; localDate tags the slot with its calendar day in the planning
// timezone for day-scoped constraints. Availability only ever flips to false.
type candidateSlot struct {
	start     time.Time
	end       time.Time
	localDate string
	available bool
}

const localDateLayout = "2006-01-02"

// generateSlots produces the chronological candidate slots covering
// [weekStart, weekEnd), keeping only slots whose local start hour falls inside
// the working window, outside the lunch window, and whose local weekday is not
// the excluded one. All returned slots start available.
func generateSlots(weekStart, weekEnd time.Time, loc *time.Location, p Policy) []*candidateSlot {
	var slots []*candidateSlot
	for cur := weekStart; cur.Before(weekEnd); cur = cur.Add(p.SlotDuration) {
		local := cur.In(loc)
		if local.Weekday() == p.ExcludedWeekday {
			continue
		}
		hour := local.Hour()
		if hour < p.WorkdayStartHour || hour >= p.WorkdayEndHour {
			continue
		}
		if hour >= p.LunchStartHour && hour < p.LunchEndHour {
			continue
		}
		slots = append(slots, &candidateSlot{
			start:     cur,
			end:       cur.Add(p.SlotDuration),
			localDate: local.Format(localDateLayout),
			available: true,
		})
	}
	return slots
}
