package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

const (
	feedProdID = "-//Hebdo//hebdo-api//EN"
	feedDomain = "hebdo.app"
)

// FeedBuilder renders a weekly plan as a published iCalendar feed that
// calendar clients can subscribe to.
type FeedBuilder struct {
	now func() time.Time
}

func NewFeedBuilder() *FeedBuilder {
	return &FeedBuilder{now: time.Now}
}

// Render serializes the plan's events into an .ics document. Event UIDs are
// stable across regenerations of the same plan so subscribed clients update
// in place instead of duplicating entries.
func (b *FeedBuilder) Render(plan *models.WeeklyPlan) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(feedProdID)

	stamp := b.now().UTC()
	for _, ev := range plan.Events {
		uid := fmt.Sprintf("%s-%s@%s", ev.Start.UTC().Format("20060102T150405Z"), ev.Name, feedDomain)
		entry := cal.AddEvent(uid)
		entry.SetDtStampTime(stamp)
		entry.SetStartAt(ev.Start.UTC())
		entry.SetEndAt(ev.End.UTC())
		entry.SetSummary(ev.Name)
		if ev.Category != "" {
			entry.SetProperty(ics.ComponentProperty(ics.PropertyCategories), ev.Category)
		}
	}

	return cal.Serialize()
}
