// Package calendarfeed serializes schedule items as an iCalendar document.
package calendarfeed

import (
	"strings"
	"time"

	"physio/internal/domain/schedule"

	ics "github.com/arran4/golang-ical"
)

// Download metadata for the exported feed.
const (
	FileName    = "exercises.ics"
	ContentType = "text/calendar; charset=utf-8"
	ProductID   = "-//physio//exercise schedule//EN"
)

// Encode renders one VEVENT per item: SUMMARY is the exercise name, DTSTART the scheduled
// time and DTEND thirty minutes later. Times are written in UTC from the item's location.
// PRE: items carry non-zero ScheduledAt values
// POST: Returns a complete VCALENDAR document, empty of events when items is empty
func Encode(items []schedule.Item, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRCalName("Exercises")

	for _, item := range items {
		event := cal.AddEvent(item.EntryID + "@physio")
		event.SetDtStampTime(stamp)
		event.SetStartAt(item.ScheduledAt)
		event.SetEndAt(item.EndsAt())
		event.SetSummary(item.ExerciseName)
		if desc := strings.TrimSpace(item.Instructions); desc != "" {
			event.SetDescription(desc)
		}
	}
	return cal.Serialize()
}
