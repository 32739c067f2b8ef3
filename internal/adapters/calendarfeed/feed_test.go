package calendarfeed

import (
	"strings"
	"testing"
	"time"

	"physio/internal/domain/schedule"

	ics "github.com/arran4/golang-ical"
)

// TestEncode_RoundTrip parses the output back and checks each event.
func TestEncode_RoundTrip(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []schedule.Item{
		{EntryID: "a", ExerciseName: "Cat-Camel", Instructions: "Slowly", ScheduledAt: start},
		{EntryID: "b", ExerciseName: "Bridge", ScheduledAt: start.Add(48 * time.Hour)},
	}

	doc := Encode(items, start)
	cal, err := ics.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	for i, ev := range events {
		gotStart, err := ev.GetStartAt()
		if err != nil {
			t.Fatalf("event %d start: %v", i, err)
		}
		gotEnd, err := ev.GetEndAt()
		if err != nil {
			t.Fatalf("event %d end: %v", i, err)
		}
		if !gotStart.Equal(items[i].ScheduledAt) {
			t.Errorf("event %d start = %v, want %v", i, gotStart, items[i].ScheduledAt)
		}
		if gotEnd.Sub(gotStart) != 30*time.Minute {
			t.Errorf("event %d duration = %v, want 30m", i, gotEnd.Sub(gotStart))
		}
		if got := ev.GetProperty(ics.ComponentPropertySummary).Value; got != items[i].ExerciseName {
			t.Errorf("event %d summary = %q, want %q", i, got, items[i].ExerciseName)
		}
	}
}

// TestEncode_Empty verifies an empty schedule still yields a valid calendar.
func TestEncode_Empty(t *testing.T) {
	doc := Encode(nil, time.Now())
	if !strings.HasPrefix(doc, "BEGIN:VCALENDAR") {
		t.Fatalf("doc = %q", doc)
	}
	cal, err := ics.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	if n := len(cal.Events()); n != 0 {
		t.Errorf("events = %d, want 0", n)
	}
}

// TestEncode_LocalTimes verifies wall-clock times keep their instant when written in UTC.
func TestEncode_LocalTimes(t *testing.T) {
	loc := time.FixedZone("NZDT", 13*3600)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, loc)
	doc := Encode([]schedule.Item{{EntryID: "x", ExerciseName: "Cat-Camel", ScheduledAt: at}}, at)
	if !strings.Contains(doc, "DTSTART:20240229T200000Z") {
		t.Errorf("DTSTART not converted to UTC:\n%s", doc)
	}
}
