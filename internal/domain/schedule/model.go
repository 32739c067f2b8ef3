package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Storage and form layouts. Timestamps are naive local wall-clock values.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
)

// EventDuration is the fixed length of an exported calendar event.
const EventDuration = 30 * time.Minute

// Domain errors
var (
	ErrEmptyPatientID  = errors.New("patient ID cannot be empty")
	ErrEmptyExerciseID = errors.New("exercise ID cannot be empty")
	ErrMissingSlot     = errors.New("scheduled time is required")
	ErrInvalidSlot     = errors.New("date and time must form a valid calendar date and time")
	ErrInvalidScope    = errors.New("export scope must be 'pending' or 'all'")
)

// Entry assigns one exercise to one patient at a specific local time.
// INVARIANT: Completed only ever transitions false -> true.
type Entry struct {
	ID          string
	PatientID   string
	ExerciseID  string
	ScheduledAt time.Time
	Completed   bool
	AssignedBy  string // physio account ID
	CreatedAt   time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.PatientID) == "" {
		return ErrEmptyPatientID
	}
	if strings.TrimSpace(e.ExerciseID) == "" {
		return ErrEmptyExerciseID
	}
	if e.ScheduledAt.IsZero() {
		return ErrMissingSlot
	}
	return nil
}

// Complete marks the entry done. Calling it on a completed entry is a no-op.
// POST: Completed is true
func (e *Entry) Complete() {
	e.Completed = true
}

// Item is the read projection of an entry joined with its exercise (and patient for physio views).
type Item struct {
	EntryID      string
	PatientID    string
	PatientName  string
	ExerciseID   string
	ExerciseName string
	Instructions string
	ScheduledAt  time.Time
	Completed    bool
}

// EndsAt returns the end of the calendar event for this item.
func (i Item) EndsAt() time.Time {
	return i.ScheduledAt.Add(EventDuration)
}

// ParseSlot combines a form date (YYYY-MM-DD) and time (HH:MM or HH:MM:SS) into a timestamp in loc.
// PRE: loc is non-nil
// POST: Returns ErrInvalidSlot unless both parts form a real calendar date and clock time
func ParseSlot(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, ErrInvalidSlot
	}
	for _, layout := range []string{DateLayout + " " + ClockLayout, DateLayout + " 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidSlot, date, clock)
}

// FormatTimestamp renders t in the storage layout using t's own wall clock.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// storedLayouts are accepted when reading timestamps back from storage.
var storedLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp reads a stored naive timestamp as a wall-clock time in loc.
// PRE: loc is non-nil
// POST: Returns an error if s matches none of the stored layouts
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range storedLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse scheduled time: %q", s)
}

// DayWindow returns the inclusive bounds of the calendar day containing now:
// 00:00:00 and 23:59:59.999999 in now's location.
func DayWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Microsecond)
	return start, end
}

// ExportScope decides which entries the calendar feed carries.
type ExportScope string

// Export scopes
const (
	ScopePending ExportScope = "pending"
	ScopeAll     ExportScope = "all"
)

// ParseExportScope converts a configured value into an ExportScope. Empty means pending.
func ParseExportScope(value string) (ExportScope, error) {
	switch ExportScope(strings.ToLower(strings.TrimSpace(value))) {
	case "", ScopePending:
		return ScopePending, nil
	case ScopeAll:
		return ScopeAll, nil
	default:
		return "", ErrInvalidScope
	}
}

// IncludesCompleted reports whether completed entries belong in the export.
func (s ExportScope) IncludesCompleted() bool {
	return s == ScopeAll
}
