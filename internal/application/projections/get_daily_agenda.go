package projections

import (
	"context"
	"fmt"
	"time"

	"physio/internal/domain/schedule"
)

// DailyAgendaScheduleStore defines the store interface needed by this projection.
type DailyAgendaScheduleStore interface {
	ListByPatientBetween(ctx context.Context, patientID string, from, to time.Time) ([]schedule.Item, error)
}

// GetDailyAgendaQuery names the patient whose agenda is read.
type GetDailyAgendaQuery struct {
	PatientID string
}

// GetDailyAgendaDeps holds dependencies for the projection.
type GetDailyAgendaDeps struct {
	ScheduleStore DailyAgendaScheduleStore
}

// DailyAgendaResult is today's schedule for one patient.
type DailyAgendaResult struct {
	Day       time.Time
	Items     []schedule.Item
	Completed int
}

// Remaining returns how many of today's entries are still pending.
func (r DailyAgendaResult) Remaining() int {
	return len(r.Items) - r.Completed
}

// QueryGetDailyAgenda returns the patient's entries for the calendar day containing now.
// PRE: PatientID is the authenticated patient; now carries the server's local location
// POST: Items belong to PatientID only, fall within [00:00:00, 23:59:59.999999] of now's day,
// and are ordered by scheduled time
func QueryGetDailyAgenda(ctx context.Context, query GetDailyAgendaQuery, deps GetDailyAgendaDeps, now time.Time) (DailyAgendaResult, error) {
	start, end := schedule.DayWindow(now)
	items, err := deps.ScheduleStore.ListByPatientBetween(ctx, query.PatientID, start, end)
	if err != nil {
		return DailyAgendaResult{}, fmt.Errorf("list agenda: %w", err)
	}

	result := DailyAgendaResult{Day: start, Items: items}
	for _, item := range items {
		if item.Completed {
			result.Completed++
		}
	}
	return result, nil
}
