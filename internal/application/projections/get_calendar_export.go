package projections

import (
	"context"
	"fmt"

	"physio/internal/domain/schedule"
)

// CalendarExportScheduleStore defines the store interface needed by this projection.
type CalendarExportScheduleStore interface {
	ListForExport(ctx context.Context, patientID string, includeCompleted bool) ([]schedule.Item, error)
}

// GetCalendarExportQuery names the patient and the export policy.
type GetCalendarExportQuery struct {
	PatientID string
	Scope     schedule.ExportScope // empty means ScopePending
}

// GetCalendarExportDeps holds dependencies for the projection.
type GetCalendarExportDeps struct {
	ScheduleStore CalendarExportScheduleStore
}

// CalendarExportResult holds the entries to serialize as events.
type CalendarExportResult struct {
	Items []schedule.Item
}

// QueryGetCalendarExport reads the patient's entries for the calendar feed.
// PRE: PatientID is the authenticated patient
// POST: Items belong to PatientID only, have no date restriction, and exclude completed
// entries unless Scope is ScopeAll
func QueryGetCalendarExport(ctx context.Context, query GetCalendarExportQuery, deps GetCalendarExportDeps) (CalendarExportResult, error) {
	scope := query.Scope
	if scope == "" {
		scope = schedule.ScopePending
	}
	items, err := deps.ScheduleStore.ListForExport(ctx, query.PatientID, scope.IncludesCompleted())
	if err != nil {
		return CalendarExportResult{}, fmt.Errorf("list export: %w", err)
	}
	return CalendarExportResult{Items: items}, nil
}
