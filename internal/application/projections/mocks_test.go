package projections

import (
	"context"
	"errors"
	"sort"
	"time"

	"physio/internal/domain/account"
	"physio/internal/domain/exercise"
	"physio/internal/domain/schedule"
)

// memSchedule is an in-memory schedule reader mirroring the SQLite store's filters.
type memSchedule struct {
	items []schedule.Item
	err   error
}

// ListByPatientBetween filters by owner and inclusive bounds.
// PRE: none
// POST: returns sorted matches
func (m *memSchedule) ListByPatientBetween(_ context.Context, patientID string, from, to time.Time) ([]schedule.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []schedule.Item
	for _, it := range m.items {
		if it.PatientID == patientID && !it.ScheduledAt.Before(from) && !it.ScheduledAt.After(to) {
			out = append(out, it)
		}
	}
	sortItems(out)
	return out, nil
}

// ListForExport filters by owner and completion.
// PRE: none
// POST: returns sorted matches
func (m *memSchedule) ListForExport(_ context.Context, patientID string, includeCompleted bool) ([]schedule.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []schedule.Item
	for _, it := range m.items {
		if it.PatientID == patientID && (includeCompleted || !it.Completed) {
			out = append(out, it)
		}
	}
	sortItems(out)
	return out, nil
}

// ListUpcoming returns items at or after from.
// PRE: limit > 0
// POST: returns at most limit sorted items
func (m *memSchedule) ListUpcoming(_ context.Context, from time.Time, limit int) ([]schedule.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []schedule.Item
	for _, it := range m.items {
		if !it.ScheduledAt.Before(from) {
			out = append(out, it)
		}
	}
	sortItems(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortItems(items []schedule.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ScheduledAt.Before(items[j].ScheduledAt) })
}

type memAccounts struct {
	accounts []account.Account
}

// ListByRole filters by role.
// PRE: none
// POST: returns matching accounts
func (m *memAccounts) ListByRole(_ context.Context, role account.Role) ([]account.Account, error) {
	var out []account.Account
	for _, a := range m.accounts {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

type memExercises struct {
	list []exercise.Exercise
	err  error
}

// List returns the catalog.
// PRE: none
// POST: returns all exercises or err
func (m *memExercises) List(_ context.Context) ([]exercise.Exercise, error) {
	return m.list, m.err
}

var errStore = errors.New("store unavailable")
