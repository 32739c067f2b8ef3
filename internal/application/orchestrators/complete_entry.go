package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// CompleteScheduleStore defines the schedule write needed by CompleteEntry.
type CompleteScheduleStore interface {
	MarkCompleted(ctx context.Context, id, patientID string) (bool, error)
}

// CompleteEntryInput names the entry and the patient acting on it.
type CompleteEntryInput struct {
	EntryID   string
	PatientID string
}

// CompleteEntryResult reports whether an owned entry matched.
type CompleteEntryResult struct {
	Matched bool
}

// CompleteEntryDeps holds dependencies for CompleteEntry.
type CompleteEntryDeps struct {
	ScheduleStore CompleteScheduleStore
}

// ErrInvalidEntryID is returned for identifiers that cannot name an entry.
var ErrInvalidEntryID = errors.New("invalid schedule entry id")

// ExecuteCompleteEntry marks the patient's entry done.
// PRE: caller is the authenticated patient named by PatientID
// POST: The entry is completed if it belongs to PatientID; an entry of another patient
// is left unchanged and no error is returned
// INVARIANT: Completion is idempotent and never reverts
func ExecuteCompleteEntry(ctx context.Context, input CompleteEntryInput, deps CompleteEntryDeps) (CompleteEntryResult, error) {
	if _, err := uuid.Parse(input.EntryID); err != nil {
		return CompleteEntryResult{}, fmt.Errorf("%w: %q", ErrInvalidEntryID, input.EntryID)
	}

	matched, err := deps.ScheduleStore.MarkCompleted(ctx, input.EntryID, input.PatientID)
	if err != nil {
		return CompleteEntryResult{}, fmt.Errorf("mark entry completed: %w", err)
	}
	if !matched {
		slog.Info("schedule_event", "event", "complete_ignored", "entry_id", input.EntryID, "patient_id", input.PatientID)
		return CompleteEntryResult{}, nil
	}

	slog.Info("schedule_event", "event", "entry_completed", "entry_id", input.EntryID, "patient_id", input.PatientID)
	return CompleteEntryResult{Matched: true}, nil
}
