package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"physio/internal/adapters/email"
	"physio/internal/domain/account"
	"physio/internal/domain/exercise"
	"physio/internal/domain/schedule"

	"github.com/google/uuid"
)

// AssignAccountStore defines the account lookups needed by AssignExercise.
type AssignAccountStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// AssignExerciseStore defines the catalog lookups needed by AssignExercise.
type AssignExerciseStore interface {
	GetByID(ctx context.Context, id string) (exercise.Exercise, error)
}

// AssignScheduleStore defines the schedule writes needed by AssignExercise.
type AssignScheduleStore interface {
	Save(ctx context.Context, e schedule.Entry) error
}

// AssignExerciseInput carries the physio's form submission.
type AssignExerciseInput struct {
	PhysioID   string
	PatientID  string
	ExerciseID string
	Date       string // YYYY-MM-DD
	Time       string // HH:MM
}

// AssignExerciseResult identifies the created entry.
type AssignExerciseResult struct {
	EntryID     string
	ScheduledAt time.Time
}

// AssignExerciseDeps holds dependencies for AssignExercise.
type AssignExerciseDeps struct {
	AccountStore  AssignAccountStore
	ExerciseStore AssignExerciseStore
	ScheduleStore AssignScheduleStore
	Notifier      email.Sender   // optional
	Location      *time.Location // nil means time.Local
}

// Assignment errors
var (
	ErrUnknownPatient  = errors.New("patient not found")
	ErrUnknownExercise = errors.New("exercise not found")
)

// ExecuteAssignExercise schedules one exercise for one patient.
// PRE: caller is an authenticated physio
// POST: Exactly one entry with Completed=false is saved, or nothing is written and an error is returned
// INVARIANT: Identical assignments are independent entries
func ExecuteAssignExercise(ctx context.Context, input AssignExerciseInput, deps AssignExerciseDeps) (AssignExerciseResult, error) {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	at, err := schedule.ParseSlot(input.Date, input.Time, loc)
	if err != nil {
		return AssignExerciseResult{}, err
	}

	patient, err := deps.AccountStore.GetByID(ctx, input.PatientID)
	if err != nil || !patient.IsPatient() {
		return AssignExerciseResult{}, fmt.Errorf("%w: %s", ErrUnknownPatient, input.PatientID)
	}
	ex, err := deps.ExerciseStore.GetByID(ctx, input.ExerciseID)
	if err != nil {
		return AssignExerciseResult{}, fmt.Errorf("%w: %s", ErrUnknownExercise, input.ExerciseID)
	}

	entry := schedule.Entry{
		ID:          uuid.New().String(),
		PatientID:   patient.ID,
		ExerciseID:  ex.ID,
		ScheduledAt: at,
		AssignedBy:  input.PhysioID,
		CreatedAt:   time.Now(),
	}
	if err := entry.Validate(); err != nil {
		return AssignExerciseResult{}, err
	}
	if err := deps.ScheduleStore.Save(ctx, entry); err != nil {
		return AssignExerciseResult{}, fmt.Errorf("save schedule entry: %w", err)
	}

	slog.Info("schedule_event", "event", "exercise_assigned",
		"entry_id", entry.ID, "patient_id", patient.ID, "exercise", ex.Name,
		"scheduled_at", schedule.FormatTimestamp(at), "physio_id", input.PhysioID)

	notifyAssignment(ctx, deps.Notifier, patient, ex, at)

	return AssignExerciseResult{EntryID: entry.ID, ScheduledAt: at}, nil
}

// NotifyTimeout bounds the assignment email; the send outlives a cancelled request.
const NotifyTimeout = 5 * time.Second

// notifyAssignment emails the patient. Failures are logged and never undo the assignment.
func notifyAssignment(ctx context.Context, sender email.Sender, patient account.Account, ex exercise.Exercise, at time.Time) {
	if sender == nil {
		return
	}
	req, err := email.AssignmentRequest(email.AssignmentNotice{
		PatientEmail: patient.Email,
		PatientName:  patient.Name,
		ExerciseName: ex.Name,
		ScheduledAt:  at,
	})
	if err != nil {
		slog.Error("email_event", "event", "assignment_notice_failed", "patient_id", patient.ID, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NotifyTimeout)
	defer cancel()
	if _, err := sender.Send(ctx, req); err != nil {
		slog.Error("email_event", "event", "assignment_notice_failed", "patient_id", patient.ID, "error", err)
	}
}
