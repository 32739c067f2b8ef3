package projections

import (
	"context"
	"fmt"
	"time"

	"physio/internal/domain/account"
	"physio/internal/domain/exercise"
	"physio/internal/domain/schedule"
)

// UpcomingLimit caps the assignments listed under the physio form.
const UpcomingLimit = 20

// AssignmentFormAccountStore defines the account reads needed by this projection.
type AssignmentFormAccountStore interface {
	ListByRole(ctx context.Context, role account.Role) ([]account.Account, error)
}

// AssignmentFormExerciseStore defines the catalog reads needed by this projection.
type AssignmentFormExerciseStore interface {
	List(ctx context.Context) ([]exercise.Exercise, error)
}

// AssignmentFormScheduleStore defines the schedule reads needed by this projection.
type AssignmentFormScheduleStore interface {
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]schedule.Item, error)
}

// GetAssignmentFormDeps holds dependencies for the projection.
type GetAssignmentFormDeps struct {
	AccountStore  AssignmentFormAccountStore
	ExerciseStore AssignmentFormExerciseStore
	ScheduleStore AssignmentFormScheduleStore
}

// AssignmentFormResult carries the options and defaults for the physio view.
type AssignmentFormResult struct {
	Patients    []account.Account
	Exercises   []exercise.Exercise
	Upcoming    []schedule.Item
	DefaultDate string
	DefaultTime string
}

// QueryGetAssignmentForm gathers the patient and exercise options plus upcoming assignments.
// PRE: caller is an authenticated physio
// POST: Patients hold only patient accounts; Upcoming starts at the beginning of now's day
func QueryGetAssignmentForm(ctx context.Context, deps GetAssignmentFormDeps, now time.Time) (AssignmentFormResult, error) {
	patients, err := deps.AccountStore.ListByRole(ctx, account.RolePatient)
	if err != nil {
		return AssignmentFormResult{}, fmt.Errorf("list patients: %w", err)
	}
	exercises, err := deps.ExerciseStore.List(ctx)
	if err != nil {
		return AssignmentFormResult{}, fmt.Errorf("list exercises: %w", err)
	}
	start, _ := schedule.DayWindow(now)
	upcoming, err := deps.ScheduleStore.ListUpcoming(ctx, start, UpcomingLimit)
	if err != nil {
		return AssignmentFormResult{}, fmt.Errorf("list upcoming: %w", err)
	}

	return AssignmentFormResult{
		Patients:    patients,
		Exercises:   exercises,
		Upcoming:    upcoming,
		DefaultDate: now.Format(schedule.DateLayout),
		DefaultTime: "09:00",
	}, nil
}
