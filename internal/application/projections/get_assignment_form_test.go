package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"physio/internal/domain/account"
	"physio/internal/domain/exercise"
	"physio/internal/domain/schedule"
)

// TestQueryGetAssignmentForm verifies options, defaults and upcoming entries.
func TestQueryGetAssignmentForm(t *testing.T) {
	deps := GetAssignmentFormDeps{
		AccountStore: &memAccounts{accounts: []account.Account{
			{ID: "ph", Role: account.RolePhysio, Name: "Physio"},
			{ID: "pa", Role: account.RolePatient, Name: "Patient"},
		}},
		ExerciseStore: &memExercises{list: []exercise.Exercise{{ID: "e1", Name: "Cat-Camel"}}},
		ScheduleStore: &memSchedule{items: []schedule.Item{
			{EntryID: "yesterday", PatientID: "pa", ScheduledAt: day(0, 9, 0, 0)},
			{EntryID: "today", PatientID: "pa", ScheduledAt: day(1, 7, 0, 0)},
		}},
	}

	got, err := QueryGetAssignmentForm(context.Background(), deps, day(1, 12, 0, 0))
	if err != nil {
		t.Fatalf("QueryGetAssignmentForm: %v", err)
	}
	if len(got.Patients) != 1 || got.Patients[0].ID != "pa" {
		t.Errorf("Patients = %+v", got.Patients)
	}
	if len(got.Exercises) != 1 {
		t.Errorf("Exercises = %+v", got.Exercises)
	}
	if len(got.Upcoming) != 1 || got.Upcoming[0].EntryID != "today" {
		t.Errorf("Upcoming = %+v", got.Upcoming)
	}
	if got.DefaultDate != "2024-03-01" || got.DefaultTime != "09:00" {
		t.Errorf("defaults = %s %s", got.DefaultDate, got.DefaultTime)
	}
}

// TestQueryGetAssignmentForm_Error verifies catalog failures propagate.
func TestQueryGetAssignmentForm_Error(t *testing.T) {
	deps := GetAssignmentFormDeps{
		AccountStore:  &memAccounts{},
		ExerciseStore: &memExercises{err: errStore},
		ScheduleStore: &memSchedule{},
	}
	if _, err := QueryGetAssignmentForm(context.Background(), deps, time.Now()); !errors.Is(err, errStore) {
		t.Errorf("err = %v, want errStore", err)
	}
}
