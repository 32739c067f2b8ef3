package web

import (
	"errors"
	"log/slog"
	"net/http"

	"physio/internal/adapters/http/middleware"
	"physio/internal/application/orchestrators"
	"physio/internal/application/projections"
	"physio/internal/domain/schedule"
)

// handlePhysio handles GET /physio
func handlePhysio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	form, err := projections.QueryGetAssignmentForm(r.Context(), projections.GetAssignmentFormDeps{
		AccountStore:  stores.AccountStore,
		ExerciseStore: stores.ExerciseStore,
		ScheduleStore: stores.ScheduleStore,
	}, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "physio.html", form)
}

// handleAssign handles POST /assign. Every outcome returns to /physio.
func handleAssign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.AssignExerciseInput{
		PhysioID:   sess.UserID,
		PatientID:  r.FormValue("patient_id"),
		ExerciseID: r.FormValue("exercise_id"),
		Date:       r.FormValue("date"),
		Time:       r.FormValue("time"),
	}
	_, err := orchestrators.ExecuteAssignExercise(r.Context(), input, orchestrators.AssignExerciseDeps{
		AccountStore:  stores.AccountStore,
		ExerciseStore: stores.ExerciseStore,
		ScheduleStore: stores.ScheduleStore,
		Notifier:      emailSender,
		Location:      timeNow().Location(),
	})
	switch {
	case err == nil:
		appMetrics.assignment("ok")
	case errors.Is(err, schedule.ErrInvalidSlot),
		errors.Is(err, orchestrators.ErrUnknownPatient),
		errors.Is(err, orchestrators.ErrUnknownExercise):
		appMetrics.assignment("rejected")
		slog.Warn("schedule_event", "event", "assign_rejected", "physio_id", sess.UserID, "error", err)
	default:
		appMetrics.assignment("error")
		slog.Error("schedule_event", "event", "assign_failed", "physio_id", sess.UserID, "error", err)
	}
	http.Redirect(w, r, "/physio", http.StatusSeeOther)
}
