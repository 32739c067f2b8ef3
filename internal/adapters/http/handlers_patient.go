package web

import (
	"errors"
	"log/slog"
	"net/http"

	"physio/internal/adapters/calendarfeed"
	"physio/internal/adapters/http/middleware"
	"physio/internal/application/orchestrators"
	"physio/internal/application/projections"
)

// handlePatient handles GET /patient
func handlePatient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	agenda, err := projections.QueryGetDailyAgenda(r.Context(),
		projections.GetDailyAgendaQuery{PatientID: sess.UserID},
		projections.GetDailyAgendaDeps{ScheduleStore: stores.ScheduleStore},
		timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "patient.html", agenda)
}

// handleDone handles POST /done/{id}. Every outcome returns to /patient.
func handleDone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := orchestrators.ExecuteCompleteEntry(r.Context(), orchestrators.CompleteEntryInput{
		EntryID:   r.PathValue("id"),
		PatientID: sess.UserID,
	}, orchestrators.CompleteEntryDeps{ScheduleStore: stores.ScheduleStore})
	switch {
	case errors.Is(err, orchestrators.ErrInvalidEntryID):
		appMetrics.completion("rejected")
		slog.Warn("schedule_event", "event", "complete_rejected", "patient_id", sess.UserID, "error", err)
	case err != nil:
		appMetrics.completion("error")
		slog.Error("schedule_event", "event", "complete_failed", "patient_id", sess.UserID, "error", err)
	case result.Matched:
		appMetrics.completion("ok")
	default:
		appMetrics.completion("ignored")
	}
	http.Redirect(w, r, "/patient", http.StatusSeeOther)
}

// handleCalendar handles GET /calendar.ics
func handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	export, err := projections.QueryGetCalendarExport(r.Context(),
		projections.GetCalendarExportQuery{PatientID: sess.UserID, Scope: exportScope},
		projections.GetCalendarExportDeps{ScheduleStore: stores.ScheduleStore})
	if err != nil {
		internalError(w, err)
		return
	}
	body := calendarfeed.Encode(export.Items, timeNow())

	slog.Info("schedule_event", "event", "calendar_exported", "patient_id", sess.UserID, "events", len(export.Items))
	appMetrics.export()

	w.Header().Set("Content-Type", calendarfeed.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+calendarfeed.FileName+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(body))
}
