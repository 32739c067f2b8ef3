package web

import (
	"errors"
	"log/slog"
	"net/http"

	"physio/internal/adapters/http/middleware"
	"physio/internal/application/orchestrators"
	"physio/internal/domain/account"
)

// loginFailedMessage is shown for every failed login; it never says which part was wrong.
const loginFailedMessage = "Invalid email or password."

// handleRoot sends visitors to their dashboard or the login page.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogin handles GET/POST /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{"Email": "", "Error": ""})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := orchestrators.LoginInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		})
		if err != nil {
			if !errors.Is(err, orchestrators.ErrInvalidCredentials) {
				slog.Error("auth_event", "event", "login_error", "error", err)
			}
			appMetrics.login("failed")
			renderTemplate(w, r, "login.html", map[string]any{
				"Email": input.Email,
				"Error": loginFailedMessage,
			})
			return
		}

		sess := middleware.Session{UserID: result.AccountID, Role: result.Role, DisplayName: result.Name}
		if err := sessions.Write(w, sess); err != nil {
			internalError(w, err)
			return
		}
		appMetrics.login("ok")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLogout handles GET/POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "account_id", sess.UserID)
	}
	sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleDashboard routes the logged-in account to the page for its role.
// PRE: request passed RequireAuth
// POST: Redirects to /physio or /patient; an unrecognised role ends the session
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	switch sess.Role {
	case account.RolePhysio:
		http.Redirect(w, r, "/physio", http.StatusSeeOther)
	case account.RolePatient:
		http.Redirect(w, r, "/patient", http.StatusSeeOther)
	default:
		slog.Warn("auth_event", "event", "unknown_role", "account_id", sess.UserID, "role", sess.Role.String())
		sessions.Clear(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// handleHealthz reports whether the database answers.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if healthCheck != nil {
		if err := healthCheck(r.Context()); err != nil {
			slog.Error("health_check_failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
