package web

import (
	"context"
	"net/http"
	"time"

	"physio/internal/adapters/email"
	"physio/internal/adapters/http/middleware"
	accountStore "physio/internal/adapters/storage/account"
	exerciseStore "physio/internal/adapters/storage/exercise"
	scheduleStore "physio/internal/adapters/storage/schedule"
	"physio/internal/domain/account"
	"physio/internal/domain/schedule"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore  accountStore.Store
	ExerciseStore exerciseStore.Store
	ScheduleStore scheduleStore.Store
}

// Options configures NewMux.
type Options struct {
	SessionSecret string
	Secure        bool                 // cookies over HTTPS only
	ExportScope   schedule.ExportScope // empty means pending
	RateLimit     float64              // requests per second per IP; <= 0 uses DefaultRateLimit
	SlowRequest   time.Duration
	Registry      *prometheus.Registry // nil creates a private registry
	Health        func(ctx context.Context) error
	EmailSender   email.Sender
}

// DefaultRateLimit is the per-IP request rate when none is configured.
const DefaultRateLimit = 10

// Global stores instance (set by NewMux)
var stores *Stores

// Global session codec (set by NewMux)
var sessions *middleware.SessionCodec

// Global email sender instance (set by NewMux); nil disables notifications.
var emailSender email.Sender

// exportScope decides which entries /calendar.ics carries.
var exportScope = schedule.ScopePending

// healthCheck backs /healthz; nil reports healthy.
var healthCheck func(ctx context.Context) error

// NewMux wires HTTP handlers and the middleware stack for the app.
// PRE: s holds all stores; opts.SessionSecret is non-empty
// POST: Returns a handler serving every route with sessions, CSRF, rate limiting and metrics
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	sessions = middleware.NewSessionCodec(opts.SessionSecret, opts.Secure)
	emailSender = opts.EmailSender
	healthCheck = opts.Health
	exportScope = opts.ExportScope
	if exportScope == "" {
		exportScope = schedule.ScopePending
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	appMetrics = newMetrics(reg)
	requestHist := middleware.NewRequestMetrics(reg)

	mux := http.NewServeMux()
	registerRoutes(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	rps := opts.RateLimit
	if rps <= 0 {
		rps = DefaultRateLimit
	}
	limiter := middleware.NewRateLimiter(rps, max(1, int(rps)*2))

	// Outermost first: Timing -> RateLimit -> SecurityHeaders -> CSRF -> Auth -> Mux
	return middleware.Chain(mux,
		middleware.Auth(sessions),
		middleware.CSRF(opts.SessionSecret, opts.Secure),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(requestHist, opts.SlowRequest),
	)
}

// registerRoutes maps every page route onto mux.
func registerRoutes(mux *http.ServeMux) {
	physioOnly := middleware.RequireRole(account.RolePhysio)
	patientOnly := middleware.RequireRole(account.RolePatient)

	mux.HandleFunc("/{$}", handleRoot)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/physio", physioOnly(http.HandlerFunc(handlePhysio)))
	mux.Handle("/assign", physioOnly(http.HandlerFunc(handleAssign)))
	mux.Handle("/patient", patientOnly(http.HandlerFunc(handlePatient)))
	mux.Handle("/done/{id}", patientOnly(http.HandlerFunc(handleDone)))
	mux.Handle("/calendar.ics", patientOnly(http.HandlerFunc(handleCalendar)))
	mux.HandleFunc("/healthz", handleHealthz)
}
