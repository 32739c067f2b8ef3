package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"physio/internal/adapters/email"
	web "physio/internal/adapters/http"
	"physio/internal/adapters/storage"
	accountStore "physio/internal/adapters/storage/account"
	exerciseStore "physio/internal/adapters/storage/exercise"
	scheduleStore "physio/internal/adapters/storage/schedule"
	"physio/internal/application/orchestrators"
	"physio/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	if cfg.Production() {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	schema, err := storage.LoadSchema(cfg.SchemaPath)
	if err != nil {
		log.Fatalf("failed to load schema: %v", err)
	}
	if err := storage.Migrate(db, schema); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Stores share one timed pool so every query is measured
	timedDB := storage.NewTimedDB(db, storage.NewQueryMetrics(reg), cfg.SlowQuery)
	stores := &web.Stores{
		AccountStore:  accountStore.NewSQLiteStore(timedDB),
		ExerciseStore: exerciseStore.NewSQLiteStore(timedDB),
		ScheduleStore: scheduleStore.NewSQLiteStore(timedDB),
	}

	seedDeps := orchestrators.SeedDeps{AccountStore: stores.AccountStore, ExerciseStore: stores.ExerciseStore}
	if err := orchestrators.ExecuteSeed(context.Background(), orchestrators.SeedInput{Password: cfg.SeedPassword}, seedDeps); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	sender := email.NewSender(cfg.ResendKey, cfg.EmailFrom)
	if cfg.ResendKey == "" {
		slog.Info("email_event", "event", "sender_configured", "sender", "noop")
		if cfg.Production() {
			slog.Warn("email_event", "event", "delivery_disabled", "reason", "PHYSIO_RESEND_KEY not set")
		}
	} else {
		slog.Info("email_event", "event", "sender_configured", "sender", "resend")
	}

	mux := web.NewMux(stores, web.Options{
		SessionSecret: cfg.SecretKey,
		Secure:        cfg.Production(),
		ExportScope:   cfg.ExportScope,
		RateLimit:     cfg.RateLimit,
		SlowRequest:   cfg.SlowRequest,
		Registry:      reg,
		Health: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return timedDB.PingContext(ctx)
		},
		EmailSender: sender,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("server_start", "version", version, "addr", cfg.Addr, "env", cfg.Env, "export_scope", string(cfg.ExportScope))
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
