package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"physio/internal/domain/account"
	"physio/internal/domain/exercise"

	"github.com/google/uuid"
)

// DefaultSeedPassword is used for the seeded accounts when none is configured.
const DefaultSeedPassword = "secret"

type seedAccountStore interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

type seedExerciseStore interface {
	GetByName(ctx context.Context, name string) (exercise.Exercise, error)
	Save(ctx context.Context, e exercise.Exercise) error
}

// SeedDeps holds stores needed for bootstrap seeding.
type SeedDeps struct {
	AccountStore  seedAccountStore
	ExerciseStore seedExerciseStore
}

// SeedInput configures bootstrap seeding.
type SeedInput struct {
	Password string // empty uses DefaultSeedPassword
}

type seedAccount struct {
	Email string
	Name  string
	Role  account.Role
}

func seedAccounts() []seedAccount {
	return []seedAccount{
		{Email: "physio@example.com", Name: "Physio", Role: account.RolePhysio},
		{Email: "patient@example.com", Name: "Patient", Role: account.RolePatient},
	}
}

func seedExercises() []exercise.Exercise {
	return []exercise.Exercise{
		{
			Name: "Cat-Camel",
			Instructions: "On hands and knees, slowly **arch** your back up, then let it sag down.\n\n" +
				"- 10 repetitions\n- Move within a comfortable range",
		},
	}
}

// ExecuteSeed creates the bootstrap accounts and exercise catalog.
// It is idempotent: rows that already exist (by email or exercise name) are skipped.
// PRE: Database is migrated
// POST: One physio, one patient and the seed exercises exist
func ExecuteSeed(ctx context.Context, input SeedInput, deps SeedDeps) error {
	password := input.Password
	if password == "" {
		password = DefaultSeedPassword
	}

	created := 0
	for _, def := range seedAccounts() {
		if _, err := deps.AccountStore.GetByEmail(ctx, def.Email); err == nil {
			continue
		}
		acct := account.Account{
			ID:        uuid.New().String(),
			Email:     def.Email,
			Role:      def.Role,
			Name:      def.Name,
			CreatedAt: time.Now(),
		}
		if err := acct.Validate(); err != nil {
			return fmt.Errorf("seed account %s: %w", def.Email, err)
		}
		if err := acct.SetPassword(password); err != nil {
			return fmt.Errorf("seed account %s: set password: %w", def.Email, err)
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return fmt.Errorf("seed account %s: save: %w", def.Email, err)
		}
		created++
		slog.Info("seed_event", "event", "account_created", "email", def.Email, "role", def.Role)
	}

	for _, ex := range seedExercises() {
		if _, err := deps.ExerciseStore.GetByName(ctx, ex.Name); err == nil {
			continue
		}
		ex.ID = uuid.New().String()
		if err := ex.Validate(); err != nil {
			return fmt.Errorf("seed exercise %s: %w", ex.Name, err)
		}
		if err := deps.ExerciseStore.Save(ctx, ex); err != nil {
			return fmt.Errorf("seed exercise %s: save: %w", ex.Name, err)
		}
		created++
		slog.Info("seed_event", "event", "exercise_created", "name", ex.Name)
	}

	if created > 0 {
		slog.Info("seed_event", "event", "seeded", "created", created)
	}
	return nil
}
