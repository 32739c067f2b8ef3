package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"physio/internal/adapters/email"
	"physio/internal/domain/account"
	"physio/internal/domain/exercise"
	"physio/internal/domain/schedule"
)

var errMemNotFound = errors.New("not found")

// --- in-memory test doubles ---

type memAccountStore struct {
	byID map[string]account.Account
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{byID: make(map[string]account.Account)}
}

// GetByID retrieves an account by ID from memory.
// PRE: id is non-empty
// POST: returns account or errMemNotFound
func (s *memAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := s.byID[id]
	if !ok {
		return account.Account{}, errMemNotFound
	}
	return a, nil
}

// GetByEmail retrieves an account by email from memory.
// PRE: email is non-empty
// POST: returns account or errMemNotFound
func (s *memAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range s.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, errMemNotFound
}

// Save persists an account in memory.
// PRE: account has an ID
// POST: account is stored by ID
func (s *memAccountStore) Save(_ context.Context, a account.Account) error {
	s.byID[a.ID] = a
	return nil
}

type memExerciseStore struct {
	byID map[string]exercise.Exercise
}

func newMemExerciseStore() *memExerciseStore {
	return &memExerciseStore{byID: make(map[string]exercise.Exercise)}
}

// GetByID retrieves an exercise by ID from memory.
// PRE: id is non-empty
// POST: returns exercise or errMemNotFound
func (s *memExerciseStore) GetByID(_ context.Context, id string) (exercise.Exercise, error) {
	e, ok := s.byID[id]
	if !ok {
		return exercise.Exercise{}, errMemNotFound
	}
	return e, nil
}

// GetByName retrieves an exercise by name from memory.
// PRE: name is non-empty
// POST: returns exercise or errMemNotFound
func (s *memExerciseStore) GetByName(_ context.Context, name string) (exercise.Exercise, error) {
	for _, e := range s.byID {
		if e.Name == name {
			return e, nil
		}
	}
	return exercise.Exercise{}, errMemNotFound
}

// Save persists an exercise in memory.
// PRE: exercise has an ID
// POST: exercise is stored by ID
func (s *memExerciseStore) Save(_ context.Context, e exercise.Exercise) error {
	s.byID[e.ID] = e
	return nil
}

type memScheduleStore struct {
	entries map[string]schedule.Entry
	saveErr error
}

func newMemScheduleStore() *memScheduleStore {
	return &memScheduleStore{entries: make(map[string]schedule.Entry)}
}

// Save persists an entry in memory, or returns saveErr when set.
// PRE: entry has an ID
// POST: entry is stored by ID
func (s *memScheduleStore) Save(_ context.Context, e schedule.Entry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entries[e.ID] = e
	return nil
}

// MarkCompleted completes an entry owned by patientID.
// PRE: id and patientID are non-empty
// POST: returns true when an owned entry matched
func (s *memScheduleStore) MarkCompleted(_ context.Context, id, patientID string) (bool, error) {
	e, ok := s.entries[id]
	if !ok || e.PatientID != patientID {
		return false, nil
	}
	e.Complete()
	s.entries[id] = e
	return true, nil
}

type recordingSender struct {
	sent     []email.SendRequest
	err      error
	ctxErr   error     // ctx.Err() seen by the last Send
	deadline time.Time // ctx deadline seen by the last Send
}

// Send records the request.
// PRE: none
// POST: request appended to sent; returns err when set
func (r *recordingSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	r.sent = append(r.sent, req)
	r.ctxErr = ctx.Err()
	r.deadline, _ = ctx.Deadline()
	return email.SendResult{MessageID: "rec"}, r.err
}

// mustAccount builds an account with a hashed password.
func mustAccount(t *testing.T, id, mail string, role account.Role, password string) account.Account {
	t.Helper()
	a := account.Account{ID: id, Email: mail, Role: role, Name: string(role)}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	return a
}
