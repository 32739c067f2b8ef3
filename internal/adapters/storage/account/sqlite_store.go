package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"physio/internal/adapters/storage"
	domain "physio/internal/domain/account"
)

const accountColumns = "id, email, password_hash, role, name, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AccountStore.
// PRE: db is a valid, open database connection with the schema applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entity, err
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ?", email)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("%w: %s", ErrNotFound, email)
	}
	return entity, err
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email, password_hash=excluded.password_hash,
		   role=excluded.role, name=excluded.name`,
		entity.ID,
		entity.Email,
		entity.PasswordHash,
		entity.Role.String(),
		entity.Name,
		createdAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListByRole retrieves all accounts with the given role, ordered by name.
// PRE: role is a valid Role
// POST: Returns matching entities
func (s *SQLiteStore) ListByRole(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM account WHERE role = ? ORDER BY name ASC, email ASC", role.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of accounts.
// PRE: none
// POST: Returns total account count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// scanAccount extracts an Account from a row scanner function.
// The role is carried through as stored; callers decide what an unknown role means.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var role, createdAt string
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&role,
		&entity.Name,
		&createdAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.Role = domain.Role(role)
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}
