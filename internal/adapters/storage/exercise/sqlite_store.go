package exercise

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physio/internal/adapters/storage"
	domain "physio/internal/domain/exercise"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with the schema applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an exercise by ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Exercise, error) {
	var e domain.Exercise
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, instructions FROM exercise WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.Instructions)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Exercise{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// GetByName retrieves an exercise by its unique name.
// PRE: name is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Exercise, error) {
	var e domain.Exercise
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, instructions FROM exercise WHERE name = ?`, name,
	).Scan(&e.ID, &e.Name, &e.Instructions)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Exercise{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, err
}

// Save inserts or updates an exercise.
// PRE: e is a valid Exercise (Validate() returns nil)
// POST: exercise is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Exercise) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercise (id, name, instructions) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, instructions=excluded.instructions`,
		e.ID, e.Name, e.Instructions,
	)
	return err
}

// List returns the whole catalog ordered by name.
// PRE: none
// POST: Returns all exercises
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, instructions FROM exercise ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Exercise
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Instructions); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
