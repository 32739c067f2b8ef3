package exercise

import (
	"context"
	"errors"

	domain "physio/internal/domain/exercise"
)

// ErrNotFound is returned when no exercise matches the lookup.
var ErrNotFound = errors.New("exercise not found")

// Store persists the exercise catalog.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Exercise, error)
	GetByName(ctx context.Context, name string) (domain.Exercise, error)
	Save(ctx context.Context, value domain.Exercise) error
	List(ctx context.Context) ([]domain.Exercise, error)
}
