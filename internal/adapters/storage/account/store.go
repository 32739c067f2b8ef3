package account

import (
	"context"
	"errors"

	domain "physio/internal/domain/account"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
}
