package schedule

import (
	"context"
	"errors"
	"time"

	domain "physio/internal/domain/schedule"
)

// ErrNotFound is returned when no schedule entry matches the lookup.
var ErrNotFound = errors.New("schedule entry not found")

// Store persists schedule entries and reads them back as typed Items.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, value domain.Entry) error
	MarkCompleted(ctx context.Context, id, patientID string) (bool, error)
	ListByPatientBetween(ctx context.Context, patientID string, from, to time.Time) ([]domain.Item, error)
	ListForExport(ctx context.Context, patientID string, includeCompleted bool) ([]domain.Item, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]domain.Item, error)
}
