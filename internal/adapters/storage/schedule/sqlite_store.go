package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"physio/internal/adapters/storage"
	domain "physio/internal/domain/schedule"
)

// windowLayout keeps microseconds so an inclusive end bound sorts after HH:MM:SS values.
const windowLayout = "2006-01-02 15:04:05.999999"

// scheduledKey compares stored timestamps with the date-time separator normalised to a space.
const scheduledKey = "replace(s.scheduled_at, 'T', ' ')"

const itemSelect = `SELECT s.id, s.patient_id, a.name, s.exercise_id, e.name, e.instructions, s.scheduled_at, s.completed
	FROM schedule s
	JOIN exercise e ON e.id = s.exercise_id
	JOIN account a ON a.id = s.patient_id`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  storage.SQLDB
	loc *time.Location
}

// NewSQLiteStore creates a new ScheduleStore reading timestamps as server-local wall-clock times.
// PRE: db is a valid, open database connection with the schema applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, loc: time.Local}
}

// GetByID retrieves an Entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	var (
		entity                 domain.Entry
		scheduledAt, createdAt string
		completed              int
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, patient_id, exercise_id, scheduled_at, completed, assigned_by, created_at FROM schedule WHERE id = ?", id,
	).Scan(&entity.ID, &entity.PatientID, &entity.ExerciseID, &scheduledAt, &completed, &entity.AssignedBy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Entry{}, err
	}
	entity.Completed = completed != 0
	entity.ScheduledAt, err = domain.ParseTimestamp(scheduledAt, s.loc)
	if err != nil {
		return domain.Entry{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}

// Save persists an Entry to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); completed never goes back to 0
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Entry) error {
	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule (id, patient_id, exercise_id, scheduled_at, completed, assigned_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   patient_id=excluded.patient_id, exercise_id=excluded.exercise_id,
		   scheduled_at=excluded.scheduled_at, completed=MAX(schedule.completed, excluded.completed)`,
		entity.ID,
		entity.PatientID,
		entity.ExerciseID,
		domain.FormatTimestamp(entity.ScheduledAt),
		boolToInt(entity.Completed),
		entity.AssignedBy,
		createdAt.Format(time.RFC3339Nano),
	)
	return err
}

// MarkCompleted sets completed on the entry only when it belongs to patientID.
// PRE: id and patientID are non-empty
// POST: Returns true when a row matched; an entry of another patient is left unchanged
func (s *SQLiteStore) MarkCompleted(ctx context.Context, id, patientID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE schedule SET completed = 1 WHERE id = ? AND patient_id = ?", id, patientID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByPatientBetween returns the patient's entries with from <= scheduled_at <= to, ascending.
// PRE: from and to are in the store's location
// POST: Returns only rows owned by patientID; rows with unreadable timestamps are skipped
func (s *SQLiteStore) ListByPatientBetween(ctx context.Context, patientID string, from, to time.Time) ([]domain.Item, error) {
	return s.queryItems(ctx,
		itemSelect+" WHERE s.patient_id = ? AND "+scheduledKey+" BETWEEN ? AND ? ORDER BY "+scheduledKey+" ASC",
		patientID, from.Format(windowLayout), to.Format(windowLayout))
}

// ListForExport returns every entry of the patient regardless of date, ascending.
// PRE: patientID is non-empty
// POST: Completed entries are included only when includeCompleted is true
func (s *SQLiteStore) ListForExport(ctx context.Context, patientID string, includeCompleted bool) ([]domain.Item, error) {
	query := itemSelect + " WHERE s.patient_id = ?"
	if !includeCompleted {
		query += " AND s.completed = 0"
	}
	return s.queryItems(ctx, query+" ORDER BY "+scheduledKey+" ASC", patientID)
}

// ListUpcoming returns entries of all patients scheduled at or after from, soonest first.
// PRE: limit > 0
// POST: Returns at most limit items
func (s *SQLiteStore) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]domain.Item, error) {
	return s.queryItems(ctx,
		itemSelect+" WHERE "+scheduledKey+" >= ? ORDER BY "+scheduledKey+" ASC LIMIT ?",
		domain.FormatTimestamp(from), limit)
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var (
			item        domain.Item
			scheduledAt string
			completed   int
		)
		if err := rows.Scan(&item.EntryID, &item.PatientID, &item.PatientName, &item.ExerciseID,
			&item.ExerciseName, &item.Instructions, &scheduledAt, &completed); err != nil {
			return nil, err
		}
		at, err := domain.ParseTimestamp(scheduledAt, s.loc)
		if err != nil {
			slog.Warn("schedule_row_skipped", "entry_id", item.EntryID, "scheduled_at", scheduledAt, "error", err)
			continue
		}
		item.ScheduledAt = at
		item.Completed = completed != 0
		items = append(items, item)
	}
	return items, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
