package settings

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for settings persistence operations.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	SetThreshold(ctx context.Context, threshold int) error
	AddExclusion(ctx context.Context, deviceID string) error
	RemoveExclusion(ctx context.Context, deviceID string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed settings repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the persisted settings. A missing settings row yields the
// defaults rather than an error, so a fresh database behaves sensibly.
func (r *SQLiteRepository) Get(ctx context.Context) (*Settings, error) {
	s := &Settings{Threshold: DefaultThreshold}

	const query = `SELECT threshold, updated_at FROM monitor_settings WHERE id = 1`
	var updatedAt string
	err := r.db.QueryRowContext(ctx, query).Scan(&s.Threshold, &updatedAt)
	switch {
	case err == sql.ErrNoRows:
		// Fresh database: defaults apply, no exclusions possible yet
		// but read them anyway in case the row was deleted manually.
	case err != nil:
		return nil, fmt.Errorf("querying settings: %w", err)
	default:
		s.UpdatedAt = parseTime(updatedAt)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT device_id FROM excluded_devices ORDER BY device_id")
	if err != nil {
		return nil, fmt.Errorf("querying exclusions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning exclusion row: %w", err)
		}
		s.ExcludedDeviceIDs = append(s.ExcludedDeviceIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exclusion rows: %w", err)
	}

	return s, nil
}

// SetThreshold persists a new threshold, creating the settings row if needed.
func (r *SQLiteRepository) SetThreshold(ctx context.Context, threshold int) error {
	if threshold < 0 || threshold > 100 {
		return ErrInvalidThreshold
	}

	const query = `INSERT INTO monitor_settings (id, threshold, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET threshold = excluded.threshold,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, threshold, nowUTC())
	if err != nil {
		return fmt.Errorf("saving threshold: %w", err)
	}
	return nil
}

// AddExclusion records a device as excluded. Adding an already excluded
// device is a no-op.
func (r *SQLiteRepository) AddExclusion(ctx context.Context, deviceID string) error {
	const query = `INSERT INTO excluded_devices (device_id, excluded_at)
		VALUES (?, ?)
		ON CONFLICT (device_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, deviceID, nowUTC())
	if err != nil {
		return fmt.Errorf("adding exclusion %s: %w", deviceID, err)
	}
	return nil
}

// RemoveExclusion removes a device from the exclusion list.
// Returns ErrNotExcluded if the device was not excluded.
func (r *SQLiteRepository) RemoveExclusion(ctx context.Context, deviceID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM excluded_devices WHERE device_id = ?", deviceID)
	if err != nil {
		return fmt.Errorf("removing exclusion %s: %w", deviceID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrNotExcluded
	}
	return nil
}

// nowUTC returns the current time formatted the way SQLite stores it.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
