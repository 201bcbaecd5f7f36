package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/storage"
)

// ReadState returns the cached application state. A missing row is reported
// as found == false with an empty state.
func (s *Store) ReadState(ctx context.Context) (models.AppState, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, constants.CacheStateKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EmptyState(), false, nil
		}
		return models.EmptyState(), false, fmt.Errorf("failed to read cached state: %w", err)
	}

	st, err := storage.DecodeState([]byte(value))
	if err != nil {
		return models.EmptyState(), false, err
	}
	return st, true, nil
}

// WriteState overwrites the cached application state
func (s *Store) WriteState(ctx context.Context, st models.AppState) error {
	data, err := storage.EncodeState(st)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		constants.CacheStateKey, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write cached state: %w", err)
	}
	return nil
}
