package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/storage"
)

// SaveUser merge-writes u into the users table
func (s *Store) SaveUser(ctx context.Context, u models.UserRecord) error {
	doc, err := storage.EncodeDocument(u)
	if err != nil {
		return err
	}
	return s.SaveDocument(ctx, u.Profile.ID, doc)
}

// SaveDocument merges doc into the stored document for id
func (s *Store) SaveDocument(ctx context.Context, id string, doc map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing []byte
	err = tx.QueryRowContext(ctx, `SELECT doc FROM users WHERE id = ?`, id).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read user %s: %w", id, err)
	}

	merged, err := storage.MergeStored(existing, doc)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		id, string(merged), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", id, err)
	}

	return tx.Commit()
}

func (s *Store) GetAllUsers(ctx context.Context) (map[string]models.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make(map[string]models.UserRecord)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		u, err := storage.DecodeUser(doc)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", id, err)
		}
		users[id] = u
	}
	return users, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id string) (models.UserRecord, bool, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM users WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserRecord{}, false, nil
		}
		return models.UserRecord{}, false, fmt.Errorf("failed to read user %s: %w", id, err)
	}
	u, err := storage.DecodeUser(doc)
	if err != nil {
		return models.UserRecord{}, false, err
	}
	return u, true, nil
}

// DeleteUser removes the document for id. Deleting a missing id is not an error.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
