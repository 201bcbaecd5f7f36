// Package jsonfile is a local cache kept in a single JSON file
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/noor/internal/errors"
	"github.com/julianstephens/noor/internal/models"
)

const fileVersion = 1

// document is the on-disk layout. The state lives under the cache key so the
// file reads the same as the original browser storage entry.
type document struct {
	Version int              `json:"version"`
	State   *models.AppState `json:"ramadan_progress_app,omitempty"`
}

type Store struct {
	mu   sync.Mutex
	path string
	doc  *document
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// Init creates an empty cache file. An existing file is left as is.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &document{Version: fileVersion}
	return s.save()
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.State != nil {
		doc.State.Normalize()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return nil
}

func (s *Store) Close() error {
	return nil
}

// save writes through a temp file so a crash never leaves a torn cache
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}

	return nil
}

func (s *Store) ReadState(_ context.Context) (models.AppState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return models.EmptyState(), false, fmt.Errorf("storage not loaded")
	}
	if s.doc.State == nil {
		return models.EmptyState(), false, nil
	}
	return *s.doc.State, true, nil
}

func (s *Store) WriteState(_ context.Context, st models.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.doc.State = &st
	return s.save()
}

func (s *Store) GetConfigPath() string {
	return s.path
}
