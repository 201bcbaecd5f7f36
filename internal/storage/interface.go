package storage

import (
	"context"

	"github.com/julianstephens/noor/internal/models"
)

// Lifecycle is shared by every backend. Init creates the backing store and
// applies migrations, Load opens an existing one.
type Lifecycle interface {
	Init() error
	Load() error
	Close() error
}

// Cache is the device-local copy of the whole application state, stored
// as one JSON blob under a single key.
type Cache interface {
	// ReadState returns the cached state. found is false when nothing has
	// been written yet, which is a valid empty state.
	ReadState(ctx context.Context) (st models.AppState, found bool, err error)
	WriteState(ctx context.Context, st models.AppState) error
}

// Remote is the authoritative per-user document store
type Remote interface {
	// SaveUser merge-writes u: fields absent from u are kept, arrays are replaced.
	SaveUser(ctx context.Context, u models.UserRecord) error
	// SaveDocument merge-writes a raw, possibly partial, user document.
	// Nested objects merge key by key.
	SaveDocument(ctx context.Context, id string, doc map[string]any) error
	GetAllUsers(ctx context.Context) (map[string]models.UserRecord, error)
	GetUser(ctx context.Context, id string) (models.UserRecord, bool, error)
	DeleteUser(ctx context.Context, id string) error
}

// CacheProvider is a local cache backend
type CacheProvider interface {
	Lifecycle
	Cache
	GetConfigPath() string
}

// RemoteProvider is a remote store backend
type RemoteProvider interface {
	Lifecycle
	Remote
}
