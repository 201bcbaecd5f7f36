// Package memory provides in-process Cache and Remote implementations.
// They back local-only runs of the document service and the tests.
package memory

import (
	"context"
	"sync"

	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/storage"
)

// Remote keeps user documents in a map with the same merge-write semantics
// as the database backends. Setting Err makes every call fail with it.
type Remote struct {
	mu   sync.Mutex
	docs map[string][]byte
	err  error

	saves   []string
	deletes []string
}

func NewRemote() *Remote {
	return &Remote{docs: make(map[string][]byte)}
}

// Seed stores users as-is, replacing any existing documents
func (r *Remote) Seed(users ...models.UserRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		doc, err := storage.MergeUser(nil, u)
		if err != nil {
			panic(err)
		}
		r.docs[u.Profile.ID] = doc
	}
}

// FailWith makes subsequent calls return err; nil restores normal operation
func (r *Remote) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Saves returns the ids of every save, in call order
func (r *Remote) Saves() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saves...)
}

// Deletes returns the ids passed to DeleteUser, in call order
func (r *Remote) Deletes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deletes...)
}

func (r *Remote) Init() error  { return nil }
func (r *Remote) Load() error  { return nil }
func (r *Remote) Close() error { return nil }

func (r *Remote) SaveUser(ctx context.Context, u models.UserRecord) error {
	doc, err := storage.EncodeDocument(u)
	if err != nil {
		return err
	}
	return r.SaveDocument(ctx, u.Profile.ID, doc)
}

func (r *Remote) SaveDocument(ctx context.Context, id string, doc map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, id)
	if r.err != nil {
		return r.err
	}

	merged, err := storage.MergeStored(r.docs[id], doc)
	if err != nil {
		return err
	}
	r.docs[id] = merged
	return nil
}

func (r *Remote) GetAllUsers(ctx context.Context) (map[string]models.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	users := make(map[string]models.UserRecord, len(r.docs))
	for id, doc := range r.docs {
		u, err := storage.DecodeUser(doc)
		if err != nil {
			return nil, err
		}
		users[id] = u
	}
	return users, nil
}

func (r *Remote) GetUser(ctx context.Context, id string) (models.UserRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.UserRecord{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return models.UserRecord{}, false, r.err
	}

	doc, ok := r.docs[id]
	if !ok {
		return models.UserRecord{}, false, nil
	}
	u, err := storage.DecodeUser(doc)
	if err != nil {
		return models.UserRecord{}, false, err
	}
	return u, true, nil
}

func (r *Remote) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, id)
	if r.err != nil {
		return r.err
	}
	delete(r.docs, id)
	return nil
}

// Cache holds the serialized state in memory
type Cache struct {
	mu     sync.Mutex
	data   []byte
	writes int
	err    error
}

func NewCache() *Cache {
	return &Cache{}
}

// FailWith makes subsequent calls return err
func (c *Cache) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Writes returns how many times WriteState succeeded
func (c *Cache) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func (c *Cache) Init() error           { return nil }
func (c *Cache) Load() error           { return nil }
func (c *Cache) Close() error          { return nil }
func (c *Cache) GetConfigPath() string { return ":memory:" }

func (c *Cache) ReadState(_ context.Context) (models.AppState, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return models.EmptyState(), false, c.err
	}
	if c.data == nil {
		return models.EmptyState(), false, nil
	}
	st, err := storage.DecodeState(c.data)
	if err != nil {
		return models.EmptyState(), false, err
	}
	return st, true, nil
}

func (c *Cache) WriteState(_ context.Context, st models.AppState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	data, err := storage.EncodeState(st)
	if err != nil {
		return err
	}
	c.data = data
	c.writes++
	return nil
}
