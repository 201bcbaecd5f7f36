package state

import (
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/noor/internal/auth"
	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/logger"
	"github.com/julianstephens/noor/internal/models"
)

// Op names the transition that produced a Change
type Op string

const (
	OpCreateUser     Op = "create_user"
	OpSelectUser     Op = "select_user"
	OpRequestLogin   Op = "request_login"
	OpConfirmLogin   Op = "confirm_login"
	OpUpdateProgress Op = "update_progress"
	OpAddBadge       Op = "add_badge"
	OpSetCurrentDay  Op = "set_current_day"
	OpLogout         Op = "logout"
	OpDeleteUser     Op = "delete_user"
	OpEnterAdmin     Op = "enter_admin"
	OpExitAdmin      Op = "exit_admin"
	OpReconcile      Op = "reconcile"
)

// Change is emitted to subscribers after every successful transition.
// UserID is the user the transition was about: the explicit target for
// create, select and delete, otherwise the active user before or after.
type Change struct {
	Op     Op
	Prev   models.AppState
	Next   models.AppState
	UserID string
}

// Listener receives changes in the order they were applied. It is called
// with the store locked and must not call back into the store.
type Listener func(Change)

// Option configures a Store
type Option func(*Store)

// WithClock sets the time source used for new progress records
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the function used to mint user ids
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithAuthenticator replaces the passcode and admin secret check
func WithAuthenticator(fn auth.Func) Option {
	return func(s *Store) { s.authenticate = fn }
}

// WithAdminSecret sets the secret compared by EnterAdminMode
func WithAdminSecret(secret string) Option {
	return func(s *Store) { s.adminSecret = secret }
}

// Store owns the current snapshot and notifies listeners of each transition
type Store struct {
	mu        sync.Mutex
	state     models.AppState
	listeners map[int]Listener
	nextID    int

	now          func() time.Time
	newID        func() string
	authenticate auth.Func
	adminSecret  string
}

// NewStore returns a store holding the empty state
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:        models.EmptyState(),
		listeners:    make(map[int]Listener),
		now:          time.Now,
		newID:        uuid.NewString,
		authenticate: auth.Authenticate,
		adminSecret:  constants.DefaultAdminSecret,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state. Callers must treat it as read-only.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and returns a function that removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Hydrate replaces the state without notifying listeners. It is used to load
// the local cache at startup, which must not trigger writes.
func (s *Store) Hydrate(st models.AppState) {
	st.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

// apply runs fn against the current state and publishes the result when it
// differs from the state fn was given
func (s *Store) apply(op Op, userID string, fn func(models.AppState) (models.AppState, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next, err := fn(prev)
	if err != nil {
		logger.Debug("Transition rejected", "op", op, "error", err)
		return err
	}
	// no-ops publish nothing, so nothing is written or pushed for them
	if reflect.DeepEqual(prev, next) {
		return nil
	}
	s.state = next

	if userID == "" {
		userID = prev.ActiveUserID
	}
	if userID == "" {
		userID = next.ActiveUserID
	}
	change := Change{Op: op, Prev: prev, Next: next, UserID: userID}
	for _, l := range s.listeners {
		l(change)
	}
	return nil
}

// CreateUser adds and activates a new user, returning its id
func (s *Store) CreateUser(fields models.NewUser) string {
	id := s.newID()
	_ = s.apply(OpCreateUser, id, func(st models.AppState) (models.AppState, error) {
		return CreateUser(st, id, fields), nil
	})
	return id
}

// SelectUser activates id without a passcode check
func (s *Store) SelectUser(id string) {
	_ = s.apply(OpSelectUser, id, func(st models.AppState) (models.AppState, error) {
		return SelectUser(st, id), nil
	})
}

// RequestLogin stages id for ConfirmLogin
func (s *Store) RequestLogin(id string) {
	_ = s.apply(OpRequestLogin, id, func(st models.AppState) (models.AppState, error) {
		return RequestLogin(st, id), nil
	})
}

// ConfirmLogin completes a staged login. It returns ErrAuthenticationFailed
// when the passcode does not match.
func (s *Store) ConfirmLogin(attempt string) error {
	return s.apply(OpConfirmLogin, "", func(st models.AppState) (models.AppState, error) {
		return ConfirmLogin(st, attempt, s.authenticate)
	})
}

// Login stages and confirms id in one call
func (s *Store) Login(id, passcode string) error {
	s.RequestLogin(id)
	return s.ConfirmLogin(passcode)
}

// UpdateProgress merges patch into the active user's day
func (s *Store) UpdateProgress(day int, patch models.ProgressPatch) {
	now := s.now()
	_ = s.apply(OpUpdateProgress, "", func(st models.AppState) (models.AppState, error) {
		return UpdateProgress(st, day, patch, now), nil
	})
}

// TogglePrayer flips one prayer flag on the active user's day. The complete
// six-flag value is passed to the merge.
func (s *Store) TogglePrayer(day int, p models.Prayer) {
	now := s.now()
	_ = s.apply(OpUpdateProgress, "", func(st models.AppState) (models.AppState, error) {
		u, ok := st.ActiveUser()
		if !ok {
			return st, nil
		}
		prayers := u.DayOrDefault(day).Prayers.Toggle(p)
		return UpdateProgress(st, day, models.PrayersPatch(prayers), now), nil
	})
}

// SetFasted sets the fasting status for the active user's day
func (s *Store) SetFasted(day int, f models.FastStatus) {
	s.UpdateProgress(day, models.FastedPatch(f))
}

// SetQuranPages sets the pages read on the active user's day
func (s *Store) SetQuranPages(day, pages int) {
	s.UpdateProgress(day, models.QuranPatch(pages))
}

// SetGoodDeed sets the good deed text on the active user's day
func (s *Store) SetGoodDeed(day int, deed string) {
	s.UpdateProgress(day, models.GoodDeedPatch(deed))
}

// AddBadge awards id to the active user
func (s *Store) AddBadge(id models.BadgeID) {
	_ = s.apply(OpAddBadge, "", func(st models.AppState) (models.AppState, error) {
		return AddBadge(st, id), nil
	})
}

// SetCurrentDay changes the active user's viewed day
func (s *Store) SetCurrentDay(day int) {
	_ = s.apply(OpSetCurrentDay, "", func(st models.AppState) (models.AppState, error) {
		return SetCurrentDay(st, day), nil
	})
}

// Logout clears the active user and admin mode
func (s *Store) Logout() {
	_ = s.apply(OpLogout, "", func(st models.AppState) (models.AppState, error) {
		return Logout(st), nil
	})
}

// DeleteUser removes id from the users map
func (s *Store) DeleteUser(id string) {
	_ = s.apply(OpDeleteUser, id, func(st models.AppState) (models.AppState, error) {
		return DeleteUser(st, id), nil
	})
}

// EnterAdminMode switches to the operator view if attempt matches the admin secret
func (s *Store) EnterAdminMode(attempt string) error {
	return s.apply(OpEnterAdmin, "", func(st models.AppState) (models.AppState, error) {
		return EnterAdminMode(st, attempt, s.adminSecret, s.authenticate)
	})
}

// ExitAdminMode leaves the operator view
func (s *Store) ExitAdminMode() {
	_ = s.apply(OpExitAdmin, "", func(st models.AppState) (models.AppState, error) {
		return ExitAdminMode(st), nil
	})
}

// Reconcile replaces the users map with the remote one
func (s *Store) Reconcile(remoteUsers map[string]models.UserRecord) {
	_ = s.apply(OpReconcile, "", func(st models.AppState) (models.AppState, error) {
		return Reconcile(st, remoteUsers), nil
	})
}
