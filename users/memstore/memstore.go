// Package memstore provides an in-memory users.Store for deployments that
// run without a database and for tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-session-auth/users"
)

// Store is a thread-safe in-memory implementation of users.Store.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*users.User // keyed by user ID
	nowTime func() time.Time
}

// Option defines a function type to modify the Store instance.
type Option func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// New creates a new in-memory user store.
func New(options ...Option) *Store {
	s := &Store{
		users:   make(map[string]*users.User),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// FindBy returns the single user matching every criteria column.
func (s *Store) FindBy(_ context.Context, criteria map[string]string) (*users.User, error) {
	if err := users.ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	found, err := s.findBy(criteria)
	if err != nil {
		return nil, err
	}

	// Return a copy to prevent external modifications
	copied := *found
	return &copied, nil
}

// findBy is FindBy without the locking or the copy; callers must hold s.mu.
func (s *Store) findBy(criteria map[string]string) (*users.User, error) {
	var found *users.User
	for _, user := range s.users {
		if !matches(user, criteria) {
			continue
		}
		if found != nil {
			// Ambiguous multi-match is a failed lookup, not a first-match win
			return nil, users.ErrNoSuchUser
		}
		found = user
	}
	if found == nil {
		return nil, users.ErrNoSuchUser
	}
	return found, nil
}

// Add inserts a new user, failing when the email is already registered. The
// duplicate check and the insert share one critical section so concurrent
// registrations of the same email cannot both succeed.
func (s *Store) Add(_ context.Context, email, hashedPassword string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findBy(map[string]string{users.ColumnEmail: email}); err == nil {
		return nil, users.ErrDuplicateEmail
	}

	user := &users.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      s.nowTime(),
	}
	s.users[user.ID] = user

	copied := *user
	return &copied, nil
}

// Update assigns the given columns on the user identified by userID.
func (s *Store) Update(_ context.Context, userID string, attrs map[string]string) error {
	if err := users.ValidateAttributes(attrs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return users.ErrNoSuchUser
	}
	for name, value := range attrs {
		user.SetColumn(name, value)
	}
	return nil
}

func matches(user *users.User, criteria map[string]string) bool {
	for name, value := range criteria {
		if user.Column(name) != value {
			return false
		}
	}
	return true
}
