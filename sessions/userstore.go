package sessions

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-session-auth/users"
)

// UserStore persists sessions as a column on the user row: at most one
// active session per user, so a new login invalidates the previous session.
// Atomicity is delegated to the underlying store's single-statement commits.
type UserStore struct {
	users users.Store
}

// NewUserStore creates a session store backed by the user table.
func NewUserStore(store users.Store) (*UserStore, error) {
	if store == nil {
		return nil, errors.New("[NewUserStore] user store is required")
	}
	return &UserStore{users: store}, nil
}

// Create issues a new session identifier and writes it to the user row,
// overwriting any previous session.
func (s *UserStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrNoUserID
	}

	sessionID := uuid.New().String()
	attrs := map[string]string{users.ColumnSessionID: sessionID}
	if err := s.users.Update(ctx, userID, attrs); err != nil {
		if errors.Is(err, users.ErrNoSuchUser) {
			return "", ErrNoUserID
		}
		return "", errors.Wrap(err, "[UserStore.Create] users.Update")
	}
	return sessionID, nil
}

// Resolve returns the id of the user whose row carries sessionID.
func (s *UserStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrNoSession
	}

	user, err := s.users.FindBy(ctx, map[string]string{users.ColumnSessionID: sessionID})
	if err != nil {
		return "", ErrNoSession
	}
	return user.ID, nil
}

// Destroy clears the session column on the owning user row, reporting
// whether the session was resolvable. Resolve and clear are separate
// statements, so two racing Destroy calls on the same id can both report
// true; the column still ends up cleared either way.
func (s *UserStore) Destroy(ctx context.Context, sessionID string) bool {
	userID, err := s.Resolve(ctx, sessionID)
	if err != nil {
		return false
	}
	attrs := map[string]string{users.ColumnSessionID: ""}
	return s.users.Update(ctx, userID, attrs) == nil
}
