package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Manager issues, resolves and revokes opaque session identifiers backed by
// a Repo. A user may hold any number of concurrent sessions. With a
// positive TTL, expiry is evaluated lazily on Resolve; there is no
// background sweeper. An expired or destroyed identifier never resolves
// again until reissued.
type Manager struct {
	repo    Repo
	ttl     time.Duration
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithTTL sets the session time-to-live. Zero or negative disables expiry.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// NewManager initializes a new Manager with the given session repository.
func NewManager(repo Repo, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[NewManager] session repo is required")
	}

	m := &Manager{
		repo:    repo,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Create issues a new unguessable session identifier for userID. Existing
// sessions for the same user are left untouched.
func (m *Manager) Create(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrNoUserID
	}

	sessionID := uuid.New().String()
	record := Record{UserID: userID, CreatedAt: m.nowTime()}
	if err := m.repo.Upsert(sessionID, record); err != nil {
		return "", errors.Wrap(err, "[Manager.Create] repo.Upsert")
	}
	return sessionID, nil
}

// Resolve returns the user id for sessionID. Expired records are removed on
// read so a session that has once expired can never resolve again.
func (m *Manager) Resolve(_ context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrNoSession
	}

	record, ok := m.repo.Get(sessionID)
	if !ok {
		return "", ErrNoSession
	}
	if m.expired(record) {
		m.repo.Delete(sessionID)
		return "", ErrSessionExpired
	}
	return record.UserID, nil
}

func (m *Manager) expired(record Record) bool {
	return m.ttl > 0 && m.nowTime().After(record.CreatedAt.Add(m.ttl))
}

// Destroy removes sessionID, reporting whether it was present and
// resolvable. Destroying an unknown or expired session returns false and
// never raises. Removal and the presence check are a single repo operation,
// so racing Destroy calls on the same id report true at most once.
func (m *Manager) Destroy(_ context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}

	record, ok := m.repo.Delete(sessionID)
	if !ok {
		return false
	}
	return !m.expired(record)
}
