// Package reset implements single-use password-reset tokens.
package reset

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-session-auth/users"
)

// ErrInvalidToken is returned when a reset token cannot be resolved: bad
// signature, expired, already consumed, or never issued.
var ErrInvalidToken = errors.New("invalid reset token")

const defaultValidity = 15 * time.Minute

// Manager issues and consumes password-reset tokens. Tokens are signed JWTs
// bound to a user id and are additionally persisted on the user row:
// consuming a token clears the column, so a token is usable at most once
// even while its signature is still within the validity window. Issuing a
// new token overwrites any outstanding one.
type Manager struct {
	store    users.Store
	secret   []byte
	validity time.Duration
	nowTime  func() time.Time // nowTime function (injectable for testing)
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithValidity sets how long an issued token stays verifiable.
func WithValidity(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.validity = d
	}
}

// NewManager initializes a new reset token Manager.
func NewManager(store users.Store, secret []byte, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] user store is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("[NewManager] signing secret is required")
	}

	m := &Manager{
		store:    store,
		secret:   secret,
		validity: defaultValidity,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Issue creates a reset token for the account registered under email,
// overwriting any outstanding token. users.ErrNoSuchUser is returned
// unchanged when the email is unknown, so callers can surface it as a
// client error.
func (m *Manager) Issue(ctx context.Context, email string) (string, error) {
	user, err := m.store.FindBy(ctx, map[string]string{users.ColumnEmail: email})
	if err != nil {
		return "", err
	}

	now := m.nowTime()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] SignedString")
	}

	attrs := map[string]string{users.ColumnResetToken: token}
	if err := m.store.Update(ctx, user.ID, attrs); err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] users.Update")
	}
	return token, nil
}

// Consume validates token, rehashes newPassword and persists the new hash,
// clearing the token so it can never be used again.
func (m *Manager) Consume(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.nowTime))
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}

	// The column lookup is what enforces single use: a consumed token no
	// longer appears on any row even though its signature still verifies.
	user, err := m.store.FindBy(ctx, map[string]string{users.ColumnResetToken: token})
	if err != nil {
		return ErrInvalidToken
	}

	hash, err := users.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "[Manager.Consume] HashPassword")
	}

	attrs := map[string]string{
		users.ColumnHashedPassword: hash,
		users.ColumnResetToken:     "",
	}
	if err := m.store.Update(ctx, user.ID, attrs); err != nil {
		return errors.Wrap(err, "[Manager.Consume] users.Update")
	}
	return nil
}
