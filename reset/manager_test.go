package reset_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-session-auth/reset"
	"github.com/jrsteele09/go-session-auth/users"
	"github.com/jrsteele09/go-session-auth/users/memstore"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "john.doe@example.com"
	testPassword = "password123"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

type fixture struct {
	store   *memstore.Store
	manager *reset.Manager
	user    *users.User
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memstore.New(),
		now:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)
	f.user, err = f.store.Add(context.Background(), testEmail, hash)
	require.NoError(t, err)

	f.manager, err = reset.NewManager(f.store, []byte(testSecret),
		reset.WithNowTime(func() time.Time { return f.now }),
	)
	require.NoError(t, err)
	return f
}

func TestIssueUnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Issue(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, users.ErrNoSuchUser)
}

func TestIssueAndConsume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.manager.Issue(ctx, testEmail)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, f.manager.Consume(ctx, token, "newpass"))

	user, err := f.store.FindBy(ctx, map[string]string{users.ColumnEmail: testEmail})
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("newpass", user.HashedPassword))
	require.False(t, users.CheckPasswordHash(testPassword, user.HashedPassword))
	require.Empty(t, user.ResetToken)
}

func TestConsumeIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.manager.Issue(ctx, testEmail)
	require.NoError(t, err)
	require.NoError(t, f.manager.Consume(ctx, token, "newpass"))

	err = f.manager.Consume(ctx, token, "another")
	require.ErrorIs(t, err, reset.ErrInvalidToken)
}

func TestIssueOverwritesOutstandingToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.manager.Issue(ctx, testEmail)
	require.NoError(t, err)
	f.now = f.now.Add(time.Second) // fresh iat so the second token differs
	second, err := f.manager.Issue(ctx, testEmail)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// The earlier token no longer appears on the user row
	err = f.manager.Consume(ctx, first, "newpass")
	require.ErrorIs(t, err, reset.ErrInvalidToken)
	require.NoError(t, f.manager.Consume(ctx, second, "newpass"))
}

func TestConsumeExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.manager.Issue(ctx, testEmail)
	require.NoError(t, err)

	f.now = f.now.Add(16 * time.Minute)
	err = f.manager.Consume(ctx, token, "newpass")
	require.ErrorIs(t, err, reset.ErrInvalidToken)
}

func TestConsumeGarbageToken(t *testing.T) {
	f := newFixture(t)

	require.ErrorIs(t, f.manager.Consume(context.Background(), "", "x"), reset.ErrInvalidToken)
	require.ErrorIs(t, f.manager.Consume(context.Background(), "not-a-jwt", "x"), reset.ErrInvalidToken)
}

func TestNewManagerValidation(t *testing.T) {
	_, err := reset.NewManager(nil, []byte(testSecret))
	require.Error(t, err)
	_, err = reset.NewManager(memstore.New(), nil)
	require.Error(t, err)
}
