package auth_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-session-auth/auth"
	"github.com/jrsteele09/go-session-auth/sessions"
	"github.com/jrsteele09/go-session-auth/sessions/memrepo"
	"github.com/jrsteele09/go-session-auth/users"
	"github.com/jrsteele09/go-session-auth/users/memstore"
	"github.com/stretchr/testify/require"
)

const testCookieName = "session_id"

func newStoreWithUser(t *testing.T, email, password string) (*memstore.Store, *users.User) {
	t.Helper()
	store := memstore.New()
	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	user, err := store.Add(context.Background(), email, hash)
	require.NoError(t, err)
	return store, user
}

func TestBasicCurrentUser(t *testing.T) {
	store, user := newStoreWithUser(t, "Aladdin", "opensesame")
	strategy := auth.NewBasic(store)
	ctx := context.Background()

	r := httptest.NewRequest("GET", "/profile", nil)
	r.Header.Set("Authorization", aladdinHeader)
	resolved := strategy.CurrentUser(ctx, auth.FromHTTP(r))
	require.NotNil(t, resolved)
	require.Equal(t, user.ID, resolved.ID)
}

func TestBasicCurrentUserShortCircuits(t *testing.T) {
	store, _ := newStoreWithUser(t, "Aladdin", "opensesame")
	strategy := auth.NewBasic(store)
	ctx := context.Background()

	for name, header := range map[string]string{
		"no header":       "",
		"not basic":       "Bearer abc",
		"bad base64":      "Basic !!!",
		"no colon":        "Basic QWxhZGRpbg==", // "Aladdin"
		"wrong password":  "Basic QWxhZGRpbjp3cm9uZw==",
		"unknown account": "Basic bm9ib2R5OnBhc3M=",
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/profile", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			require.Nil(t, strategy.CurrentUser(ctx, auth.FromHTTP(r)))
		})
	}
}

func TestSessionCurrentUser(t *testing.T) {
	store, user := newStoreWithUser(t, "john.doe@example.com", "password123")
	manager, err := sessions.NewManager(memrepo.New())
	require.NoError(t, err)
	strategy := auth.NewSession(store, manager, testCookieName)
	ctx := context.Background()

	sessionID, err := manager.Create(ctx, user.ID)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/profile", nil)
	r.Header.Set("Cookie", testCookieName+"="+sessionID)

	resolved := strategy.CurrentUser(ctx, auth.FromHTTP(r))
	require.NotNil(t, resolved)
	require.Equal(t, user.Email, resolved.Email)

	// Destroyed sessions never resolve again
	require.True(t, manager.Destroy(ctx, sessionID))
	require.Nil(t, strategy.CurrentUser(ctx, auth.FromHTTP(r)))
}

func TestSessionCurrentUserNoCookie(t *testing.T) {
	store, _ := newStoreWithUser(t, "john.doe@example.com", "password123")
	manager, err := sessions.NewManager(memrepo.New())
	require.NoError(t, err)
	strategy := auth.NewSession(store, manager, testCookieName)

	r := httptest.NewRequest("GET", "/profile", nil)
	require.Nil(t, strategy.CurrentUser(context.Background(), auth.FromHTTP(r)))

	_, ok := strategy.SessionCookie(auth.FromHTTP(r))
	require.False(t, ok)
}
