//go:build integration

package pgstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-session-auth/users"
	"github.com/jrsteele09/go-session-auth/users/pgstore"
)

func newIntegrationStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN not set, skipping integration test")
	}

	store, err := pgstore.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.RunMigrations(context.Background()))
	return store
}

// uniqueEmail keeps runs independent on a persistent database.
func uniqueEmail() string {
	return fmt.Sprintf("it-%s@example.com", uuid.New().String())
}

func TestIntegrationAddAndFindBy(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()
	email := uniqueEmail()

	added, err := store.Add(ctx, email, "hashed")
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)
	require.False(t, added.CreatedAt.IsZero())

	found, err := store.FindBy(ctx, map[string]string{users.ColumnEmail: email})
	require.NoError(t, err)
	require.Equal(t, added.ID, found.ID)
	require.Empty(t, found.SessionID)
	require.Empty(t, found.ResetToken)

	byID, err := store.FindBy(ctx, map[string]string{users.ColumnID: added.ID})
	require.NoError(t, err)
	require.Equal(t, email, byID.Email)
}

func TestIntegrationAddDuplicateEmail(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()
	email := uniqueEmail()

	_, err := store.Add(ctx, email, "hashed")
	require.NoError(t, err)

	_, err = store.Add(ctx, email, "other")
	require.ErrorIs(t, err, users.ErrDuplicateEmail)
}

func TestIntegrationNullableColumnRoundTrip(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, uniqueEmail(), "hashed")
	require.NoError(t, err)
	token := uuid.New().String()

	require.NoError(t, store.Update(ctx, added.ID, map[string]string{users.ColumnResetToken: token}))

	found, err := store.FindBy(ctx, map[string]string{users.ColumnResetToken: token})
	require.NoError(t, err)
	require.Equal(t, added.ID, found.ID)

	// Clearing writes NULL; the old token no longer matches and the column
	// reads back empty
	require.NoError(t, store.Update(ctx, added.ID, map[string]string{users.ColumnResetToken: ""}))

	_, err = store.FindBy(ctx, map[string]string{users.ColumnResetToken: token})
	require.ErrorIs(t, err, users.ErrNoSuchUser)

	found, err = store.FindBy(ctx, map[string]string{users.ColumnID: added.ID})
	require.NoError(t, err)
	require.Empty(t, found.ResetToken)
}

func TestIntegrationMalformedIDIsAMiss(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	_, err := store.FindBy(ctx, map[string]string{users.ColumnID: "not-a-uuid"})
	require.ErrorIs(t, err, users.ErrNoSuchUser)

	err = store.Update(ctx, "not-a-uuid", map[string]string{users.ColumnSessionID: "s"})
	require.ErrorIs(t, err, users.ErrNoSuchUser)
}

func TestIntegrationUpdateUnknownUser(t *testing.T) {
	store := newIntegrationStore(t)

	err := store.Update(context.Background(), uuid.New().String(), map[string]string{users.ColumnSessionID: "s"})
	require.ErrorIs(t, err, users.ErrNoSuchUser)
}
