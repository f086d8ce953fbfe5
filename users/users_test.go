package users_test

import (
	"testing"

	"github.com/jrsteele09/go-session-auth/users"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordSaltsFreshly(t *testing.T) {
	first, err := users.HashPassword("Secret123")
	require.NoError(t, err)
	second, err := users.HashPassword("Secret123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, users.CheckPasswordHash("Secret123", first))
	require.True(t, users.CheckPasswordHash("Secret123", second))
}

func TestCheckPasswordHashRejectsWrongPassword(t *testing.T) {
	hash, err := users.HashPassword("Secret123")
	require.NoError(t, err)

	require.False(t, users.CheckPasswordHash("Secret124", hash))
	require.False(t, users.CheckPasswordHash("", hash))
}

func TestCheckPasswordHashMalformedHash(t *testing.T) {
	require.False(t, users.CheckPasswordHash("Secret123", "not-a-bcrypt-hash"))
	require.False(t, users.CheckPasswordHash("Secret123", ""))
}

func TestValidColumn(t *testing.T) {
	require.True(t, users.ValidColumn(users.ColumnEmail))
	require.True(t, users.ValidColumn(users.ColumnSessionID))
	require.False(t, users.ValidColumn("favourite_colour"))
}

func TestValidateCriteria(t *testing.T) {
	require.ErrorIs(t, users.ValidateCriteria(nil), users.ErrInvalidCriteria)
	require.ErrorIs(t, users.ValidateCriteria(map[string]string{}), users.ErrInvalidCriteria)
	require.ErrorIs(t, users.ValidateCriteria(map[string]string{"unknown": "x"}), users.ErrInvalidCriteria)
	require.NoError(t, users.ValidateCriteria(map[string]string{users.ColumnEmail: "a@b.c"}))
}

func TestColumnRoundTrip(t *testing.T) {
	u := &users.User{}
	u.SetColumn(users.ColumnEmail, "a@b.c")
	u.SetColumn(users.ColumnResetToken, "tok")

	require.Equal(t, "a@b.c", u.Column(users.ColumnEmail))
	require.Equal(t, "tok", u.Column(users.ColumnResetToken))
	require.Equal(t, "", u.Column(users.ColumnSessionID))
}
