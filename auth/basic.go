package auth

import (
	"context"
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/jrsteele09/go-session-auth/users"
)

const basicPrefix = "Basic "

// The decode chain below is deliberately total: malformed input at any step
// degrades to the empty string rather than an error, so the authorization
// layer treats "malformed" and "absent" credentials identically.

// ExtractToken returns the base64 payload of a Basic Authorization header,
// or "" when the header is missing or not a Basic credential.
func ExtractToken(header string) string {
	if !strings.HasPrefix(header, basicPrefix) {
		return ""
	}
	return header[len(basicPrefix):]
}

// DecodeToken base64-decodes token to UTF-8 text, "" on any failure.
func DecodeToken(token string) string {
	if token == "" {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil || !utf8.Valid(decoded) {
		return ""
	}
	return string(decoded)
}

// SplitCredentials splits decoded credentials on the first colon, so the
// password may itself contain colons. Empty pair when no colon is present.
func SplitCredentials(decoded string) (string, string) {
	email, password, ok := strings.Cut(decoded, ":")
	if !ok {
		return "", ""
	}
	return email, password
}

// ResolveUser returns the user registered under email whose stored hash
// verifies against password, or nil when the lookup fails or the password
// does not match.
func ResolveUser(ctx context.Context, store users.Store, email, password string) *users.User {
	if email == "" || password == "" {
		return nil
	}
	user, err := store.FindBy(ctx, map[string]string{users.ColumnEmail: email})
	if err != nil {
		return nil
	}
	if !users.CheckPasswordHash(password, user.HashedPassword) {
		return nil
	}
	return user
}
