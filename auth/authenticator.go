package auth

import (
	"context"

	"github.com/jrsteele09/go-session-auth/users"
)

// Authenticator resolves a request identity and decides whether a path
// needs one. Behavior is composed from explicit strategies (Basic
// credentials, session cookies) rather than a subclass hierarchy.
type Authenticator interface {
	// RequireAuth reports whether path needs authentication given the
	// configured exclusion patterns.
	RequireAuth(path string, exclusions []string) bool

	// CurrentUser resolves the request to a user, nil when the request
	// carries no usable credentials.
	CurrentUser(ctx context.Context, req Request) *users.User

	// SessionCookie returns the session identifier carried by the request,
	// false when the strategy is stateless or the cookie is absent.
	SessionCookie(req Request) (string, bool)
}

// SessionResolver resolves a session identifier to a user id.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (string, error)
}

// Basic authenticates requests from HTTP Basic credentials in the
// Authorization header.
type Basic struct {
	store users.Store
}

// NewBasic creates a Basic authentication strategy over the given store.
func NewBasic(store users.Store) *Basic {
	return &Basic{store: store}
}

func (b *Basic) RequireAuth(path string, exclusions []string) bool {
	return RequireAuth(path, exclusions)
}

// SessionCookie always reports absent: Basic auth carries no session state.
func (b *Basic) SessionCookie(Request) (string, bool) {
	return "", false
}

// CurrentUser runs the full decode chain, short-circuiting to nil at the
// first absent or malformed step.
func (b *Basic) CurrentUser(ctx context.Context, req Request) *users.User {
	if req == nil {
		return nil
	}
	token := ExtractToken(req.Header("Authorization"))
	if token == "" {
		return nil
	}
	decoded := DecodeToken(token)
	if decoded == "" {
		return nil
	}
	email, password := SplitCredentials(decoded)
	if email == "" || password == "" {
		return nil
	}
	return ResolveUser(ctx, b.store, email, password)
}

// Session authenticates requests from the configured session cookie.
type Session struct {
	store      users.Store
	resolver   SessionResolver
	cookieName string
}

// NewSession creates a cookie-session authentication strategy.
func NewSession(store users.Store, resolver SessionResolver, cookieName string) *Session {
	return &Session{store: store, resolver: resolver, cookieName: cookieName}
}

func (s *Session) RequireAuth(path string, exclusions []string) bool {
	return RequireAuth(path, exclusions)
}

// SessionCookie returns the value of the configured session cookie.
func (s *Session) SessionCookie(req Request) (string, bool) {
	if req == nil {
		return "", false
	}
	return req.Cookie(s.cookieName)
}

// CurrentUser resolves the session cookie to a user, nil when the cookie is
// absent, the session is unknown or expired, or the user row is gone.
func (s *Session) CurrentUser(ctx context.Context, req Request) *users.User {
	sessionID, ok := s.SessionCookie(req)
	if !ok {
		return nil
	}
	userID, err := s.resolver.Resolve(ctx, sessionID)
	if err != nil {
		return nil
	}
	user, err := s.store.FindBy(ctx, map[string]string{users.ColumnID: userID})
	if err != nil {
		return nil
	}
	return user
}
