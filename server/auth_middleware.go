package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-session-auth/auth"
	"github.com/jrsteele09/go-session-auth/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the authenticated user
const ContextKeyUser ContextKey = "user"

// RequireAuthMiddleware enforces authentication on every path not covered
// by the configured exclusion patterns. Requests with no credentials at all
// get 401; requests whose credentials do not resolve to a user get 403.
func (s *Server) RequireAuthMiddleware(next http.Handler) http.Handler {
	exclusions := s.config.GetExcludedPaths()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.RequireAuth(r.URL.Path, exclusions) {
			next.ServeHTTP(w, r)
			return
		}

		req := auth.FromHTTP(r)
		if !s.hasCredentials(req) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user := s.currentUser(r.Context(), req)
		if user == nil {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}

		log.Debug().Str("user_id", user.ID).Str("path", r.URL.Path).Msg("authenticated request")
		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// hasCredentials reports whether the request carries anything that could
// identify a user: an Authorization header or a session cookie.
func (s *Server) hasCredentials(req auth.Request) bool {
	if req.Header("Authorization") != "" {
		return true
	}
	for _, a := range s.authenticators {
		if _, ok := a.SessionCookie(req); ok {
			return true
		}
	}
	return false
}

// currentUser tries each authentication strategy in order and returns the
// first resolved identity.
func (s *Server) currentUser(ctx context.Context, req auth.Request) *users.User {
	for _, a := range s.authenticators {
		if user := a.CurrentUser(ctx, req); user != nil {
			return user
		}
	}
	return nil
}

// UserFromContext returns the user injected by RequireAuthMiddleware, nil
// when the request was not authenticated.
func UserFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(ContextKeyUser).(*users.User)
	return user
}
