package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-session-auth/auth"
	"github.com/jrsteele09/go-session-auth/reset"
	"github.com/jrsteele09/go-session-auth/users"
)

// WelcomeHandler renders the welcome message.
func (s *Server) WelcomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "welcome"})
	}
}

// StatusHandler is the unauthenticated health probe.
func (s *Server) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}
}

// RegisterHandler creates a new user from email/password form values.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.FormValue("email")
		password := r.FormValue("password")
		if email == "" || password == "" {
			writeError(w, http.StatusBadRequest, "email and password required")
			return
		}

		hash, err := users.HashPassword(password)
		if err != nil {
			log.Err(err).Msg("failed to hash password")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if _, err := s.users.Add(r.Context(), email, hash); err != nil {
			if errors.Is(err, users.ErrDuplicateEmail) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email already registered"})
				return
			}
			log.Err(err).Msg("failed to add user")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"email": email, "message": "user created"})
	}
}

// LoginHandler checks credentials and issues a session cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.FormValue("email")
		password := r.FormValue("password")
		if email == "" || password == "" {
			writeError(w, http.StatusBadRequest, "email and password required")
			return
		}

		user := auth.ResolveUser(r.Context(), s.users, email, password)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "wrong credentials")
			return
		}

		sessionID, err := s.sessions.Create(r.Context(), user.ID)
		if err != nil {
			log.Err(err).Str("user_id", user.ID).Msg("failed to create session")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		s.SetSessionCookie(w, r, sessionID)
		writeJSON(w, http.StatusOK, map[string]string{"email": email, "message": "logged in"})
	}
}

// LogoutHandler destroys the session carried by the request cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := auth.FromHTTP(r).Cookie(s.config.GetSessionCookieName())
		if !ok {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		if !s.sessions.Destroy(r.Context(), sessionID) {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}

		s.ClearSessionCookie(w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ProfileHandler returns the authenticated user's email.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"email": user.Email})
	}
}

// ResetTokenHandler issues a password-reset token for the given email.
func (s *Server) ResetTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.FormValue("email")
		if email == "" {
			writeError(w, http.StatusBadRequest, "email required")
			return
		}

		token, err := s.reset.Issue(r.Context(), email)
		if err != nil {
			if errors.Is(err, users.ErrNoSuchUser) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			log.Err(err).Msg("failed to issue reset token")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"email": email, "reset_token": token})
	}
}

// UpdatePasswordHandler consumes a reset token and stores the new password.
func (s *Server) UpdatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.FormValue("email")
		token := r.FormValue("reset_token")
		newPassword := r.FormValue("new_password")
		if email == "" || token == "" || newPassword == "" {
			writeError(w, http.StatusBadRequest, "email, reset_token and new_password required")
			return
		}

		if err := s.reset.Consume(r.Context(), token, newPassword); err != nil {
			if errors.Is(err, reset.ErrInvalidToken) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			log.Err(err).Msg("failed to consume reset token")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"email": email, "message": "Password updated"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
