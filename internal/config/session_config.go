package config

import (
	"strconv"
	"strings"
	"time"
)

type SessionConfig interface {
	GetSessionCookieName() string
	GetSessionDuration() time.Duration
	GetResetTokenSecret() string
	GetResetTokenValidity() time.Duration
	GetExcludedPaths() []string
}

type Session struct{}

var _ SessionConfig = Session{}

// defaultExcludedPaths covers the endpoints that must be reachable without
// credentials: registration, login/logout, the reset flow and the health
// probe. Patterns ending in '*' are prefix exclusions.
const defaultExcludedPaths = "/,/users/,/sessions/,/reset_password/,/api/v1/status/"

func (Session) GetSessionCookieName() string {
	return GetEnv("SESSION_NAME", "session_id")
}

// GetSessionDuration returns the session TTL. Zero (unset or unparsable)
// means sessions never expire.
func (Session) GetSessionDuration() time.Duration {
	seconds, err := strconv.Atoi(GetEnv("SESSION_DURATION", "0"))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func (Session) GetResetTokenSecret() string {
	return GetEnv("RESET_TOKEN_SECRET", "")
}

func (Session) GetResetTokenValidity() time.Duration {
	seconds, err := strconv.Atoi(GetEnv("RESET_TOKEN_VALIDITY", "900"))
	if err != nil || seconds <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(seconds) * time.Second
}

func (Session) GetExcludedPaths() []string {
	raw := GetEnv("AUTH_EXCLUDED_PATHS", defaultExcludedPaths)
	parts := strings.Split(raw, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
