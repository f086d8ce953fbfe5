package sessions

import "errors"

var (
	ErrNoUserID       = errors.New("no user id")
	ErrNoSession      = errors.New("session not found")
	ErrSessionExpired = errors.New("session expired")
)
