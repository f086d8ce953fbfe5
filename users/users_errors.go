package users

import "errors"

var (
	ErrNoSuchUser       = errors.New("no such user")
	ErrInvalidCriteria  = errors.New("invalid search criteria")
	ErrInvalidAttribute = errors.New("invalid user attribute")
	ErrDuplicateEmail   = errors.New("email already registered")
)
