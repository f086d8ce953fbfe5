package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a single row in the credential table.
type User struct {
	ID             string    `json:"id,omitempty"`         // Unique identifier for the user
	Email          string    `json:"email,omitempty"`      // User's email address, unique across the table
	HashedPassword string    `json:"-"`                    // Bcrypt hash of the user's password - never serialize
	SessionID      string    `json:"-"`                    // Active session id in the persisted-session deployment
	ResetToken     string    `json:"-"`                    // Outstanding password-reset token, if any
	CreatedAt      time.Time `json:"created_at,omitempty"` // When the user registered
}

// Column names accepted as Store criteria keys and Update attributes.
const (
	ColumnID             = "id"
	ColumnEmail          = "email"
	ColumnHashedPassword = "hashed_password"
	ColumnSessionID      = "session_id"
	ColumnResetToken     = "reset_token"
)

var columnNames = map[string]struct{}{
	ColumnID:             {},
	ColumnEmail:          {},
	ColumnHashedPassword: {},
	ColumnSessionID:      {},
	ColumnResetToken:     {},
}

// ValidColumn reports whether name is a known User column.
func ValidColumn(name string) bool {
	_, ok := columnNames[name]
	return ok
}

// Column returns the value of the named column. Callers must validate the
// name first; unknown names yield the empty string.
func (u *User) Column(name string) string {
	switch name {
	case ColumnID:
		return u.ID
	case ColumnEmail:
		return u.Email
	case ColumnHashedPassword:
		return u.HashedPassword
	case ColumnSessionID:
		return u.SessionID
	case ColumnResetToken:
		return u.ResetToken
	}
	return ""
}

// SetColumn assigns the named column. Unknown names are ignored; callers
// must validate the name first.
func (u *User) SetColumn(name, value string) {
	switch name {
	case ColumnID:
		u.ID = value
	case ColumnEmail:
		u.Email = value
	case ColumnHashedPassword:
		u.HashedPassword = value
	case ColumnSessionID:
		u.SessionID = value
	case ColumnResetToken:
		u.ResetToken = value
	}
}

// HashPassword produces a salted bcrypt hash of password. Each call salts
// freshly, so hashing the same password twice yields different outputs.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password against a stored hash in
// constant time. Malformed hashes compare as false, never as an error.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
