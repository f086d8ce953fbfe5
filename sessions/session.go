package sessions

import "time"

// Record maps an opaque session identifier to the user it belongs to.
type Record struct {
	UserID    string    // User the session was issued for
	CreatedAt time.Time // When the session was created; expiry is CreatedAt + TTL
}
