package sessions

import "context"

// Repo stores session records keyed by session identifier.
type Repo interface {
	// Upsert creates or replaces the record for sessionID
	Upsert(sessionID string, record Record) error

	// Get retrieves the record for sessionID
	Get(sessionID string) (Record, bool)

	// Delete removes the record for sessionID in one step, returning the
	// prior record and whether it was present
	Delete(sessionID string) (Record, bool)
}

// Store is the session lifecycle shared by the in-memory Manager and the
// user-column-backed UserStore.
type Store interface {
	// Create issues a new session identifier for userID
	Create(ctx context.Context, userID string) (string, error)

	// Resolve returns the user id the session identifier belongs to
	Resolve(ctx context.Context, sessionID string) (string, error)

	// Destroy removes the session, reporting whether it was resolvable
	Destroy(ctx context.Context, sessionID string) bool
}
