// Package memrepo provides a thread-safe in-memory sessions.Repo.
package memrepo

import (
	"sync"

	"github.com/jrsteele09/go-session-auth/sessions"
)

// Repo is an in-memory implementation of sessions.Repo.
type Repo struct {
	mu      sync.RWMutex
	records map[string]sessions.Record
}

// New creates a new in-memory session repository.
func New() *Repo {
	return &Repo{
		records: make(map[string]sessions.Record),
	}
}

// Upsert creates or replaces the record for sessionID.
func (r *Repo) Upsert(sessionID string, record sessions.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[sessionID] = record
	return nil
}

// Get retrieves the record for sessionID.
func (r *Repo) Get(sessionID string) (sessions.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[sessionID]
	return record, ok
}

// Delete removes the record for sessionID, returning the prior record and
// whether it was present. Deleting an absent record is a no-op.
func (r *Repo) Delete(sessionID string) (sessions.Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[sessionID]
	if ok {
		delete(r.records, sessionID)
	}
	return record, ok
}
