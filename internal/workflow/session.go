package workflow

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/manno/inflow/internal/navigator"
)

var (
	// ErrSessionNotFound is returned for ids that were never started or have
	// been reset.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidSessionID is returned for an empty session id.
	ErrInvalidSessionID = errors.New("invalid session id")
)

// NewID returns a random session id.
func NewID() string {
	return uuid.New().String()
}

// NewSession creates a new session positioned on the first step. An empty
// id gets a random one.
func NewSession(id string) *Session {
	if id == "" {
		id = NewID()
	}
	now := time.Now()
	return &Session{
		ID:        id,
		State:     navigator.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type entry struct {
	mu      sync.Mutex
	session *Session
	deleted bool
}

// Repository keeps sessions in memory. Calls for one id are serialized,
// calls for different ids run concurrently.
type Repository struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{entries: make(map[string]*entry)}
}

// Do runs fn with the session locked. With create set a missing session is
// created first, otherwise ErrSessionNotFound is returned. The session's ID
// always equals id.
func (r *Repository) Do(id string, create bool, fn func(*Session) error) error {
	if id == "" {
		return ErrInvalidSessionID
	}
	for {
		e := r.lookup(id, create)
		if e == nil {
			return ErrSessionNotFound
		}

		e.mu.Lock()
		if e.deleted {
			// lost a race with Delete, look again
			e.mu.Unlock()
			continue
		}
		err := fn(e.session)
		e.mu.Unlock()
		return err
	}
}

func (r *Repository) lookup(id string, create bool) *entry {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if ok || !create {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		return e
	}
	e = &entry{session: NewSession(id)}
	r.entries[id] = e
	return e
}

// Delete removes a session and reports whether it existed. It waits for an
// in-flight Do on the same id to finish.
func (r *Repository) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()
	return true
}

// Len returns the number of live sessions.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns the live session ids, sorted.
func (r *Repository) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
