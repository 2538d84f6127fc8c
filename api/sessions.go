package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"skycast/session"
)

// sessionEntry is one user's session and when it was last used
type sessionEntry struct {
	session  *session.Session
	lastSeen time.Time
}

// SessionRegistry holds one selection session per browser, keyed by the
// session cookie
type SessionRegistry struct {
	sessions map[string]*sessionEntry
	factory  func() *session.Session
	now      func() time.Time
	mutex    sync.RWMutex
}

// NewSessionRegistry creates an empty registry; factory builds new sessions
func NewSessionRegistry(factory func() *session.Session) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*sessionEntry),
		factory:  factory,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for id, starting a new one under a fresh
// id when id is unknown. created reports whether a session was started.
func (r *SessionRegistry) GetOrCreate(id string) (sid string, s *session.Session, created bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if entry, exists := r.sessions[id]; exists && id != "" {
		entry.lastSeen = r.now()
		return id, entry.session, false
	}

	sid = uuid.NewString()
	entry := &sessionEntry{session: r.factory(), lastSeen: r.now()}
	r.sessions[sid] = entry
	return sid, entry.session, true
}

// Get returns the session for id without creating one
func (r *SessionRegistry) Get(id string) (*session.Session, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, exists := r.sessions[id]
	if !exists {
		return nil, false
	}
	return entry.session, true
}

// Sessions returns every live session
func (r *SessionRegistry) Sessions() []*session.Session {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*session.Session, 0, len(r.sessions))
	for _, entry := range r.sessions {
		out = append(out, entry.session)
	}
	return out
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.sessions)
}

// Prune removes sessions idle for longer than maxAge
func (r *SessionRegistry) Prune(maxAge time.Duration) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cutoff := r.now().Add(-maxAge)
	prunedCount := 0

	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			prunedCount++
		}
	}

	return prunedCount
}
