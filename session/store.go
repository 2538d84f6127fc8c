// Package session owns the current selection of one user: the picked
// location and the last view model built for it.
package session

import (
	"sync"
	"time"

	"skycast/models"
)

// Phase is the lifecycle position of a selection
type Phase string

const (
	PhaseEmpty     Phase = "empty"
	PhaseResolved  Phase = "resolved"
	PhasePopulated Phase = "populated"
)

// Status reports the outcome of the last request to the shell
type Status string

const (
	StatusOK               Status = "ok"
	StatusLocationNotFound Status = "location_not_found"
	StatusNetworkError     Status = "network_error"
	StatusMalformedPayload Status = "malformed_payload"
	StatusStale            Status = "stale"
	StatusInvalidRequest   Status = "invalid_request"
	// StatusSkipped answers a background refresh that yielded to a pending request
	StatusSkipped Status = "skipped"
)

// Snapshot is an immutable view of the selection. The store replaces it
// whole; it is never modified after publication.
type Snapshot struct {
	Phase      Phase                    `json:"phase"`
	Generation uint64                   `json:"generation"`
	Pending    bool                     `json:"pending"`
	Location   *models.LocationMatch    `json:"location,omitempty"`
	View       *models.WeatherViewModel `json:"view,omitempty"`
	Status     Status                   `json:"status"`
	Message    string                   `json:"message,omitempty"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// Store holds the selection and hands out generation tokens. A result is
// applied only while its token is the latest one issued.
type Store struct {
	mu          sync.RWMutex
	current     Snapshot
	subscribers map[int]chan Snapshot
	nextSub     int
	now         func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		current:     Snapshot{Phase: PhaseEmpty, Status: StatusOK},
		subscribers: make(map[int]chan Snapshot),
		now:         time.Now,
	}
}

// Snapshot returns the current selection
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Begin issues a new generation token, superseding every earlier one
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin()
}

// beginRefresh issues a token for refetching the current selection. A
// background refresh yields to a request already in flight and gets ok=false.
func (s *Store) beginRefresh(background bool) (token uint64, loc *models.LocationMatch, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc = s.current.Location
	if loc == nil || (background && s.current.Pending) {
		return 0, loc, false
	}
	return s.begin(), loc, true
}

// begin must be called with mu held
func (s *Store) begin() uint64 {
	next := s.current
	next.Generation++
	next.Pending = true
	s.publish(next)
	return next.Generation
}

// Current reports whether token is still the latest generation
func (s *Store) Current(token uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Generation == token
}

// Resolve records loc as the selection for token
func (s *Store) Resolve(token uint64, loc models.LocationMatch) bool {
	return s.replace(token, func(next *Snapshot) {
		next.Location = &loc
		if next.Phase == PhaseEmpty || next.View == nil || next.View.Location != loc {
			next.Phase = PhaseResolved
		}
	})
}

// Populate installs view for token, completing the request
func (s *Store) Populate(token uint64, view models.WeatherViewModel) bool {
	return s.replace(token, func(next *Snapshot) {
		loc := view.Location
		next.Phase = PhasePopulated
		next.Location = &loc
		next.View = &view
		next.Pending = false
		next.Status = StatusOK
		next.Message = ""
	})
}

// Fail completes the request for token with a failure status. The last
// good view model is kept.
func (s *Store) Fail(token uint64, status Status, message string) bool {
	return s.replace(token, func(next *Snapshot) {
		next.Pending = false
		next.Status = status
		next.Message = message
	})
}

// Subscribe returns a channel that receives every newly published snapshot.
// Slow readers only see the latest one. Call cancel to unsubscribe.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

func (s *Store) replace(token uint64, update func(next *Snapshot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Generation != token {
		return false
	}
	next := s.current
	update(&next)
	s.publish(next)
	return true
}

// publish must be called with mu held
func (s *Store) publish(next Snapshot) {
	next.UpdatedAt = s.now()
	s.current = next
	for _, ch := range s.subscribers {
		select {
		case ch <- next:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
}
