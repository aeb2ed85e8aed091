package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("quiz session not found")

type entry struct {
	mu       sync.Mutex
	userID   int64
	session  *Session
	rewarded bool
	touched  time.Time
}

// Registry holds live quiz sessions in memory. Each session belongs to one
// user and is only reachable with that user's id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry), now: time.Now}
}

// Add stores a session and returns its id.
func (r *Registry) Add(userID int64, s *Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &entry{userID: userID, session: s, touched: r.now()}
	r.mu.Unlock()
	return id
}

func (r *Registry) lookup(id string, userID int64) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.userID != userID {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// With runs fn while holding the session's lock.
func (r *Registry) With(id string, userID int64, fn func(s *Session, rewarded *bool) error) error {
	e, err := r.lookup(id, userID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = r.now()
	return fn(e.session, &e.rewarded)
}

func (r *Registry) Remove(id string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.userID != userID {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Sweep drops sessions idle for longer than maxIdle and returns how many.
// Entry locks are taken without holding the registry lock, so a session
// busy in With only delays its own check.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	type candidate struct {
		id string
		e  *entry
	}
	r.mu.Lock()
	all := make([]candidate, 0, len(r.sessions))
	for id, e := range r.sessions {
		all = append(all, candidate{id, e})
	}
	r.mu.Unlock()

	var idle []candidate
	for _, c := range all {
		c.e.mu.Lock()
		if c.e.touched.Before(cutoff) {
			idle = append(idle, c)
		}
		c.e.mu.Unlock()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range idle {
		if r.sessions[c.id] != c.e {
			continue
		}
		// A session in use right now is not idle; never wait for it here.
		if !c.e.mu.TryLock() {
			continue
		}
		stale := c.e.touched.Before(cutoff)
		c.e.mu.Unlock()
		if stale {
			delete(r.sessions, c.id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
