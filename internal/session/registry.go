package session

import (
	"sync"
	"time"
)

// Registry maps user ids to their current dialogue state. It guarantees
// single-flight processing per user: Do holds a per-user lock for the whole
// step, so two messages from the same user cannot interleave, while
// different users proceed in parallel.
//
// Sessions live only for the process lifetime. Entries idle past the TTL
// are dropped by CleanExpired, abandoning the half-finished dialogue.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*entry
	ttl      time.Duration
	now      func() time.Time

	stopSweep chan struct{}
	sweepDone chan struct{}
}

type entry struct {
	mu      sync.Mutex
	state   State
	touched time.Time
	// gone marks an entry removed from the map while a waiter still holds
	// a pointer to it; the waiter must re-fetch.
	gone bool
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions:  make(map[int64]*entry),
		ttl:       ttl,
		now:       time.Now,
		stopSweep: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
}

// Do runs fn against the user's current state and stores the returned
// state, all under the user's lock. A returned Idle clears the session
// entirely, so an idle user carries no pending data.
func (r *Registry) Do(userID int64, fn func(State) State) {
	for {
		r.mu.Lock()
		e, ok := r.sessions[userID]
		if !ok {
			e = &entry{state: Idle{}}
			r.sessions[userID] = e
		}
		r.mu.Unlock()

		e.mu.Lock()
		if e.gone {
			e.mu.Unlock()
			continue
		}

		e.state = fn(e.state)
		e.touched = r.now()

		if _, idle := e.state.(Idle); idle {
			r.mu.Lock()
			if r.sessions[userID] == e {
				delete(r.sessions, userID)
			}
			e.gone = true
			r.mu.Unlock()
		}
		e.mu.Unlock()
		return
	}
}

// CurrentState returns the user's dialogue state, Idle when absent.
func (r *Registry) CurrentState(userID int64) State {
	r.mu.Lock()
	e, ok := r.sessions[userID]
	r.mu.Unlock()
	if !ok {
		return Idle{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone {
		return Idle{}
	}
	return e.state
}

// Clear discards the user's session and any pending data.
func (r *Registry) Clear(userID int64) {
	r.Do(userID, func(State) State { return Idle{} })
}

// Len returns the number of users with a dialogue in progress.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CleanExpired removes sessions idle past the TTL and returns how many were
// dropped. Entries currently being processed are skipped; they will be
// swept on a later pass.
func (r *Registry) CleanExpired() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if now.Sub(e.touched) >= r.ttl {
			e.gone = true
			delete(r.sessions, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// StartSweep begins periodic cleanup of expired sessions.
func (r *Registry) StartSweep(interval time.Duration) {
	go r.sweep(interval)
}

func (r *Registry) sweep(interval time.Duration) {
	defer close(r.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.CleanExpired()
		case <-r.stopSweep:
			return
		}
	}
}

// StopSweep gracefully stops the cleanup routine started by StartSweep.
func (r *Registry) StopSweep() {
	close(r.stopSweep)
	<-r.sweepDone
}
