package interview

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the process-wide session registry. The registry lock only guards
// map membership; each session carries its own mutex, so operations on
// different sessions proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session under a fresh random id. The first question
// is part of the session from the moment it becomes reachable, so no reader
// can ever observe a session with an answer but no question.
func (st *Store) Create(config SessionConfig, firstQuestion string) *Session {
	now := time.Now()
	session := &Session{
		ID:           uuid.New().String(),
		Config:       config,
		Questions:    []string{firstQuestion},
		CreatedAt:    now,
		LastActivity: now,
	}

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	return session
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[id]
	return session, ok
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.sessions)
}

// StartJanitor evicts sessions idle past ttl, checking every interval. It
// returns a stop function. Sessions survive for the process lifetime unless
// a janitor is running.
func (st *Store) StartJanitor(ttl, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				st.evictIdle(time.Now().Add(-ttl))
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

// evictIdle never holds the registry lock while touching a session lock. A
// session lock is held across the gateway call for an in-flight turn, and
// nesting the two would stall Create and Get on every session until that call
// returned.
func (st *Store) evictIdle(cutoff time.Time) int {
	st.mu.RLock()
	candidates := make(map[string]*Session, len(st.sessions))
	for id, session := range st.sessions {
		candidates[id] = session
	}
	st.mu.RUnlock()

	var stale []string
	for id, session := range candidates {
		// A session with a turn in flight holds its own lock and is by
		// definition not idle; skip it rather than wait.
		if !session.mu.TryLock() {
			continue
		}
		idle := session.LastActivity.Before(cutoff)
		session.mu.Unlock()

		if idle {
			stale = append(stale, id)
		}
	}

	evicted := 0
	st.mu.Lock()
	for _, id := range stale {
		if _, ok := st.sessions[id]; ok {
			delete(st.sessions, id)
			evicted++
		}
	}
	st.mu.Unlock()

	return evicted
}
