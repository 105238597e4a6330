package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"frigora/internal/core"
)

const defaultSessionTTL = 12 * time.Hour

type sessionKey struct{}

// sessionEntry guards one user's session. Requests for the same token are serialised on mu.
type sessionEntry struct {
	mu       sync.Mutex
	session  *core.Session
	lastSeen time.Time
}

// sessionStore is a thread-safe in-memory store of sessions keyed by bearer token,
// with idle expiry.
type sessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*sessionEntry
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{ttl: ttl, now: time.Now, entries: make(map[string]*sessionEntry)}
}

// acquire returns the live session for token, creating it on first use or after expiry.
func (s *sessionStore) acquire(token string, userID int64) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e, ok := s.entries[token]
	if !ok || now.Sub(e.lastSeen) > s.ttl || e.session.UserID != userID {
		e = &sessionEntry{session: core.NewSession(userID, now)}
		s.entries[token] = e
	}
	e.lastSeen = now
	return e
}

// drop clears and forgets the session for token, as at logout.
func (s *sessionStore) drop(token string) {
	s.mu.Lock()
	e, ok := s.entries[token]
	delete(s.entries, token)
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.session.Clear()
		e.mu.Unlock()
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *sessionStore) purgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for token, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, token)
			n++
		}
	}
	return n
}

// startPurge starts a background goroutine that evicts idle sessions every 5 minutes.
func (s *sessionStore) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.purgeExpired()
			}
		}
	}()
}

// withSession runs fn while holding the request's session lock.
func withSession(r *http.Request, fn func(sess *core.Session)) bool {
	e, _ := r.Context().Value(sessionKey{}).(*sessionEntry)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
	return true
}
