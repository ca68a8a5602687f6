package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/salesloom-cli/internal/logging"
)

// Store keeps sessions in memory. Nothing is persisted.
type Store struct {
	settings Settings
	log      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty store whose sessions use settings.
func NewStore(settings Settings, log *zap.Logger) *Store {
	return &Store{
		settings: settings,
		log:      logging.OrNop(log),
		sessions: make(map[string]*Session),
	}
}

// Create registers and returns a new empty session.
func (st *Store) Create() *Session {
	s := New(st.settings, st.log)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	st.log.Debug("session created", zap.String("session", s.ID))
	return s
}

// Get looks a session up by id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session and reports whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle for longer than ttl and returns how many were
// removed. A non-positive ttl disables eviction.
func (st *Store) Sweep(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-ttl)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	if n > 0 {
		st.log.Info("expired sessions evicted", zap.Int("count", n), zap.Int("remaining", len(st.sessions)))
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(ttl)
		}
	}
}
