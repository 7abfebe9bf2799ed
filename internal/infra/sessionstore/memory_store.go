package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/run-reporter/internal/domain/activity"
	"github.com/yanqian/run-reporter/internal/domain/session"
)

type sessionRecord struct {
	session   session.Session
	state     activity.State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
	now      func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*sessionRecord),
		now:      time.Now,
	}
}

// Save implements session.Store.
func (s *MemoryStore) Save(_ context.Context, sess session.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.cleanupLocked()
	s.sessions[sess.ID] = &sessionRecord{session: sess, expiresAt: exp}
	return nil
}

// Get implements session.Store.
func (s *MemoryStore) Get(_ context.Context, id string) (session.Session, bool, error) {
	record, ok := s.live(id)
	if !ok {
		return session.Session{}, false, nil
	}
	return record.session, true, nil
}

// Delete implements session.Store and drops the activity state with it.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// LoadState implements activity.StateStore.
func (s *MemoryStore) LoadState(_ context.Context, id string) (activity.State, bool, error) {
	record, ok := s.live(id)
	if !ok {
		return activity.State{}, false, nil
	}
	return record.state, true, nil
}

// SaveState implements activity.StateStore. State for an unknown or expired session is dropped.
func (s *MemoryStore) SaveState(_ context.Context, id string, state activity.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.sessions[id]
	if !ok || s.expired(record) {
		return nil
	}
	record.state = state
	return nil
}

func (s *MemoryStore) live(id string) (sessionRecord, bool) {
	s.mu.RLock()
	record, ok := s.sessions[id]
	var snapshot sessionRecord
	if ok {
		snapshot = *record
	}
	s.mu.RUnlock()
	if !ok {
		return sessionRecord{}, false
	}
	if s.expired(&snapshot) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return sessionRecord{}, false
	}
	return snapshot, true
}

func (s *MemoryStore) expired(record *sessionRecord) bool {
	if record.expiresAt.IsZero() {
		return false
	}
	return record.expiresAt.Before(s.now())
}

func (s *MemoryStore) cleanupLocked() {
	for id, record := range s.sessions {
		if s.expired(record) {
			delete(s.sessions, id)
		}
	}
}

// Close drops every session.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*sessionRecord)
	return nil
}
