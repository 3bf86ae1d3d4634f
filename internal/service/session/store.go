package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// DefaultIdentity is the key an absent or blank identity collapses to.
const DefaultIdentity = "default"

// Normalize maps an identity to its store key.
func Normalize(identity string) string {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return DefaultIdentity
	}
	return identity
}

// Store exposes session lifecycle for the turn orchestrator and handlers.
type Store interface {
	// GetOrCreate returns the session for an identity, creating a fresh one
	// on first use. The normalized key is returned alongside.
	GetOrCreate(ctx context.Context, identity string) (string, *interview.Session)
	// Get returns an existing session without creating one. The returned
	// pointer is the live session: it may only be read or written while
	// holding the identity's turn lock, and must be cloned before it is
	// handed to anything outside that lock.
	Get(ctx context.Context, identity string) (*interview.Session, bool)
	// Reset destroys the session and its transcript; unknown identities are
	// a no-op.
	Reset(ctx context.Context, identity string)
	// Lock takes the per-identity turn lock and returns its release. A turn
	// must hold it from before the extractor call until the reply is built.
	Lock(identity string) func()
	// AppendMessage records one transcript entry for an identity.
	AppendMessage(ctx context.Context, identity string, msg interview.Message)
	// Transcript returns a copy of the recorded turns for an identity.
	Transcript(ctx context.Context, identity string) []interview.Message
}

// MemoryStore implements Store with process-local maps. Sessions live until
// reset; there is no expiry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*interview.Session
	messages map[string][]interview.Message

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewMemoryStore bootstraps the in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*interview.Session),
		messages: make(map[string][]interview.Message),
		locks:    make(map[string]*sync.Mutex),
	}
}

// GetOrCreate returns the session for an identity, creating it atomically so
// two first turns for the same new identity share one session.
func (s *MemoryStore) GetOrCreate(_ context.Context, identity string) (string, *interview.Session) {
	key := Normalize(identity)

	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return key, sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[key]; ok {
		return key, sess
	}
	sess = interview.NewSession(key)
	s.sessions[key] = sess
	s.messages[key] = make([]interview.Message, 0, 16)
	return key, sess
}

// Get returns the live session by identity; see the interface contract for
// the locking rules.
func (s *MemoryStore) Get(_ context.Context, identity string) (*interview.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[Normalize(identity)]
	return sess, ok
}

// Reset removes the session and transcript for an identity.
func (s *MemoryStore) Reset(_ context.Context, identity string) {
	key := Normalize(identity)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	delete(s.messages, key)
}

// Lock serializes turns per identity. Lock entries are tiny and kept for the
// process lifetime, matching the session lifecycle.
func (s *MemoryStore) Lock(identity string) func() {
	key := Normalize(identity)

	s.lockMu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.lockMu.Unlock()

	m.Lock()
	return m.Unlock
}

// AppendMessage records a transcript entry; entries for identities without a
// session are dropped.
func (s *MemoryStore) AppendMessage(_ context.Context, identity string, msg interview.Message) {
	key := Normalize(identity)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[key]; !ok {
		return
	}
	s.messages[key] = append(s.messages[key], msg)
}

// Transcript returns a copy of the stored turns.
func (s *MemoryStore) Transcript(_ context.Context, identity string) []interview.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[Normalize(identity)]
	copied := make([]interview.Message, len(msgs))
	copy(copied, msgs)
	return copied
}
