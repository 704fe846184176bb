package memstore

import (
	"context"
	"sync"
	"time"

	"secretto/internal/domain"
)

// Store keeps sessions, published keys, and blobs in process memory.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	deleted  map[string]struct{}
	keys     map[domain.UserID]string
	blobs    map[string][]byte
	blobSeq  func() string
}

// New returns an empty store. blobID generates blob identifiers.
func New(blobID func() string) *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		deleted:  make(map[string]struct{}),
		keys:     make(map[domain.UserID]string),
		blobs:    make(map[string][]byte),
		blobSeq:  blobID,
	}
}

func copySession(s *domain.Session) domain.Session {
	out := *s
	out.Messages = append([]domain.Message(nil), s.Messages...)
	return out
}

// Find returns the session by id. Expiry is not filtered here; callers
// decide what an expired session means for their path.
func (m *Store) Find(_ context.Context, id string) (domain.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, false, nil
	}
	return copySession(s), true, nil
}

// FindByParticipant returns every session user takes part in.
func (m *Store) FindByParticipant(_ context.Context, user domain.UserID) ([]domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Session
	for _, s := range m.sessions {
		if s.HasParticipant(user) {
			out = append(out, copySession(s))
		}
	}
	return out, nil
}

// FindExpired returns sessions whose expiry is at or before now.
func (m *Store) FindExpired(_ context.Context, now time.Time) ([]domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Session
	for _, s := range m.sessions {
		if s.Expired(now) {
			out = append(out, copySession(s))
		}
	}
	return out, nil
}

// Create stores a new session.
func (m *Store) Create(_ context.Context, sess domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copySession(&sess)
	m.sessions[sess.ID] = &cp
	delete(m.deleted, sess.ID)
	return nil
}

// AppendMessage appends msg to the session transcript. It reports ok=false
// for an unknown, deleted, or expired session; the write is atomic under
// the store lock, so append order is the order calls complete.
func (m *Store) AppendMessage(_ context.Context, id string, msg domain.Message) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, gone := m.deleted[id]; gone {
		return false, nil
	}
	s, ok := m.sessions[id]
	if !ok || s.Expired(msg.Timestamp) {
		return false, nil
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = msg.Timestamp
	return true, nil
}

// Delete removes the session and tombstones its id. Deleting an unknown
// session is a no-op.
func (m *Store) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.deleted[id] = struct{}{}
	}
	return nil
}

// PublishKey stores or replaces the user's public key.
func (m *Store) PublishKey(_ context.Context, user domain.UserID, publicKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[user] = publicKey
	return nil
}

// FetchKey returns the user's published public key.
func (m *Store) FetchKey(_ context.Context, user domain.UserID) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[user]
	return k, ok, nil
}

// Put stores an opaque blob and returns its id.
func (m *Store) Put(_ context.Context, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.blobSeq()
	m.blobs[id] = append([]byte(nil), data...)
	return id, nil
}

// Get returns a stored blob.
func (m *Store) Get(_ context.Context, id string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[id]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

var (
	_ domain.SessionStore = (*Store)(nil)
	_ domain.KeyDirectory = (*Store)(nil)
	_ domain.BlobStore    = (*Store)(nil)
)
