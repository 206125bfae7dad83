package conversation

import "sync"

// identityMutex serializes dialog processing per user identity while leaving
// different identities fully independent. This is the concurrency primitive
// that guarantees a user's messages are handled in arrival order even though
// the transport dispatches updates concurrently.
//
// Locks are kept for the life of the process; the map is bounded by the
// number of distinct users seen.
type identityMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newIdentityMutex() *identityMutex {
	return &identityMutex{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the given identity, creating it on first use,
// and returns the unlock function.
func (m *identityMutex) Lock(id int64) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// sessionStore is the keyed in-memory store of conversation sessions.
// Sessions are created lazily and removed when a dialog completes or is
// cancelled, so an idle user occupies no entry.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

// get returns the session for the identity, or an idle placeholder when none
// exists. The placeholder is not stored.
func (s *sessionStore) get(id int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	return &session{State: StateIdle}
}

// set stores the session for the identity.
func (s *sessionStore) set(id int64, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

// reset removes the identity's session, returning it to idle and discarding
// any pending dialog data. Reports whether a dialog was actually active.
func (s *sessionStore) reset(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok && sess.State != StateIdle
}
