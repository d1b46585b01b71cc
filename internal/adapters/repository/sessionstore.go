package repository

import (
	"context"
	"sync"
	"time"

	"github.com/openpmo/scorecard/internal/domain/model"
	"github.com/openpmo/scorecard/pkg/metrics"
)

// Default session store configuration constants.
const (
	defaultTTL             = 2 * time.Hour
	defaultJanitorInterval = 5 * time.Minute
)

type session struct {
	workbook *model.Workbook
	lastSeen time.Time
}

// SessionStore implements Store with an in-memory map and TTL eviction.
// All access goes through one mutex; each request is a synchronous full
// pass, so there is no finer locking discipline to uphold.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session

	ttl             time.Duration
	janitorInterval time.Duration
	now             func() time.Time
	stopCh          chan struct{}
	stopOnce        sync.Once
}

// NewSessionStore creates a session store with configuration options and
// starts the eviction janitor.
func NewSessionStore(ctx context.Context, opts ...Option) *SessionStore {
	s := &SessionStore{
		sessions:        make(map[string]*session),
		ttl:             defaultTTL,
		janitorInterval: defaultJanitorInterval,
		now:             time.Now,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.janitor(ctx)
	return s
}

// Get returns the session's workbook and refreshes its idle timer.
func (s *SessionStore) Get(_ context.Context, sessionID string) (*model.Workbook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess) {
		delete(s.sessions, sessionID)
		return nil, ErrNoSession
	}
	sess.lastSeen = s.now()
	return sess.workbook, nil
}

// Put replaces the session's workbook, creating the session if needed.
func (s *SessionStore) Put(_ context.Context, sessionID string, wb *model.Workbook) error {
	if wb == nil {
		return ErrNilWorkbook
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = &session{workbook: wb, lastSeen: s.now()}
	metrics.UpdateActiveSessions(len(s.sessions))
	return nil
}

// Delete drops the session and its workbook.
func (s *SessionStore) Delete(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	metrics.UpdateActiveSessions(len(s.sessions))
}

// Count returns the number of live sessions.
func (s *SessionStore) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the eviction janitor.
func (s *SessionStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

func (s *SessionStore) expired(sess *session) bool {
	return s.now().Sub(sess.lastSeen) > s.ttl
}

func (s *SessionStore) janitor(ctx context.Context) {
	ticker := time.NewTicker(s.janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep deletes expired sessions. It only ever removes state, so it never
// races a live render pass into a stale workbook.
func (s *SessionStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
	metrics.UpdateActiveSessions(len(s.sessions))
}
