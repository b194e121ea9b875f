package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voicebridge/server/domain/entities"
	"github.com/voicebridge/server/domain/repositories"
)

const archiveTimeout = 5 * time.Second

// SessionStore is the process-wide session registry. It is keyed by the
// front end's opaque session id and returns the same live Session for
// repeated loads of the same id until the id is reset or expired.
//
// Precondition: at most one turn is in flight per session id. The store
// serializes Load/Save/Reset themselves, but it does not queue concurrent
// turns for one session.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*entities.Session
	windowPairs int
	archive     repositories.SessionArchive
	logger      *zap.Logger
}

// NewSessionStore creates a registry whose new sessions carry a memory
// window of windowPairs exchange pairs. archive may be nil for pure
// in-memory operation.
func NewSessionStore(windowPairs int, archive repositories.SessionArchive, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*entities.Session),
		windowPairs: windowPairs,
		archive:     archive,
		logger:      logger,
	}
}

// Load returns the live session for sessionID, constructing and registering
// a fresh one if none exists. Two loads of the same id never return distinct
// sessions.
func (s *SessionStore) Load(sessionID string) *entities.Session {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		return session
	}
	session = entities.NewSession(sessionID, s.windowPairs)
	s.sessions[sessionID] = session
	s.logger.Info("Session created",
		zap.String("sessionID", sessionID),
		zap.Int("windowPairs", s.windowPairs))
	return session
}

// Save commits the session back under sessionID. Mutation happens in place
// on the single live object, so registering the same object is a no-op; a
// foreign object replaces the registered one. When an archive is configured
// the turn log is flushed write-behind; archive failures are logged, never
// propagated into the turn path.
func (s *SessionStore) Save(sessionID string, session *entities.Session) {
	s.mu.Lock()
	if current, ok := s.sessions[sessionID]; !ok || current != session {
		s.sessions[sessionID] = session
	}
	s.mu.Unlock()

	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if err := s.archive.ArchiveSession(ctx, session); err != nil {
		s.logger.Warn("Failed to archive session",
			zap.String("sessionID", sessionID),
			zap.Error(err))
	}
}

// Reset discards the session's state. The next Load for the same id yields
// a fresh session.
func (s *SessionStore) Reset(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok {
		session.Terminate()
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	s.logger.Info("Session reset", zap.String("sessionID", sessionID))

	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if err := s.archive.DeleteSession(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to delete archived session",
			zap.String("sessionID", sessionID),
			zap.Error(err))
	}
}

// ActiveCount returns the number of live sessions.
func (s *SessionStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor evicts expired sessions periodically until ctx is cancelled.
func (s *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictExpired()
			}
		}
	}()
}

func (s *SessionStore) evictExpired() {
	s.mu.Lock()
	var expired []*entities.Session
	for id, session := range s.sessions {
		if !session.IsExpired() {
			continue
		}
		session.Status = entities.SessionStatusExpired
		expired = append(expired, session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, session := range expired {
		s.logger.Info("Session expired", zap.String("sessionID", session.ID))
		if s.archive == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		if err := s.archive.ArchiveSession(ctx, session); err != nil {
			s.logger.Warn("Failed to archive expired session",
				zap.String("sessionID", session.ID),
				zap.Error(err))
		}
		cancel()
	}
}
