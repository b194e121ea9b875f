package entities

import (
	"errors"
	"time"
)

// SessionStatus represents the status of a session
type SessionStatus string

const (
	SessionStatusActive     SessionStatus = "active"
	SessionStatusExpired    SessionStatus = "expired"
	SessionStatusTerminated SessionStatus = "terminated"
)

// Session is one logical conversation. Exactly one live Session exists per
// session id; the registry owns its lifetime and serializes mutation.
type Session struct {
	ID            string
	Status        SessionStatus
	CreatedAt     time.Time
	LastActiveAt  time.Time
	LastMessageAt *time.Time
	ExpiresAt     time.Time

	// TurnLog is the append-only display log. It is never trimmed, unlike
	// the memory window.
	TurnLog []TurnRecord
	Memory  *ConversationMemory

	nextSequence int
}

// NewSession creates an active session with an empty turn log and a fresh
// memory window of windowPairs exchange pairs.
func NewSession(id string, windowPairs int) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Status:       SessionStatusActive,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(24 * time.Hour),
		TurnLog:      make([]TurnRecord, 0),
		Memory:       NewConversationMemory(windowPairs),
		nextSequence: 1,
	}
}

// AppendExchange commits one completed exchange: the user record and its
// assistant reply, in that order, with consecutive sequence numbers. Both the
// turn log and the memory window are updated together; this is the single
// mutation point for conversational state.
func (s *Session) AppendExchange(userText, assistantText string, userDurationMs int) (user, assistant TurnRecord) {
	now := time.Now()
	user = TurnRecord{
		Sequence:   s.nextSequence,
		Role:       MessageRoleUser,
		Content:    userText,
		DurationMs: userDurationMs,
		CreatedAt:  now,
	}
	assistant = TurnRecord{
		Sequence:  s.nextSequence + 1,
		Role:      MessageRoleAssistant,
		Content:   assistantText,
		CreatedAt: now,
	}
	s.nextSequence += 2

	s.TurnLog = append(s.TurnLog, user, assistant)
	s.Memory.AppendExchange(user, assistant)
	s.LastMessageAt = &now
	s.UpdateLastActive()
	return user, assistant
}

// UpdateLastActive updates the last active timestamp and extends expiration.
func (s *Session) UpdateLastActive() {
	s.LastActiveAt = time.Now()
	s.ExpiresAt = s.LastActiveAt.Add(24 * time.Hour)
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt) || s.Status != SessionStatusActive
}

// Terminate marks the session as terminated.
func (s *Session) Terminate() {
	s.Status = SessionStatusTerminated
	s.UpdateLastActive()
}

// DisplayLog returns the full turn log in chronological order as a copy.
func (s *Session) DisplayLog() []TurnRecord {
	out := make([]TurnRecord, len(s.TurnLog))
	copy(out, s.TurnLog)
	return out
}

// Validate validates the session data.
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	if s.Memory == nil {
		return errors.New("session memory is required")
	}
	if s.Status != SessionStatusActive && s.Status != SessionStatusExpired && s.Status != SessionStatusTerminated {
		return errors.New("invalid session status")
	}
	if len(s.TurnLog)%2 != 0 {
		return errors.New("turn log holds an unpaired record")
	}
	return nil
}
