package repositories

import (
	"context"

	"github.com/voicebridge/server/domain/entities"
)

// SessionArchive persists completed conversational state durably. The live
// registry is authoritative; the archive is write-behind and best effort.
type SessionArchive interface {
	// ArchiveSession upserts the session's turn log keyed by session id.
	ArchiveSession(ctx context.Context, session *entities.Session) error
	// LoadTurnLog returns the archived turn log for a session id, or nil
	// when nothing is archived.
	LoadTurnLog(ctx context.Context, sessionID string) ([]entities.TurnRecord, error)
	// DeleteSession removes the archived state for a session id.
	DeleteSession(ctx context.Context, sessionID string) error
	Close(ctx context.Context) error
}
