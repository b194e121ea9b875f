package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voicebridge/server/domain/entities"
	"github.com/voicebridge/server/domain/repositories"
)

// turnDocument mirrors entities.TurnRecord for storage. Keeping the bson
// mapping here leaves the domain package storage-agnostic.
type turnDocument struct {
	Sequence   int       `bson:"sequence"`
	Role       string    `bson:"role"`
	Content    string    `bson:"content"`
	DurationMs int       `bson:"duration_ms,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

type sessionDocument struct {
	SessionID     string         `bson:"session_id"`
	Status        string         `bson:"status"`
	CreatedAt     time.Time      `bson:"created_at"`
	LastActiveAt  time.Time      `bson:"last_active_at"`
	LastMessageAt *time.Time     `bson:"last_message_at,omitempty"`
	ExpiresAt     time.Time      `bson:"expires_at"`
	TurnLog       []turnDocument `bson:"turn_log"`
}

// SessionArchive is a MongoDB-backed write-behind archive of session turn
// logs, keyed by session id.
type SessionArchive struct {
	collection *mongo.Collection
}

var _ repositories.SessionArchive = (*SessionArchive)(nil)

// NewSessionArchive creates a new MongoDB session archive
func NewSessionArchive(db *mongo.Database) *SessionArchive {
	return &SessionArchive{
		collection: db.Collection("sessions"),
	}
}

// ArchiveSession implements repositories.SessionArchive
func (a *SessionArchive) ArchiveSession(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session id cannot be empty")
	}

	turns := make([]turnDocument, 0, len(session.TurnLog))
	for _, record := range session.TurnLog {
		turns = append(turns, turnDocument{
			Sequence:   record.Sequence,
			Role:       string(record.Role),
			Content:    record.Content,
			DurationMs: record.DurationMs,
			CreatedAt:  record.CreatedAt,
		})
	}

	doc := sessionDocument{
		SessionID:     session.ID,
		Status:        string(session.Status),
		CreatedAt:     session.CreatedAt,
		LastActiveAt:  session.LastActiveAt,
		LastMessageAt: session.LastMessageAt,
		ExpiresAt:     session.ExpiresAt,
		TurnLog:       turns,
	}

	_, err := a.collection.UpdateOne(
		ctx,
		bson.M{"session_id": session.ID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to archive session %s: %w", session.ID, err)
	}
	return nil
}

// LoadTurnLog implements repositories.SessionArchive
func (a *SessionArchive) LoadTurnLog(ctx context.Context, sessionID string) ([]entities.TurnRecord, error) {
	if sessionID == "" {
		return nil, errors.New("session id cannot be empty")
	}

	var doc sessionDocument
	err := a.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load archived session %s: %w", sessionID, err)
	}

	records := make([]entities.TurnRecord, 0, len(doc.TurnLog))
	for _, turn := range doc.TurnLog {
		records = append(records, entities.TurnRecord{
			Sequence:   turn.Sequence,
			Role:       entities.MessageRole(turn.Role),
			Content:    turn.Content,
			DurationMs: turn.DurationMs,
			CreatedAt:  turn.CreatedAt,
		})
	}
	return records, nil
}

// DeleteSession implements repositories.SessionArchive
func (a *SessionArchive) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	if _, err := a.collection.DeleteOne(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("failed to delete archived session %s: %w", sessionID, err)
	}
	return nil
}

// Close implements repositories.SessionArchive
func (a *SessionArchive) Close(ctx context.Context) error {
	return a.collection.Database().Client().Disconnect(ctx)
}
