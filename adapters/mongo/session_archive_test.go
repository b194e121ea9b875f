package mongo

import (
	"context"
	"os"
	"testing"

	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voicebridge/server/domain/entities"
)

// TestSessionArchive_Integration exercises the MongoDB archive end to end.
// It requires a running MongoDB instance (skipped if MONGODB_URI is not set).
func TestSessionArchive_Integration(t *testing.T) {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		t.Skip("Skipping MongoDB integration test - MONGODB_URI not set")
	}

	ctx := context.Background()

	client, err := driver.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	testDB := client.Database("voicebridge_test")
	defer testDB.Drop(ctx)

	archive := NewSessionArchive(testDB)

	t.Run("ArchiveAndLoad", func(t *testing.T) {
		session := entities.NewSession("archive-test-001", 5)
		session.AppendExchange("Hello", "Hi there", 1200)

		if err := archive.ArchiveSession(ctx, session); err != nil {
			t.Fatalf("Failed to archive session: %v", err)
		}

		log, err := archive.LoadTurnLog(ctx, "archive-test-001")
		if err != nil {
			t.Fatalf("Failed to load turn log: %v", err)
		}
		if len(log) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(log))
		}
		if log[0].Role != entities.MessageRoleUser || log[0].Content != "Hello" {
			t.Errorf("Unexpected first record: %+v", log[0])
		}
		if log[1].Sequence != 2 {
			t.Errorf("Expected sequence 2, got %d", log[1].Sequence)
		}
	})

	t.Run("ArchiveIsUpsert", func(t *testing.T) {
		session := entities.NewSession("archive-test-002", 5)
		session.AppendExchange("one", "reply one", 0)
		if err := archive.ArchiveSession(ctx, session); err != nil {
			t.Fatalf("First archive failed: %v", err)
		}

		session.AppendExchange("two", "reply two", 0)
		if err := archive.ArchiveSession(ctx, session); err != nil {
			t.Fatalf("Second archive failed: %v", err)
		}

		log, err := archive.LoadTurnLog(ctx, "archive-test-002")
		if err != nil {
			t.Fatalf("Failed to load turn log: %v", err)
		}
		if len(log) != 4 {
			t.Errorf("Expected 4 records after upsert, got %d", len(log))
		}
	})

	t.Run("LoadMissingReturnsNil", func(t *testing.T) {
		log, err := archive.LoadTurnLog(ctx, "never-archived")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if log != nil {
			t.Errorf("Expected nil for missing session, got %d records", len(log))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		session := entities.NewSession("archive-test-003", 5)
		session.AppendExchange("gone", "soon", 0)
		if err := archive.ArchiveSession(ctx, session); err != nil {
			t.Fatalf("Archive failed: %v", err)
		}

		if err := archive.DeleteSession(ctx, "archive-test-003"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		log, err := archive.LoadTurnLog(ctx, "archive-test-003")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if log != nil {
			t.Error("Expected session to be gone after delete")
		}
	})
}
