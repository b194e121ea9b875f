package repositories

import "context"

// LanguageModel abstracts any chat/LLM provider.
type LanguageModel interface {
	// Generate takes the ordered message sequence (system instruction,
	// bounded prior turns, new user message) and returns the reply text.
	// A provider failure is returned as an error, never masked by a
	// fabricated reply.
	Generate(ctx context.Context, messages []ChatMessage) (string, error)
}

// ChatMessage represents a single message in a conversation
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role defines the type of message sender
type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
	SystemRole    Role = "system"
)
