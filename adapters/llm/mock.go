package llm

import (
	"context"
	"fmt"

	"github.com/voicebridge/server/domain/repositories"
)

// MockLanguageModel is a placeholder model for local development.
type MockLanguageModel struct{}

func NewMockLanguageModel() *MockLanguageModel {
	return &MockLanguageModel{}
}

// Generate implements repositories.LanguageModel
func (m *MockLanguageModel) Generate(_ context.Context, messages []repositories.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to generate from")
	}
	last := messages[len(messages)-1]
	if last.Role != repositories.UserRole {
		return "", fmt.Errorf("expected a user message last, got %s", last.Role)
	}
	return fmt.Sprintf("Thanks for sharing! I heard %q. What else is on your mind?", last.Content), nil
}
