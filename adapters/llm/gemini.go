package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voicebridge/server/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.7
	defaultTopP           = 0.95
	defaultTopK           = 40
	defaultMaxTokens      = 512
	defaultTimeoutSeconds = 20
	maxAttempts           = 3
)

// GeminiConfig holds configuration for the Gemini adapter.
// Required: APIKey. Everything else defaults sensibly.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int
	TimeoutSeconds  int
}

// NewGeminiConfigFromEnv reads GEMINI_API_KEY and GEMINI_MODEL.
func NewGeminiConfigFromEnv() GeminiConfig {
	return GeminiConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	}
}

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("gemini API key is required")
	}
	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}
	if config.TopP != 0 && (config.TopP < 0 || config.TopP > 1) {
		return fmt.Errorf("topP must be between 0 and 1, got %f", config.TopP)
	}
	if config.TopK < 0 {
		return fmt.Errorf("topK must be positive, got %f", config.TopK)
	}
	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}
	return nil
}

// GeminiLanguageModel implements repositories.LanguageModel using Google's
// Gemini API. Provider failures are returned to the caller; the adapter
// never substitutes a fabricated reply, so a failed generation stays
// distinguishable from a successful one.
type GeminiLanguageModel struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	topP            float32
	topK            float32
	maxOutputTokens int
	timeout         time.Duration
}

// NewGeminiLanguageModel creates a new Gemini adapter.
func NewGeminiLanguageModel(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiLanguageModel, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}
	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	topP := config.TopP
	if topP == 0 {
		topP = defaultTopP
	}
	topK := config.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxTokens
	}
	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	logger.Info("Gemini adapter ready", zap.String("model", model))

	return &GeminiLanguageModel{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     temperature,
		topP:            topP,
		topK:            topK,
		maxOutputTokens: maxOutputTokens,
		timeout:         time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// Generate implements repositories.LanguageModel.
func (g *GeminiLanguageModel) Generate(ctx context.Context, messages []repositories.ChatMessage) (string, error) {
	contents := BuildContents(messages)
	if len(contents) == 0 {
		return "", fmt.Errorf("no messages to generate from")
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		TopP:            genai.Ptr(g.topP),
		TopK:            genai.Ptr(g.topK),
		MaxOutputTokens: int32(g.maxOutputTokens),
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			break
		}
		g.logger.Warn("Failed to generate content, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if attempt < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("generation cancelled: %w", ctx.Err())
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}
	if err != nil {
		return "", fmt.Errorf("generation failed after %d attempts: %w", maxAttempts, err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var replyText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			replyText += part.Text
		}
	}
	if replyText == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return replyText, nil
}

// BuildContents converts the ordered message sequence to Gemini contents.
// Gemini has no separate system role; the system instruction leads as a user
// message, assistant turns map to the model role.
func BuildContents(messages []repositories.ChatMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		var role genai.Role
		switch msg.Role {
		case repositories.AssistantRole:
			role = genai.RoleModel
		case repositories.UserRole, repositories.SystemRole:
			role = genai.RoleUser
		default:
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}
