package tts

import (
	"context"

	"go.uber.org/zap"

	"github.com/voicebridge/server/domain/repositories"
)

// MockTextToSpeech is a placeholder synthesizer for local development.
type MockTextToSpeech struct {
	logger *zap.Logger
}

func NewMockTextToSpeech(logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{logger: logger}
}

// SynthesizeAudio implements repositories.TextToSpeech
func (t *MockTextToSpeech) SynthesizeAudio(_ context.Context, text string, config repositories.VoiceConfig) ([]byte, error) {
	t.logger.Info("Mock synthesis",
		zap.String("text", text),
		zap.String("voice", config.Voice))

	audio := make([]byte, len(text)*100)
	for i := range audio {
		audio[i] = byte(i % 256)
	}
	return audio, nil
}
