package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/voicebridge/server/domain/repositories"
)

// MockSpeechToText is a placeholder transcriber for local development when
// Google credentials are not configured.
type MockSpeechToText struct {
	logger *zap.Logger
}

func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

// TranscribeAudio implements repositories.SpeechToText
func (s *MockSpeechToText) TranscribeAudio(_ context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	s.logger.Info("Mock transcription",
		zap.Int("audioSize", len(audioData)),
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding))

	switch {
	case len(audioData) > 10000:
		return "Hello there, I would like to talk about my day.", nil
	case len(audioData) > 1000:
		return "Hello there!", nil
	default:
		return "Hi", nil
	}
}
