package stt_test

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/voicebridge/server/adapters/stt"
	"github.com/voicebridge/server/domain/repositories"
)

var (
	_ repositories.SpeechToText = &stt.GoogleSpeechToText{}
	_ repositories.SpeechToText = &stt.MockSpeechToText{}
)

func TestMockTranscribeAudio(t *testing.T) {
	mock := stt.NewMockSpeechToText(zaptest.NewLogger(t))

	text, err := mock.TranscribeAudio(context.Background(), make([]byte, 2048), repositories.AudioConfig{
		SampleRate: 16000,
		Encoding:   "LINEAR16",
		Language:   "en-US",
	})
	if err != nil {
		t.Fatalf("Mock transcription failed: %v", err)
	}
	if text == "" {
		t.Error("Expected a non-empty mock transcript")
	}
}
