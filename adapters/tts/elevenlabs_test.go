package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/voicebridge/server/domain/repositories"
)

func TestNewElevenLabsTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	os.Unsetenv("ELEVEN_LABS_API_KEY")
	config := NewElevenLabsConfigFromEnv()
	if _, err := NewElevenLabsTTS(config, logger); err == nil {
		t.Error("Expected error when API key is not set")
	}

	os.Setenv("ELEVEN_LABS_API_KEY", "test-api-key")
	defer os.Unsetenv("ELEVEN_LABS_API_KEY")

	config = NewElevenLabsConfigFromEnv()
	tts, err := NewElevenLabsTTS(config, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if tts.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", tts.apiKey)
	}
	if tts.voiceID != defaultVoiceID {
		t.Errorf("Expected default voice ID '%s', got '%s'", defaultVoiceID, tts.voiceID)
	}
	if tts.stability != defaultStability {
		t.Errorf("Expected default stability %f, got %f", defaultStability, tts.stability)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", Stability: 1.2}); err == nil {
		t.Error("Expected error for stability out of range")
	}
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", Clarity: -0.1}); err == nil {
		t.Error("Expected error for clarity out of range")
	}
}

func TestSynthesizeAudio(t *testing.T) {
	logger := zaptest.NewLogger(t)
	expected := []byte("fake-mp3-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-api-key" {
			t.Errorf("Missing xi-api-key header")
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		w.Write(expected)
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	audio, err := tts.SynthesizeAudio(context.Background(), "Hello world", repositories.VoiceConfig{})
	if err != nil {
		t.Fatalf("SynthesizeAudio failed: %v", err)
	}
	if string(audio) != string(expected) {
		t.Errorf("Expected %q, got %q", expected, audio)
	}
}

func TestSynthesizeAudioServiceError(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if _, err := tts.SynthesizeAudio(context.Background(), "Hello", repositories.VoiceConfig{}); err == nil {
		t.Error("Expected error on non-200 response")
	}
}

func TestSynthesizeAudioRejectsEmptyText(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if _, err := tts.SynthesizeAudio(context.Background(), "   ", repositories.VoiceConfig{}); err == nil {
		t.Error("Expected error for empty text")
	}
}
