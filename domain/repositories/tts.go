package repositories

import "context"

// TextToSpeech abstracts text-to-speech services
type TextToSpeech interface {
	// SynthesizeAudio converts reply text to a complete audio payload
	SynthesizeAudio(ctx context.Context, text string, config VoiceConfig) ([]byte, error)
}

// VoiceConfig represents voice configuration for TTS
type VoiceConfig struct {
	Voice     string `json:"voice"`
	Language  string `json:"language"`
	Gender    string `json:"gender"`
	SpeakRate string `json:"speak_rate"`
}
