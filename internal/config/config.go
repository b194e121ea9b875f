package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSystemPrompt = "You are a friendly voice assistant. Keep replies short and conversational; they will be spoken aloud."

// Config contains all runtime settings for the voice turn service.
type Config struct {
	Port            string
	ShutdownTimeout time.Duration

	// Conversation.
	WindowPairs  int
	SystemPrompt string

	// Audio in.
	Language      string
	SampleRate    int
	AudioEncoding string

	// Voice out.
	Voice          string
	VoiceLanguage  string
	VoiceGender    string
	VoiceSpeakRate string

	// Collaborator credentials. Empty values select the mock adapters.
	GeminiAPIKey     string
	ElevenLabsAPIKey string
	GoogleSTTEnabled bool

	// Persistence. Empty MongoURI keeps the registry purely in-memory.
	MongoURI      string
	MongoDatabase string

	// DeviceSecretKey gates the device auth endpoint. JWT signing itself
	// is owned by the auth package.
	DeviceSecretKey string

	JanitorInterval time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:             envOrDefault("PORT", "8080"),
		ShutdownTimeout:  10 * time.Second,
		WindowPairs:      10,
		SystemPrompt:     envOrDefault("SYSTEM_PROMPT", defaultSystemPrompt),
		Language:         envOrDefault("AUDIO_LANGUAGE", "en-US"),
		SampleRate:       16000,
		AudioEncoding:    envOrDefault("AUDIO_ENCODING", "LINEAR16"),
		Voice:            envOrDefault("VOICE_ID", ""),
		VoiceLanguage:    envOrDefault("VOICE_LANGUAGE", "en-US"),
		VoiceGender:      envOrDefault("VOICE_GENDER", "female"),
		VoiceSpeakRate:   envOrDefault("VOICE_SPEAK_RATE", "medium"),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ElevenLabsAPIKey: strings.TrimSpace(os.Getenv("ELEVEN_LABS_API_KEY")),
		MongoURI:         strings.TrimSpace(os.Getenv("MONGODB_URI")),
		MongoDatabase:    envOrDefault("MONGODB_DATABASE", "voicebridge"),
		DeviceSecretKey:  strings.TrimSpace(os.Getenv("DEVICE_SECRET_KEY")),
		JanitorInterval:  5 * time.Minute,
	}

	var err error
	cfg.WindowPairs, err = intFromEnv("MEMORY_WINDOW_PAIRS", cfg.WindowPairs)
	if err != nil {
		return Config{}, err
	}
	cfg.SampleRate, err = intFromEnv("AUDIO_SAMPLE_RATE", cfg.SampleRate)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout, err = durationFromEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.JanitorInterval, err = durationFromEnv("SESSION_JANITOR_INTERVAL", cfg.JanitorInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.GoogleSTTEnabled, err = boolFromEnv("GOOGLE_STT_ENABLED", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "")
	if err != nil {
		return Config{}, err
	}

	if cfg.WindowPairs <= 0 {
		return Config{}, fmt.Errorf("MEMORY_WINDOW_PAIRS must be positive")
	}
	if cfg.SampleRate < 8000 || cfg.SampleRate > 48000 {
		return Config{}, fmt.Errorf("AUDIO_SAMPLE_RATE must be between 8000 and 48000")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intFromEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
