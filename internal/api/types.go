package api

import "time"

// TurnRequest carries one captured utterance. AudioData may be empty, which
// the pipeline treats as an idle invocation.
type TurnRequest struct {
	AudioData string `json:"audio_data,omitempty"` // base64 encoded
}

// TurnResponse is the JSON rendering of a TurnResult.
type TurnResponse struct {
	Status         string `json:"status"`
	UserText       string `json:"user_text,omitempty"`
	AssistantText  string `json:"assistant_text,omitempty"`
	AssistantAudio string `json:"assistant_audio,omitempty"` // base64 encoded
	Error          string `json:"error,omitempty"`
}

// TurnRecordResponse is one display-log entry.
type TurnRecordResponse struct {
	Sequence   int       `json:"sequence"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	DurationMs int       `json:"duration_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeviceAuthRequest represents the request payload for device authentication
type DeviceAuthRequest struct {
	DeviceID  string `json:"device_id"`
	SecretKey string `json:"secret_key"`
}

// DeviceAuthResponse represents the response payload for device authentication
type DeviceAuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	DeviceID  string    `json:"device_id"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
