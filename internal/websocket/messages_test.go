package websocket

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/voicebridge/server/domain/entities"
)

func TestMessageValidator_ValidateUtterance(t *testing.T) {
	validator := NewMessageValidator()

	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{
			name: "valid utterance",
			message: `{
				"type": "utterance",
				"session_id": "session-123",
				"audio_data": "SGVsbG8gV29ybGQ="
			}`,
			wantErr: false,
		},
		{
			name: "empty audio allowed",
			message: `{
				"type": "utterance",
				"session_id": "session-123"
			}`,
			wantErr: false,
		},
		{
			name: "missing session_id",
			message: `{
				"type": "utterance",
				"audio_data": "SGVsbG8gV29ybGQ="
			}`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			message: `{"type": "utterance"`,
			wantErr: true,
		},
		{
			name: "unsupported type",
			message: `{
				"type": "telemetry",
				"session_id": "session-123"
			}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.ValidateMessage([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessageValidator_ValidateSessionReset(t *testing.T) {
	validator := NewMessageValidator()

	msg, err := validator.ValidateMessage([]byte(`{"type": "session_reset", "session_id": "session-9"}`))
	if err != nil {
		t.Fatalf("ValidateMessage() error = %v", err)
	}
	reset, ok := msg.(*SessionResetMessage)
	if !ok {
		t.Fatalf("expected *SessionResetMessage, got %T", msg)
	}
	if reset.SessionID != "session-9" {
		t.Errorf("SessionID = %q, want %q", reset.SessionID, "session-9")
	}

	if _, err := validator.ValidateMessage([]byte(`{"type": "session_reset"}`)); err == nil {
		t.Error("expected error for missing session_id")
	}
}

func TestMessageValidator_ValidatePing(t *testing.T) {
	validator := NewMessageValidator()

	msg, err := validator.ValidateMessage([]byte(`{"type": "ping", "data": "health"}`))
	if err != nil {
		t.Fatalf("ValidateMessage() error = %v", err)
	}
	ping, ok := msg.(*PingMessage)
	if !ok {
		t.Fatalf("expected *PingMessage, got %T", msg)
	}
	if ping.Data != "health" {
		t.Errorf("Data = %q, want %q", ping.Data, "health")
	}
}

func TestCreateTurnResultMessage(t *testing.T) {
	result := entities.TurnResult{
		Status:        entities.TurnCompleted,
		UserText:      "hello",
		AssistantText: "hi there",
	}

	msg := CreateTurnResultMessage("session-1", result, "YXVkaW8=")
	if msg.Type != MessageTypeTurnResult {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTypeTurnResult)
	}
	if msg.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want %q", msg.SessionID, "session-1")
	}
	if msg.Status != string(entities.TurnCompleted) {
		t.Errorf("Status = %q, want %q", msg.Status, entities.TurnCompleted)
	}
	if msg.AssistantAudio != "YXVkaW8=" {
		t.Errorf("AssistantAudio = %q", msg.AssistantAudio)
	}
	if msg.Error != "" {
		t.Errorf("Error = %q, want empty", msg.Error)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var round map[string]interface{}
	if err := json.Unmarshal(payload, &round); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if round["type"] != "turn_result" {
		t.Errorf("serialized type = %v, want turn_result", round["type"])
	}
}

func TestCreateTurnResultMessage_CarriesError(t *testing.T) {
	result := entities.TurnResult{
		Status: entities.TurnFailed,
		Err:    errors.New("transcription: upstream unavailable"),
	}

	msg := CreateTurnResultMessage("session-2", result, "")
	if msg.Status != string(entities.TurnFailed) {
		t.Errorf("Status = %q, want %q", msg.Status, entities.TurnFailed)
	}
	if msg.Error != "transcription: upstream unavailable" {
		t.Errorf("Error = %q", msg.Error)
	}
}

func TestCreateErrorMessage(t *testing.T) {
	msg := CreateErrorMessage("invalid_audio", "audio_data must be base64 encoded", "")
	if msg.Type != MessageTypeError {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTypeError)
	}
	if msg.Code != "invalid_audio" {
		t.Errorf("Code = %q", msg.Code)
	}
	if msg.Timestamp == "" {
		t.Error("Timestamp should be set")
	}
}
