package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voicebridge/server/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeUtterance    MessageType = "utterance"
	MessageTypeTurnResult   MessageType = "turn_result"
	MessageTypePing         MessageType = "ping"
	MessageTypePong         MessageType = "pong"
	MessageTypeError        MessageType = "error"
	MessageTypeSessionReset MessageType = "session_reset"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type" validate:"required"`
	Timestamp string      `json:"timestamp"`
	MessageID string      `json:"message_id,omitempty"`
}

// UtteranceMessage carries one complete captured utterance from the device.
// AudioData may be empty, which the server reports back as a no_input turn.
type UtteranceMessage struct {
	BaseMessage
	SessionID string `json:"session_id" validate:"required"`
	AudioData string `json:"audio_data"` // base64 encoded
}

// TurnResultMessage is the server's reply to an utterance.
type TurnResultMessage struct {
	BaseMessage
	SessionID      string `json:"session_id"`
	Status         string `json:"status"`
	UserText       string `json:"user_text,omitempty"`
	AssistantText  string `json:"assistant_text,omitempty"`
	AssistantAudio string `json:"assistant_audio,omitempty"` // base64 encoded
	Error          string `json:"error,omitempty"`
}

// SessionResetMessage asks the server to discard a session's state.
type SessionResetMessage struct {
	BaseMessage
	SessionID string `json:"session_id" validate:"required"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct{}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidateMessage validates an incoming message
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	// First parse as base message to get type
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeUtterance:
		var msg UtteranceMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid utterance message: %w", err)
		}
		if msg.SessionID == "" {
			return nil, fmt.Errorf("session_id is required")
		}
		return &msg, nil

	case MessageTypeSessionReset:
		var msg SessionResetMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid session reset message: %w", err)
		}
		if msg.SessionID == "" {
			return nil, fmt.Errorf("session_id is required")
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

func newBaseMessage(messageType MessageType) BaseMessage {
	return BaseMessage{
		Type:      messageType,
		Timestamp: time.Now().Format(time.RFC3339),
		MessageID: uuid.New().String(),
	}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message, details string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: newBaseMessage(MessageTypeError),
		Code:        code,
		Message:     message,
		Details:     details,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: newBaseMessage(MessageTypePong),
		Data:        data,
	}
}

// CreateTurnResultMessage renders a pipeline result for a session.
func CreateTurnResultMessage(sessionID string, result entities.TurnResult, audioBase64 string) *TurnResultMessage {
	msg := &TurnResultMessage{
		BaseMessage:    newBaseMessage(MessageTypeTurnResult),
		SessionID:      sessionID,
		Status:         string(result.Status),
		UserText:       result.UserText,
		AssistantText:  result.AssistantText,
		AssistantAudio: audioBase64,
	}
	if result.Err != nil {
		msg.Error = result.Err.Error()
	}
	return msg
}
