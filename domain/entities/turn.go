package entities

import "time"

// MessageRole represents the role of a message sender
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// TurnRecord is one utterance in a conversation. Records are immutable once
// appended; treat them as values.
type TurnRecord struct {
	Sequence   int         `json:"sequence"`
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	DurationMs int         `json:"duration_ms,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TurnStatus is the terminal state of one pipeline invocation.
type TurnStatus string

const (
	// TurnCompleted means the assistant replied; audio may still be absent
	// if synthesis failed.
	TurnCompleted TurnStatus = "completed"
	// TurnNoInput means no audio was presented this invocation.
	TurnNoInput TurnStatus = "no_input"
	// TurnTranscriptionEmpty means transcription succeeded but produced
	// nothing actionable.
	TurnTranscriptionEmpty TurnStatus = "transcription_empty"
	// TurnFailed means transcription or generation failed; session state is
	// unchanged.
	TurnFailed TurnStatus = "failed"
)

// TurnResult is the outcome of handling one captured utterance.
type TurnResult struct {
	Status         TurnStatus
	UserText       string
	AssistantText  string
	AssistantAudio []byte
	Err            error
}
