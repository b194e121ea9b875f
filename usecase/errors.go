package usecase

import "fmt"

// Stage identifies which external collaborator a turn failure came from.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageGeneration    Stage = "generation"
	StageSynthesis     Stage = "synthesis"
)

// StageError wraps a collaborator failure with the stage it occurred in.
// Transcription and generation failures abort the turn with session state
// unchanged; synthesis failures are absorbed and never surface through the
// turn status.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
