package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/voicebridge/server/domain/entities"
	"github.com/voicebridge/server/domain/repositories"
)

// TurnPipeline orchestrates one conversation turn: transcription, contextual
// generation, memory commit, speech synthesis. One invocation processes at
// most one captured utterance.
//
// Failure containment: transcription and generation failures abort the turn
// before any session mutation; conversational state is committed exactly once,
// after generation succeeds and before synthesis is attempted. Synthesis
// failure degrades the turn to text only.
type TurnPipeline struct {
	store         *SessionStore
	speechToText  repositories.SpeechToText
	languageModel repositories.LanguageModel
	textToSpeech  repositories.TextToSpeech
	normalizer    *Normalizer
	audioConfig   repositories.AudioConfig
	voiceConfig   repositories.VoiceConfig
	systemPrompt  string
	logger        *zap.Logger
}

// NewTurnPipeline creates a new turn pipeline.
func NewTurnPipeline(
	store *SessionStore,
	stt repositories.SpeechToText,
	llm repositories.LanguageModel,
	tts repositories.TextToSpeech,
	audioConfig repositories.AudioConfig,
	voiceConfig repositories.VoiceConfig,
	systemPrompt string,
	logger *zap.Logger,
) *TurnPipeline {
	return &TurnPipeline{
		store:         store,
		speechToText:  stt,
		languageModel: llm,
		textToSpeech:  tts,
		normalizer:    NewNormalizer(),
		audioConfig:   audioConfig,
		voiceConfig:   voiceConfig,
		systemPrompt:  systemPrompt,
		logger:        logger,
	}
}

// HandleTurn drives one captured utterance through the pipeline and returns
// a terminal TurnResult. Invoking it with no audio is a side-effect-free
// no-op.
func (p *TurnPipeline) HandleTurn(ctx context.Context, sessionID string, audio []byte) entities.TurnResult {
	if len(audio) == 0 {
		return entities.TurnResult{Status: entities.TurnNoInput}
	}

	started := time.Now()

	transcript, err := p.speechToText.TranscribeAudio(ctx, audio, p.audioConfig)
	if err != nil {
		p.logger.Error("Transcription failed",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		return entities.TurnResult{
			Status: entities.TurnFailed,
			Err:    &StageError{Stage: StageTranscription, Err: err},
		}
	}

	userText := p.normalizer.Normalize(transcript)
	if !p.normalizer.IsActionable(transcript) {
		p.logger.Info("Transcription not actionable",
			zap.String("sessionID", sessionID),
			zap.String("transcript", transcript))
		return entities.TurnResult{
			Status:   entities.TurnTranscriptionEmpty,
			UserText: userText,
		}
	}

	session := p.store.Load(sessionID)
	messages := p.buildContext(session, userText)

	assistantText, err := p.languageModel.Generate(ctx, messages)
	if err != nil {
		// Session state is untouched: the user utterance is carried on the
		// result for display only and never enters memory or the turn log.
		p.logger.Error("Generation failed",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		return entities.TurnResult{
			Status:   entities.TurnFailed,
			UserText: userText,
			Err:      &StageError{Stage: StageGeneration, Err: err},
		}
	}

	// Commit point. The textual turn is durable from here on, independent
	// of synthesis.
	session.AppendExchange(userText, assistantText, p.estimateDurationMs(audio))
	p.store.Save(sessionID, session)

	p.logger.Info("Turn committed",
		zap.String("sessionID", sessionID),
		zap.Int("memoryPairs", session.Memory.Pairs()),
		zap.Duration("elapsed", time.Since(started)))

	result := entities.TurnResult{
		Status:        entities.TurnCompleted,
		UserText:      userText,
		AssistantText: assistantText,
	}

	audioOut, err := p.textToSpeech.SynthesizeAudio(ctx, assistantText, p.voiceConfig)
	if err != nil {
		p.logger.Warn("Synthesis failed, delivering text only",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		return result
	}
	result.AssistantAudio = audioOut
	return result
}

// DisplayLog returns the session's full turn log for rendering.
func (p *TurnPipeline) DisplayLog(sessionID string) []entities.TurnRecord {
	return p.store.Load(sessionID).DisplayLog()
}

// buildContext assembles the model-facing message sequence: fixed system
// instruction, the bounded memory window, then the new user utterance.
func (p *TurnPipeline) buildContext(session *entities.Session, userText string) []repositories.ChatMessage {
	window := session.Memory.AsContext()
	messages := make([]repositories.ChatMessage, 0, len(window)+2)
	messages = append(messages, repositories.ChatMessage{
		Role:    repositories.SystemRole,
		Content: p.systemPrompt,
	})
	for _, record := range window {
		role := repositories.UserRole
		if record.Role == entities.MessageRoleAssistant {
			role = repositories.AssistantRole
		}
		messages = append(messages, repositories.ChatMessage{
			Role:    role,
			Content: record.Content,
		})
	}
	messages = append(messages, repositories.ChatMessage{
		Role:    repositories.UserRole,
		Content: userText,
	})
	return messages
}

// estimateDurationMs derives the utterance duration from the payload size
// for 16-bit PCM encodings. Other containers report zero.
func (p *TurnPipeline) estimateDurationMs(audio []byte) int {
	if p.audioConfig.SampleRate <= 0 {
		return 0
	}
	switch p.audioConfig.Encoding {
	case "LINEAR16", "WAV", "pcm", "wav":
		bytesPerSecond := p.audioConfig.SampleRate * 2
		return len(audio) * 1000 / bytesPerSecond
	default:
		return 0
	}
}
