package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/voicebridge/server/adapters/llm"
	mongoadapter "github.com/voicebridge/server/adapters/mongo"
	"github.com/voicebridge/server/adapters/stt"
	"github.com/voicebridge/server/adapters/tts"
	"github.com/voicebridge/server/domain/repositories"
	"github.com/voicebridge/server/internal/api"
	"github.com/voicebridge/server/internal/config"
	"github.com/voicebridge/server/internal/websocket"
	"github.com/voicebridge/server/usecase"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Speech-to-text: Google Cloud when credentials are configured,
	// otherwise the deterministic mock.
	var speechToText repositories.SpeechToText
	if cfg.GoogleSTTEnabled {
		speechToText = stt.NewGoogleSpeechToText()
		logger.Info("Using Google Cloud speech-to-text")
	} else {
		speechToText = stt.NewMockSpeechToText(logger)
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using mock speech-to-text")
	}

	var languageModel repositories.LanguageModel
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiLanguageModel(ctx, llm.NewGeminiConfigFromEnv(), logger)
		if err != nil {
			logger.Fatal("Failed to initialize Gemini", zap.Error(err))
		}
		languageModel = gemini
		logger.Info("Using Gemini language model")
	} else {
		languageModel = llm.NewMockLanguageModel()
		logger.Warn("GEMINI_API_KEY not set, using mock language model")
	}

	var textToSpeech repositories.TextToSpeech
	if cfg.ElevenLabsAPIKey != "" {
		eleven, err := tts.NewElevenLabsTTS(tts.NewElevenLabsConfigFromEnv(), logger)
		if err != nil {
			logger.Fatal("Failed to initialize ElevenLabs", zap.Error(err))
		}
		textToSpeech = eleven
		logger.Info("Using ElevenLabs text-to-speech")
	} else {
		textToSpeech = tts.NewMockTextToSpeech(logger)
		logger.Warn("ELEVEN_LABS_API_KEY not set, using mock text-to-speech")
	}

	// Session archive: optional MongoDB write-behind persistence.
	var archive repositories.SessionArchive
	var mongoClient *mongoadapter.Client
	if cfg.MongoURI != "" {
		mongoClient, err = mongoadapter.NewClient(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		archive = mongoadapter.NewSessionArchive(mongoClient.Database)
	} else {
		logger.Info("MONGODB_URI not set, sessions are kept in memory only")
	}

	store := usecase.NewSessionStore(cfg.WindowPairs, archive, logger)
	store.StartJanitor(ctx, cfg.JanitorInterval)

	pipeline := usecase.NewTurnPipeline(
		store,
		speechToText,
		languageModel,
		textToSpeech,
		repositories.AudioConfig{
			SampleRate: cfg.SampleRate,
			Encoding:   cfg.AudioEncoding,
			Language:   cfg.Language,
		},
		repositories.VoiceConfig{
			Voice:     cfg.Voice,
			Language:  cfg.VoiceLanguage,
			Gender:    cfg.VoiceGender,
			SpeakRate: cfg.VoiceSpeakRate,
		},
		cfg.SystemPrompt,
		logger,
	)

	hub := websocket.NewHub(pipeline, store, logger)
	go hub.Run()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, cfg, pipeline, store, hub, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if mongoClient != nil {
		if err := mongoClient.Close(shutdownCtx); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
