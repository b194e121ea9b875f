package api

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voicebridge/server/domain/entities"
	"github.com/voicebridge/server/internal/auth"
	"github.com/voicebridge/server/internal/config"
	"github.com/voicebridge/server/internal/websocket"
	"github.com/voicebridge/server/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	cfg config.Config,
	pipeline *usecase.TurnPipeline,
	store *usecase.SessionStore,
	hub *websocket.Hub,
	logger *zap.Logger,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "voicebridge-server",
		})
	})

	v1 := e.Group("/api/v1")

	v1.POST("/device/auth", func(c echo.Context) error {
		return deviceAuth(c, cfg, logger)
	})

	v1.POST("/sessions/:id/turns", func(c echo.Context) error {
		return handleTurn(c, pipeline, logger)
	})

	v1.GET("/sessions/:id/log", func(c echo.Context) error {
		return displayLog(c, pipeline)
	})

	v1.DELETE("/sessions/:id", func(c echo.Context) error {
		store.Reset(c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	})

	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, logger)
	})
}

func deviceAuth(c echo.Context, cfg config.Config, logger *zap.Logger) error {
	var req DeviceAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.DeviceID == "" || req.SecretKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Device id and secret key are required",
		})
	}
	if cfg.DeviceSecretKey == "" {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "auth_disabled",
			Message: "Device authentication is not configured",
		})
	}
	if subtle.ConstantTimeCompare([]byte(req.SecretKey), []byte(cfg.DeviceSecretKey)) != 1 {
		logger.Warn("Device authentication failed", zap.String("deviceID", req.DeviceID))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid device credentials",
		})
	}

	token, err := auth.GenerateDeviceToken(req.DeviceID)
	if err != nil {
		logger.Error("Failed to generate device token",
			zap.String("deviceID", req.DeviceID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, DeviceAuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		DeviceID:  req.DeviceID,
	})
}

func handleTurn(c echo.Context, pipeline *usecase.TurnPipeline, logger *zap.Logger) error {
	sessionID := c.Param("id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_session_id",
			Message: "Session id is required",
		})
	}

	var req TurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	var audio []byte
	if req.AudioData != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.AudioData)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_audio",
				Message: "audio_data must be base64 encoded",
			})
		}
		audio = decoded
	}

	result := pipeline.HandleTurn(c.Request().Context(), sessionID, audio)
	return c.JSON(http.StatusOK, RenderTurnResult(result))
}

func displayLog(c echo.Context, pipeline *usecase.TurnPipeline) error {
	sessionID := c.Param("id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_session_id",
			Message: "Session id is required",
		})
	}

	log := pipeline.DisplayLog(sessionID)
	out := make([]TurnRecordResponse, 0, len(log))
	for _, record := range log {
		out = append(out, TurnRecordResponse{
			Sequence:   record.Sequence,
			Role:       string(record.Role),
			Content:    record.Content,
			DurationMs: record.DurationMs,
			CreatedAt:  record.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// RenderTurnResult converts a pipeline result to its JSON shape.
func RenderTurnResult(result entities.TurnResult) TurnResponse {
	resp := TurnResponse{
		Status:        string(result.Status),
		UserText:      result.UserText,
		AssistantText: result.AssistantText,
	}
	if len(result.AssistantAudio) > 0 {
		resp.AssistantAudio = base64.StdEncoding.EncodeToString(result.AssistantAudio)
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func websocketWithAuth(hub *websocket.Hub, c echo.Context, logger *zap.Logger) error {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}
	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required in Authorization header",
		})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}
	if claims.Role != "device" {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only device tokens are allowed for WebSocket connections",
		})
	}

	return websocket.HandleConnection(hub, c, claims.DeviceID, logger)
}
