package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voicebridge/server/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Utterances arrive as one
	// complete base64 payload, so this bounds utterance length too.
	maxMessageSize = 512 * 1024

	// Upper bound on a single transcribe-generate-synthesize round trip.
	turnTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active clients.
type Hub struct {
	// Registered clients.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	pipeline *usecase.TurnPipeline
	store    *usecase.SessionStore

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(pipeline *usecase.TurnPipeline, store *usecase.SessionStore, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		pipeline:   pipeline,
		store:      store,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.deviceID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("deviceID", client.deviceID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.deviceID]; ok {
				delete(h.clients, client.deviceID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("deviceID", client.deviceID))
		}
	}
}

type WriteData struct {
	// Type is websocket.TextMessage or websocket.BinaryMessage.
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// Device ID for this client
	deviceID string

	// Logger
	logger *zap.Logger

	validator *MessageValidator

	// Serializes turns so a session never has more than one in flight.
	mutex sync.Mutex
}

// HandleConnection upgrades an authenticated request and starts the pumps.
func HandleConnection(hub *Hub, c echo.Context, deviceID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan WriteData, 256),
		deviceID:  deviceID,
		logger:    logger,
		validator: NewMessageValidator(),
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			// Binary frames carry one complete raw utterance for the
			// device's default session.
			c.runTurn(c.deviceID, message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage processes incoming text messages from the device
func (c *Client) processMessage(message []byte) {
	validated, err := c.validator.ValidateMessage(message)
	if err != nil {
		c.logger.Warn("Rejected message", zap.Error(err))
		c.sendJSON(CreateErrorMessage("invalid_message", err.Error(), ""))
		return
	}

	switch msg := validated.(type) {
	case *UtteranceMessage:
		c.handleUtterance(msg)
	case *SessionResetMessage:
		c.hub.store.Reset(msg.SessionID)
		c.logger.Info("Session reset",
			zap.String("deviceID", c.deviceID),
			zap.String("sessionID", msg.SessionID))
	case *PingMessage:
		c.sendJSON(CreatePongMessage(msg.Data))
	}
}

// handleUtterance decodes the payload and runs one conversation turn.
func (c *Client) handleUtterance(msg *UtteranceMessage) {
	var audio []byte
	if msg.AudioData != "" {
		decoded, err := base64.StdEncoding.DecodeString(msg.AudioData)
		if err != nil {
			c.logger.Warn("Failed to decode utterance audio",
				zap.String("sessionID", msg.SessionID),
				zap.Error(err))
			c.sendJSON(CreateErrorMessage("invalid_audio", "audio_data must be base64 encoded", ""))
			return
		}
		audio = decoded
	}

	c.runTurn(msg.SessionID, audio)
}

func (c *Client) runTurn(sessionID string, audio []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	result := c.hub.pipeline.HandleTurn(ctx, sessionID, audio)

	var audioBase64 string
	if len(result.AssistantAudio) > 0 {
		audioBase64 = base64.StdEncoding.EncodeToString(result.AssistantAudio)
	}

	c.logger.Info("Turn completed",
		zap.String("deviceID", c.deviceID),
		zap.String("sessionID", sessionID),
		zap.String("status", string(result.Status)))

	c.sendJSON(CreateTurnResultMessage(sessionID, result, audioBase64))
}

func (c *Client) sendJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal outbound message", zap.Error(err))
		return
	}
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Dropping outbound message, send buffer full",
			zap.String("deviceID", c.deviceID))
	}
}
