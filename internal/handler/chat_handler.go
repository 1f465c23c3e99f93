package handler

import (
	"context"

	"abend-assist-be/internal/dto"
	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/internal/service"
	internalWS "abend-assist-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const maxSessionIdLength = 64

// ChatHandler serves the streaming chat socket. Every text frame is one
// utterance and is answered with one reply frame.
type ChatHandler struct {
	service service.IChatbotService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewChatHandler(service service.IChatbotService, hub *internalWS.Hub, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades the request; session_id is optional and generated when
// missing.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if len(sessionID) > maxSessionIdLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is too long"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ChatHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeChat(context.Background(), h.hub, conn, sessionID, h.turn)
			h.logger.Info("ChatHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *ChatHandler) turn(ctx context.Context, sessionID, utterance string) (*dto.ChatResponse, error) {
	return h.service.Send(ctx, &dto.ChatRequest{SessionId: sessionID, Message: utterance})
}

// RegisterRoutes registers the chat socket.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat", h.ServeWs)
}
