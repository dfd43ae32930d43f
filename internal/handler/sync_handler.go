package handler

import (
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/serverutils"
	internalWS "notekeeper-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// SyncHandler upgrades authenticated requests into live note-sync connections.
type SyncHandler struct {
	hub      *internalWS.Hub
	verifier serverutils.TokenVerifier
	logger   logger.ILogger
}

func NewSyncHandler(hub *internalWS.Hub, verifier serverutils.TokenVerifier, log logger.ILogger) *SyncHandler {
	return &SyncHandler{
		hub:      hub,
		verifier: verifier,
		logger:   log,
	}
}

func (h *SyncHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/notes",
		serverutils.JwtMiddleware(h.verifier, serverutils.AllowQueryToken()),
		h.upgrade,
		websocket.New(h.serve),
	)
}

func (h *SyncHandler) upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	return ctx.Next()
}

func (h *SyncHandler) serve(conn *websocket.Conn) {
	userID, ok := conn.Locals(serverutils.LocalUserID).(uuid.UUID)
	if !ok {
		_ = conn.Close()
		return
	}

	h.logger.Debug("SyncHandler", "Client connected", map[string]interface{}{"user_id": userID})
	internalWS.NewClient(h.hub, conn, userID).Serve()
	h.logger.Debug("SyncHandler", "Client disconnected", map[string]interface{}{"user_id": userID})
}
