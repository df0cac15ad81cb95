package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gemini-chat-backend/internal/middleware"
	"gemini-chat-backend/internal/models"
	"gemini-chat-backend/internal/services"
)

type streamService interface {
	StreamChat(ctx context.Context, req models.StreamRequest, emit func(chunk string) error) error
}

// StreamHandler serves GET /chat/stream. Every text frame from the client is
// answered on its own; nothing is remembered between frames.
type StreamHandler struct {
	chat     streamService
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewStreamHandler(chat streamService, allowedOrigins []string, logger *zap.SugaredLogger) *StreamHandler {
	return &StreamHandler{
		chat:   chat,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker follows the CORS origin list; clients that send no Origin
// (non-browser) are accepted.
func originChecker(allowed []string) func(r *http.Request) bool {
	allow := middleware.AllowOrigin(allowed)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allow(origin)
	}
}

func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.logger.Debugw("WebSocket connected", "remote_addr", r.RemoteAddr)

	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warnw("WebSocket read failed", "error", err)
			}
			break
		}

		if err := h.serveFrame(ctx, conn, data); err != nil {
			h.logger.Warnw("WebSocket write failed", "error", err)
			break
		}
	}

	h.logger.Debugw("WebSocket disconnected", "remote_addr", r.RemoteAddr)
}

// serveFrame answers one client frame. It returns an error only when the
// connection can no longer be written to.
func (h *StreamHandler) serveFrame(ctx context.Context, conn *websocket.Conn, data []byte) error {
	var req models.StreamRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return conn.WriteJSON(models.StreamEvent{
			Type:   models.StreamEventError,
			Detail: services.ErrInvalidRequest("Invalid message frame", err).Error(),
		})
	}

	var writeErr error
	err := h.chat.StreamChat(ctx, req, func(chunk string) error {
		if err := conn.WriteJSON(models.StreamEvent{Type: models.StreamEventChunk, Text: chunk}); err != nil {
			writeErr = err
			return err
		}
		return nil
	})
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		var svcErr *services.Error
		if !errors.As(err, &svcErr) {
			err = services.ErrUpstream("Error generating response", err)
		}
		return conn.WriteJSON(models.StreamEvent{Type: models.StreamEventError, Detail: err.Error()})
	}

	return conn.WriteJSON(models.StreamEvent{Type: models.StreamEventDone})
}
