package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"gemini-chat-backend/internal/models"
	"gemini-chat-backend/internal/services"
)

const (
	// Multipart parts above this size spill to temp files.
	multipartMemory = 32 << 20

	chatErrorContext  = "Error generating response"
	imageErrorContext = "Unexpected error processing image"
)

type chatService interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	ImageChat(ctx context.Context, req models.ImageChatRequest) (*models.ImageChatResponse, error)
}

type ChatHandler struct {
	chat           chatService
	maxUploadBytes int64
	logger         *zap.SugaredLogger
}

func NewChatHandler(chat chatService, maxUploadBytes int64, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{
		chat:           chat,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Chat handles POST /chat with a JSON {"message": "..."} body.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleServiceError(w, services.ErrInvalidRequest("Invalid request body", err), chatErrorContext)
		return
	}

	resp, err := h.chat.Chat(r.Context(), req)
	if err != nil {
		handleServiceError(w, err, chatErrorContext)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ChatImage handles POST /chat/image: a multipart "file" plus an optional
// "message" field. The message may also arrive as a query parameter.
func (h *ChatHandler) ChatImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handleServiceError(w, services.ErrPayloadTooLarge(fmt.Sprintf("Upload exceeds the %d byte limit", maxErr.Limit)), imageErrorContext)
			return
		}
		h.logger.Warnw("Invalid multipart form", "error", err)
		handleServiceError(w, services.ErrInvalidRequest("Invalid multipart form", err), imageErrorContext)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		handleServiceError(w, services.ErrInvalidRequest("File is required", err), imageErrorContext)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		h.logger.Errorw("Failed to read upload", "filename", header.Filename, "error", err)
		handleServiceError(w, fmt.Errorf("failed to read upload: %w", err), imageErrorContext)
		return
	}

	message := r.PostFormValue("message")
	if message == "" {
		message = r.URL.Query().Get("message")
	}

	resp, err := h.chat.ImageChat(r.Context(), models.ImageChatRequest{
		ImageBytes:  raw,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Prompt:      message,
	})
	if err != nil {
		handleServiceError(w, err, imageErrorContext)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
