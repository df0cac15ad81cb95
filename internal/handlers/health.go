package handlers

import (
	"net/http"

	"gemini-chat-backend/internal/models"
)

const rootMessage = "Gemini Fullstack Chatbot API - Fixed Image Processing"

// HealthHandler serves fixed responses; it never calls the model.
type HealthHandler struct {
	models []string
}

func NewHealthHandler(modelName string) *HealthHandler {
	return &HealthHandler{models: []string{modelName}}
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.RootResponse{Message: rootMessage})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy", Models: h.models})
}
