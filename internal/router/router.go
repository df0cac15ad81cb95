package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gemini-chat-backend/internal/handlers"
	"gemini-chat-backend/internal/middleware"
	"gemini-chat-backend/internal/websocket"
)

func New(
	logger *zap.SugaredLogger,
	chatHandler *handlers.ChatHandler,
	healthHandler *handlers.HealthHandler,
	streamHandler *websocket.StreamHandler,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Set before any Route so subrouters inherit them.
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)

	// ──── Chat Routes ────
	r.Route("/chat", func(r chi.Router) {
		r.Post("/", chatHandler.Chat)
		r.Post("/image", chatHandler.ChatImage)
		r.Get("/stream", streamHandler.HandleStream)
	})

	return r
}
