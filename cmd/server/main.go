package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gemini-chat-backend/internal/config"
	"gemini-chat-backend/internal/handlers"
	"gemini-chat-backend/internal/logging"
	"gemini-chat-backend/internal/router"
	"gemini-chat-backend/internal/services"
	"gemini-chat-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration error: %v", err)
	}

	// ──── Step 2: Initialize Logger ────
	baseLogger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer baseLogger.Sync()
	logger := baseLogger.Sugar()
	logger.Info("🚀 Starting Gemini chat backend...")

	// ──── Step 3: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ImageJPEGQuality)
	if err != nil {
		logger.Fatalw("✗ Gemini client initialization failed", "error", err)
	}
	defer geminiService.Close()
	logger.Infow("✓ Gemini client initialized", "model", geminiService.ModelName())

	// ──── Step 4: Initialize Services & Handlers ────
	chatService := services.NewChatService(geminiService, cfg.MaxImagePixels, logger)
	chatHandler := handlers.NewChatHandler(chatService, cfg.MaxUploadBytes, logger)
	healthHandler := handlers.NewHealthHandler(geminiService.ModelName())
	streamHandler := websocket.NewStreamHandler(chatService, cfg.AllowedOrigins, logger)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(logger, chatHandler, healthHandler, streamHandler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		defer close(idle)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
		}
	}()

	logger.Infof("✓ Gemini chat backend ready on http://localhost:%s", cfg.Port)
	logger.Infof("  WS:  ws://localhost:%s/chat/stream", cfg.Port)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Server error", "error", err)
	}
	<-idle
}
