package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"gemini-chat-backend/internal/models"
)

// Generator is the AI capability the chat service depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateWithImage(ctx context.Context, prompt string, img *DecodedImage) (string, error)
	GenerateStream(ctx context.Context, prompt string, fn func(chunk string) error) error
}

// ChatService holds no per-request state; one instance serves all requests.
type ChatService struct {
	ai             Generator
	maxImagePixels int
	logger         *zap.SugaredLogger
}

func NewChatService(ai Generator, maxImagePixels int, logger *zap.SugaredLogger) *ChatService {
	return &ChatService{ai: ai, maxImagePixels: maxImagePixels, logger: logger}
}

// Chat forwards the message unchanged. Every call reaches the generator.
func (s *ChatService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	text, err := s.ai.Generate(ctx, req.Message)
	if err != nil {
		s.logger.Errorw("Error in chat endpoint", "error", err)
		return nil, ErrUpstream("Error generating response", err)
	}
	return &models.ChatResponse{Response: text}, nil
}

// ImageChat validates the upload and asks the model about it. Validation
// errors are returned as-is so the caller can report them as client errors.
func (s *ChatService) ImageChat(ctx context.Context, req models.ImageChatRequest) (*models.ImageChatResponse, error) {
	s.logger.Debugw("Received image",
		"filename", req.Filename,
		"content_type", req.ContentType,
		"bytes", len(req.ImageBytes),
	)

	img, err := ValidateImage(req.ImageBytes, req.ContentType, s.maxImagePixels)
	if err != nil {
		s.logger.Warnw("Rejected image upload", "filename", req.Filename, "kind", KindOf(err).String(), "error", err)
		return nil, err
	}

	s.logger.Debugw("Decoded image",
		"format", img.Format,
		"width", img.Width,
		"height", img.Height,
		"mode", img.SourceMode,
	)

	prompt := req.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = models.DefaultImagePrompt
	}

	text, err := s.ai.GenerateWithImage(ctx, prompt, img)
	if err != nil {
		s.logger.Errorw("Gemini API error", "filename", req.Filename, "error", err)
		return nil, ErrUpstream("Gemini API error", err)
	}

	return &models.ImageChatResponse{
		Response:  text,
		Filename:  req.Filename,
		ImageInfo: img.Info(),
	}, nil
}

// StreamChat is Chat delivered chunk by chunk. Errors returned by emit are
// passed back unwrapped; generator errors become upstream errors.
func (s *ChatService) StreamChat(ctx context.Context, req models.StreamRequest, emit func(chunk string) error) error {
	var emitErr error
	err := s.ai.GenerateStream(ctx, req.Message, func(chunk string) error {
		if err := emit(chunk); err != nil {
			emitErr = err
			return err
		}
		return nil
	})
	if emitErr != nil {
		return emitErr
	}
	if err != nil {
		s.logger.Errorw("Error in chat stream", "error", err)
		return ErrUpstream("Error generating response", err)
	}
	return nil
}
