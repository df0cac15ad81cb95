package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultJPEGQuality = 90

// GeminiService is the AI client. The model handle is created once and shared
// read-only by every request.
type GeminiService struct {
	client      *genai.Client
	model       *genai.GenerativeModel
	modelName   string
	jpegQuality int
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, jpegQuality int) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = defaultJPEGQuality
	}

	return &GeminiService{
		client:      client,
		model:       client.GenerativeModel(modelName),
		modelName:   modelName,
		jpegQuality: jpegQuality,
	}, nil
}

func (s *GeminiService) ModelName() string {
	return s.modelName
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}

// Generate sends a text-only prompt.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// GenerateWithImage sends the prompt text followed by the image.
func (s *GeminiService) GenerateWithImage(ctx context.Context, prompt string, img *DecodedImage) (string, error) {
	part, err := imagePart(img.Image, s.jpegQuality)
	if err != nil {
		return "", err
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt), part)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// GenerateStream calls fn with each text chunk as the model produces it.
// An error from fn stops the stream and is returned unchanged.
func (s *GeminiService) GenerateStream(ctx context.Context, prompt string, fn func(chunk string) error) error {
	iter := s.model.GenerateContentStream(ctx, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}

		if text := extractText(resp); text != "" {
			if err := fn(text); err != nil {
				return err
			}
		}
	}
}

func imagePart(img image.Image, quality int) (genai.Blob, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return genai.Blob{}, fmt.Errorf("failed to encode image: %w", err)
	}
	return genai.ImageData("jpeg", buf.Bytes()), nil
}

// responseText returns the concatenated text of resp, or an error naming why
// the model produced none.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if text := extractText(resp); text != "" {
		return text, nil
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp != nil && resp.PromptFeedback != nil {
			return "", fmt.Errorf("model returned no candidates (block reason: %s)", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("model returned no candidates")
	}
	return "", fmt.Errorf("model returned no text (finish reason: %s)", resp.Candidates[0].FinishReason)
}

// extractText joins the text parts of the first candidate only; other
// candidates are separate answers.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}
