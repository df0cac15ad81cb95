package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"gemini-chat-backend/internal/handlers"
	"gemini-chat-backend/internal/middleware"
	"gemini-chat-backend/internal/models"
	"gemini-chat-backend/internal/services"
	"gemini-chat-backend/internal/websocket"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "echo: " + prompt, nil
}

func (echoGenerator) GenerateWithImage(ctx context.Context, prompt string, img *services.DecodedImage) (string, error) {
	return "image: " + prompt, nil
}

func (echoGenerator) GenerateStream(ctx context.Context, prompt string, fn func(string) error) error {
	return fn("echo: " + prompt)
}

func newTestRouter() http.Handler {
	logger := zap.NewNop().Sugar()
	chat := services.NewChatService(echoGenerator{}, services.DefaultMaxImagePixels, logger)
	return New(
		logger,
		handlers.NewChatHandler(chat, 1<<20, logger),
		handlers.NewHealthHandler("gemini-1.5-flash"),
		websocket.NewStreamHandler(chat, []string{"*"}, logger),
		[]string{"*"},
	)
}

func TestRouter_Root(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	want := `{"message":"Gemini Fullstack Chatbot API - Fixed Image Processing"}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	want := `{"status":"healthy","models":["gemini-1.5-flash"]}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("expected request ID header on every response")
	}
}

func TestRouter_Chat(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"ping"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var body struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Response != "echo: ping" {
		t.Fatalf("expected 'echo: ping', got %q", body.Response)
	}
}

func TestRouter_MethodAndPath(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   int
		detail string
	}{
		{http.MethodGet, "/chat", http.StatusMethodNotAllowed, "Method Not Allowed"},
		{http.MethodGet, "/chat/image", http.StatusMethodNotAllowed, "Method Not Allowed"},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, "Method Not Allowed"},
		{http.MethodGet, "/missing", http.StatusNotFound, "Not Found"},
		{http.MethodGet, "/chat/missing", http.StatusNotFound, "Not Found"},
	}

	router := newTestRouter()
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected application/json, got %q", ct)
			}
			var body models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Detail != tc.detail {
				t.Fatalf("expected detail %q, got %q", tc.detail, body.Detail)
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	newTestRouter().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected request origin to be echoed, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
}
