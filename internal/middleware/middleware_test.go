package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gemini-chat-backend/internal/models"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Fatalf("expected request ID in context")
	}
	if got := rr.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("expected response header %q, got %q", seen, got)
	}
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "trace-123" {
		t.Fatalf("expected client request ID, got %q", seen)
	}
}

func TestRequestID_ReplacesOversizedValue(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(seen) != 36 {
		t.Fatalf("expected a generated UUID, got %q", seen)
	}
}

func TestRecover_WritesJSONDetail(t *testing.T) {
	h := Recover(zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/chat", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Detail != "Unexpected error: nil map write" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core).Sugar()

	h := RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))

	entries := logs.FilterMessage("request").AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("expected status 418, got %v", fields["status"])
	}
	if fields["path"] != "/teapot" {
		t.Errorf("expected path /teapot, got %v", fields["path"])
	}
	if fields["bytes"] != int64(len("short and stout")) {
		t.Errorf("expected bytes %d, got %v", len("short and stout"), fields["bytes"])
	}
	if fields["request_id"] == "" {
		t.Errorf("expected request_id to be logged")
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("preflight should not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected request origin to be echoed, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
}

func TestCORS_ListedOriginsOnly(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:3000", "http://localhost:3000"},
		{"http://evil.example", ""},
	}

	for _, tc := range tests {
		t.Run(tc.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tc.origin)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Fatalf("expected Access-Control-Allow-Origin %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAllowOrigin(t *testing.T) {
	tests := []struct {
		allowed []string
		origin  string
		want    bool
	}{
		{[]string{"*"}, "https://anything.example", true},
		{[]string{" https://app.example "}, "https://APP.example", true},
		{[]string{"https://app.example"}, "https://other.example", false},
		{nil, "https://app.example", false},
	}

	for _, tc := range tests {
		if got := AllowOrigin(tc.allowed)(tc.origin); got != tc.want {
			t.Errorf("AllowOrigin(%v)(%q): expected %v, got %v", tc.allowed, tc.origin, tc.want, got)
		}
	}
}
