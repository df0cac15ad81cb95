package models

// DefaultImagePrompt is used when an image upload carries no message.
const DefaultImagePrompt = "What do you see in this image?"

// ChatRequest is the payload sent to the text chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// ImageChatRequest is assembled from a multipart upload; it never travels as JSON.
type ImageChatRequest struct {
	ImageBytes  []byte
	Filename    string
	ContentType string
	Prompt      string
}

type ImageChatResponse struct {
	Response  string `json:"response"`
	Filename  string `json:"filename"`
	ImageInfo string `json:"image_info"`
}

// StreamRequest is one client frame on the chat stream.
type StreamRequest struct {
	Message string `json:"message"`
}

// Stream event types
const (
	StreamEventChunk = "chunk"
	StreamEventDone  = "done"
	StreamEventError = "error"
)

type StreamEvent struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Detail string `json:"detail,omitempty"`
}
