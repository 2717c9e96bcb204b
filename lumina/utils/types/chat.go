package types

import (
	"lumina/lumina/services/transcript"
	"lumina/lumina/services/widget"
)

type ChatRequest struct {
	Content string `json:"content"`
}

// ErrorResponse doubles as the websocket "busy" and "error" events.
type ErrorResponse struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Snapshot is the first frame a websocket client receives.
type Snapshot struct {
	Type     string               `json:"type"`
	Messages []transcript.Message `json:"messages"`
	Widget   widget.State         `json:"widget"`
}
