package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	httputils "lumina/lumina/utils/http"
	"lumina/lumina/utils/logging"

	"go.uber.org/zap"
)

// OllamaProvider keeps the chat history client-side; Ollama itself is stateless.
type OllamaProvider struct {
	baseURL string
}

func NewOllamaProvider(baseURL string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434/api"
	}
	return &OllamaProvider{baseURL: strings.TrimRight(baseURL, "/")}
}

type ChatRequest struct {
	Model    string                 `json:"model"`
	Messages []Message              `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
	Error   string  `json:"error,omitempty"`
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) RequiresCredential() bool { return false }

func (p *OllamaProvider) NewConversation(ctx context.Context, cfg ConversationConfig) (Conversation, error) {
	if cfg.Model == "" {
		return nil, errors.New("ollama: model is required")
	}
	return &ollamaConversation{
		url:     p.baseURL + "/chat",
		cfg:     cfg,
		history: newHistory(cfg.SystemInstruction),
	}, nil
}

type ollamaConversation struct {
	url     string
	cfg     ConversationConfig
	history *history
}

func (c *ollamaConversation) request(message string) ChatRequest {
	return ChatRequest{
		Model:    c.cfg.Model,
		Messages: c.history.with(message),
		Stream:   true,
		Options:  map[string]interface{}{"temperature": c.cfg.Temperature},
	}
}

func (c *ollamaConversation) SendStream(ctx context.Context, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		defer logging.LogDuration(ctx, "llm_service_run_stream")()

		body, err := httputils.PostStream(ctx, c.url, c.request(message))
		if err != nil {
			yield("", fmt.Errorf("ollama request: %w", err))
			return
		}
		defer body.Close()

		decoder := json.NewDecoder(body)
		var reply strings.Builder
		for {
			var chunk ChatResponse
			if err := decoder.Decode(&chunk); err != nil {
				if err == io.EOF {
					// stream closed without a done marker
					yield("", io.ErrUnexpectedEOF)
					return
				}
				logging.ErrorLogger.Error("llm stream decode error", zap.Error(err))
				yield("", fmt.Errorf("%w: %v", ErrMalformedChunk, err))
				return
			}
			if chunk.Error != "" {
				yield("", fmt.Errorf("ollama: %s", chunk.Error))
				return
			}
			if chunk.Message.Content != "" {
				reply.WriteString(chunk.Message.Content)
				if !yield(chunk.Message.Content, nil) {
					return
				}
			}
			if chunk.Done {
				c.history.commit(message, reply.String())
				return
			}
		}
	}
}
