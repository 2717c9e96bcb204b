package llm

import (
	"bufio"
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

const DefaultOpenAIBaseURL = "https://api.groq.com/openai/v1"

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint
// (Groq by default). Like Ollama it is stateless, so history stays client-side.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
}

func NewOpenAIProvider(baseURL, apiKey string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIProvider{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type openAIChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float32   `json:"temperature"`
}

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) RequiresCredential() bool { return true }

func (p *OpenAIProvider) NewConversation(ctx context.Context, cfg ConversationConfig) (Conversation, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}
	return &openAIConversation{
		url:     p.baseURL + "/chat/completions",
		apiKey:  p.apiKey,
		cfg:     cfg,
		history: newHistory(cfg.SystemInstruction),
	}, nil
}

type openAIConversation struct {
	url     string
	apiKey  string
	cfg     ConversationConfig
	history *history
}

// SendStream reads the server-sent events of a streamed completion. The exchange
// joins the history only once the [DONE] marker arrives.
func (c *openAIConversation) SendStream(ctx context.Context, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		defer logging.LogDuration(ctx, "openai_service_run_stream")()

		body, err := httputils.PostStreamWithAuth(ctx, c.url, c.apiKey, openAIChatRequest{
			Model:       c.cfg.Model,
			Messages:    c.history.with(message),
			Stream:      true,
			Temperature: c.cfg.Temperature,
		})
		if err != nil {
			yield("", fmt.Errorf("openai request: %w", err))
			return
		}
		defer body.Close()

		reader := bufio.NewReader(body)
		var reply strings.Builder
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					yield("", io.ErrUnexpectedEOF)
					return
				}
				logging.ErrorLogger.Error("openai stream read error", zap.Error(err))
				yield("", err)
				return
			}

			line = strings.TrimSpace(line)
			// blank separators and SSE comments
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				c.history.commit(message, reply.String())
				return
			}

			var chunk openAIStreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				logging.ErrorLogger.Error("openai stream JSON parse error",
					zap.Error(err), zap.String("raw_line", data))
				yield("", fmt.Errorf("%w: %v", ErrMalformedChunk, err))
				return
			}
			if chunk.Error != nil {
				yield("", fmt.Errorf("openai: %s", chunk.Error.Message))
				return
			}
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				reply.WriteString(choice.Delta.Content)
				if !yield(choice.Delta.Content, nil) {
					return
				}
			}
		}
	}
}
