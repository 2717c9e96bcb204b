package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"lumina/lumina/utils/logging"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var ErrMissingAPIKey = errors.New("API key is required")

// GeminiProvider talks to the Gemini API through the official SDK.
type GeminiProvider struct {
	apiKey string
	client *genai.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) RequiresCredential() bool { return true }

func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	if p.client != nil {
		return p.client, nil
	}
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	p.client = client
	return client, nil
}

func (p *GeminiProvider) NewConversation(ctx context.Context, cfg ConversationConfig) (Conversation, error) {
	defer logging.LogDuration(ctx, "gemini_new_conversation")()

	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := client.Chats.Create(ctx, cfg.Model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(cfg.Temperature),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create gemini chat: %w", err)
	}
	logging.AppLogger.Info("gemini chat created", zap.String("model", cfg.Model))
	return &geminiConversation{chat: chat}, nil
}

type geminiConversation struct {
	chat *genai.Chat
}

func (c *geminiConversation) SendStream(ctx context.Context, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		defer logging.LogDuration(ctx, "gemini_send_stream")()

		for resp, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: message}) {
			if err != nil {
				logging.ErrorLogger.Error("gemini stream error", zap.Error(err))
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			if resp == nil {
				yield("", ErrMalformedChunk)
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}
