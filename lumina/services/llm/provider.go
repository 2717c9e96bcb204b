package llm

import (
	"context"
	"errors"
	"iter"
)

var (
	// ErrMalformedChunk is yielded when the provider sends a segment that cannot be read.
	ErrMalformedChunk = errors.New("malformed stream chunk")
)

// ConversationConfig is fixed when a conversation is created.
type ConversationConfig struct {
	Model             string
	SystemInstruction string
	Temperature       float32
}

// Provider opens stateful conversations with a text-generation service.
type Provider interface {
	Name() string
	// RequiresCredential reports whether the provider refuses to work without an API key.
	RequiresCredential() bool
	NewConversation(ctx context.Context, cfg ConversationConfig) (Conversation, error)
}

// Conversation is one provider-side chat session.
type Conversation interface {
	// SendStream yields text segments in arrival order. A non-nil error ends the sequence.
	SendStream(ctx context.Context, message string) iter.Seq2[string, error]
}
