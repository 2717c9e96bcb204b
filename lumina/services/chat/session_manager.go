package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lumina/lumina/services/llm"
	"lumina/lumina/telemetry"
	"lumina/lumina/utils/logging"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrMissingCredential = errors.New("no API credential configured")
	ErrSessionCreate     = errors.New("could not create conversation")
	ErrNoSession         = errors.New("no conversation available")
	ErrStream            = errors.New("response stream interrupted")
	ErrEmptyMessage      = errors.New("message is empty")
)

const (
	DefaultInitFallback   = "Désolé, je n'ai pas pu initialiser la connexion neuronale. Vérifiez la clé API."
	DefaultStreamFallback = "Une perturbation dans le flux de données a empêché la réponse."
)

// State is the lifecycle of a single Send call.
type State int

const (
	StateIdle State = iota
	StateSessionPending
	StateStreaming
	StateSettled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSessionPending:
		return "session_pending"
	case StateStreaming:
		return "streaming"
	case StateSettled:
		return "settled"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Options struct {
	// APIKey is only checked for providers that require one.
	APIKey       string
	Conversation llm.ConversationConfig

	InitFallback   string
	StreamFallback string

	// StreamTimeout bounds a single Send once streaming starts. Zero disables it.
	StreamTimeout time.Duration

	// OnState, when set, observes every state transition of every Send.
	OnState func(State)

	Tracer trace.Tracer
	Meter  metric.Meter
}

// SessionManager owns one conversation with the generation service.
// Send calls are expected to be serialised by the caller.
type SessionManager struct {
	provider llm.Provider
	opts     Options

	mu   sync.Mutex
	conv llm.Conversation

	tracer   trace.Tracer
	chunks   metric.Int64Counter
	failures metric.Int64Counter
}

func NewSessionManager(provider llm.Provider, opts Options) *SessionManager {
	if opts.InitFallback == "" {
		opts.InitFallback = DefaultInitFallback
	}
	if opts.StreamFallback == "" {
		opts.StreamFallback = DefaultStreamFallback
	}
	if opts.Tracer == nil {
		opts.Tracer = telemetry.Tracer()
	}
	if opts.Meter == nil {
		opts.Meter = telemetry.Meter()
	}

	m := &SessionManager{provider: provider, opts: opts, tracer: opts.Tracer}
	var err error
	if m.chunks, err = opts.Meter.Int64Counter("lumina.chat.chunks",
		metric.WithDescription("text segments received from the provider")); err != nil {
		logging.ErrorLogger.Error("chunk counter", zap.Error(err))
	}
	if m.failures, err = opts.Meter.Int64Counter("lumina.chat.failures",
		metric.WithDescription("sends that ended with a fallback message")); err != nil {
		logging.ErrorLogger.Error("failure counter", zap.Error(err))
	}
	return m
}

// EnsureSession returns the cached conversation, creating it on first use.
// A failed creation caches nothing so the next call retries.
func (m *SessionManager) EnsureSession(ctx context.Context) (llm.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conv != nil {
		return m.conv, nil
	}

	ctx, span := m.tracer.Start(ctx, "chat.EnsureSession")
	defer span.End()
	defer logging.LogDuration(ctx, "chat_ensure_session")()

	if m.provider.RequiresCredential() && m.opts.APIKey == "" {
		logging.ErrorLogger.Error("API_KEY is missing in environment variables",
			zap.String("provider", m.provider.Name()))
		span.SetStatus(codes.Error, ErrMissingCredential.Error())
		return nil, ErrMissingCredential
	}

	conv, err := m.provider.NewConversation(ctx, m.opts.Conversation)
	if err != nil {
		logging.ErrorLogger.Error("Failed to initialize chat",
			zap.String("provider", m.provider.Name()), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create conversation")
		return nil, fmt.Errorf("%w: %w", ErrSessionCreate, err)
	}
	m.conv = conv
	logging.AppLogger.Info("chat session created",
		zap.String("provider", m.provider.Name()),
		zap.String("model", m.opts.Conversation.Model))
	return conv, nil
}

// HasSession reports whether a conversation is cached.
func (m *SessionManager) HasSession() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv != nil
}

// Reset drops the cached conversation; the next Send starts a new one.
func (m *SessionManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conv = nil
}

// Send streams the reply to text, calling onChunk with the cumulative text after every
// segment. On failure onChunk receives a fallback sentence once more and the returned
// error wraps ErrNoSession or ErrStream.
func (m *SessionManager) Send(ctx context.Context, text string, onChunk func(cumulative string)) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if onChunk == nil {
		onChunk = func(string) {}
	}

	ctx, span := m.tracer.Start(ctx, "chat.Send")
	defer span.End()
	defer logging.LogDuration(ctx, "chat_send")()

	m.transition(StateIdle)

	m.mu.Lock()
	conv := m.conv
	m.mu.Unlock()

	if conv == nil {
		m.transition(StateSessionPending)
		var err error
		conv, err = m.EnsureSession(ctx)
		if err != nil {
			m.fail(ctx, span, "no_session", err)
			onChunk(m.opts.InitFallback)
			return fmt.Errorf("%w: %w", ErrNoSession, err)
		}
	}

	if m.opts.StreamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.StreamTimeout)
		defer cancel()
	}

	m.transition(StateStreaming)
	var acc strings.Builder
	segments := 0
	for segment, err := range conv.SendStream(ctx, text) {
		if err != nil {
			logging.ErrorLogger.Error("Error sending message",
				zap.Int("segments", segments), zap.Int("received_bytes", acc.Len()), zap.Error(err))
			m.fail(ctx, span, "stream", err)
			onChunk(m.opts.StreamFallback)
			return fmt.Errorf("%w: %w", ErrStream, err)
		}
		if segment == "" {
			continue
		}
		segments++
		acc.WriteString(segment)
		if m.chunks != nil {
			m.chunks.Add(ctx, 1)
		}
		onChunk(acc.String())
	}

	m.transition(StateSettled)
	span.SetAttributes(attribute.Int("chat.segments", segments), attribute.Int("chat.bytes", acc.Len()))
	logging.AppLogger.Info("chat reply settled", zap.Int("segments", segments), zap.Int("bytes", acc.Len()))
	return nil
}

func (m *SessionManager) transition(s State) {
	if m.opts.OnState != nil {
		m.opts.OnState(s)
	}
}

func (m *SessionManager) fail(ctx context.Context, span trace.Span, kind string, err error) {
	m.transition(StateFailed)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}
