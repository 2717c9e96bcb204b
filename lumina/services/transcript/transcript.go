package transcript

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"lumina/lumina/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyInput = errors.New("message is empty")
	// ErrBusy rejects a submit while a reply is still streaming. The rejected text is dropped.
	ErrBusy = errors.New("a reply is still in progress")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	ID          uuid.UUID `json:"id"`
	Role        Role      `json:"role"`
	Text        string    `json:"text"`
	IsStreaming bool      `json:"isStreaming,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Sender streams a reply, calling onChunk with the cumulative text.
type Sender interface {
	Send(ctx context.Context, text string, onChunk func(cumulative string)) error
}

type Option func(*Transcript)

// WithGreeting seeds the transcript with a settled model message.
func WithGreeting(text string) Option {
	return func(t *Transcript) {
		if text != "" {
			t.appendLocked(RoleModel, text, false)
		}
	}
}

// WithListener registers fn to be called, outside the lock, with a copy of every
// appended or updated message. Listeners run in registration order.
func WithListener(fn func(Message)) Option {
	return func(t *Transcript) {
		t.listeners = append(t.listeners, fn)
	}
}

// Transcript is the ordered, append-only chat history of one widget.
type Transcript struct {
	sender Sender

	mu        sync.Mutex
	messages  []Message
	index     map[uuid.UUID]int
	busy      bool
	listeners []func(Message)
}

func New(sender Sender, opts ...Option) *Transcript {
	t := &Transcript{
		sender: sender,
		index:  make(map[uuid.UUID]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Submit appends the user's message and a streaming placeholder, then fills the
// placeholder from the sender until the reply settles. Send failures are not returned:
// the sender's fallback text is the reply. The settled placeholder is returned.
func (t *Transcript) Submit(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyInput
	}

	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		logging.AppLogger.Info("submit rejected, reply in progress")
		return Message{}, ErrBusy
	}
	t.busy = true
	user := t.appendLocked(RoleUser, text, false)
	placeholder := t.appendLocked(RoleModel, "", true)
	t.mu.Unlock()

	t.notify(user)
	t.notify(placeholder)

	err := t.sender.Send(ctx, text, func(cumulative string) {
		t.update(placeholder.ID, cumulative)
	})
	if err != nil {
		logging.AppLogger.Warn("reply ended with fallback",
			zap.String("message_id", placeholder.ID.String()), zap.Error(err))
	}

	t.mu.Lock()
	settled := t.settleLocked(placeholder.ID)
	t.busy = false
	t.mu.Unlock()

	t.notify(settled)
	return settled, nil
}

// Busy reports whether a reply is streaming.
func (t *Transcript) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Messages returns a copy of the history in insertion order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Message(nil), t.messages...)
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

func (t *Transcript) Get(id uuid.UUID) (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[id]
	if !ok {
		return Message{}, false
	}
	return t.messages[i], true
}

func (t *Transcript) appendLocked(role Role, text string, streaming bool) Message {
	msg := Message{
		ID:          uuid.New(),
		Role:        role,
		Text:        text,
		IsStreaming: streaming,
		CreatedAt:   time.Now(),
	}
	t.index[msg.ID] = len(t.messages)
	t.messages = append(t.messages, msg)
	return msg
}

// update overwrites the text of a streaming model message; anything else is left alone.
func (t *Transcript) update(id uuid.UUID, text string) {
	t.mu.Lock()
	i, ok := t.index[id]
	if !ok || t.messages[i].Role != RoleModel || !t.messages[i].IsStreaming {
		t.mu.Unlock()
		logging.ErrorLogger.Error("chunk for a message that is not streaming", zap.String("message_id", id.String()))
		return
	}
	t.messages[i].Text = text
	msg := t.messages[i]
	t.mu.Unlock()

	t.notify(msg)
}

func (t *Transcript) settleLocked(id uuid.UUID) Message {
	i := t.index[id]
	t.messages[i].IsStreaming = false
	return t.messages[i]
}

func (t *Transcript) notify(msg Message) {
	for _, fn := range t.listeners {
		fn(msg)
	}
}
