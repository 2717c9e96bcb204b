package widget

import (
	"context"
	"sync"

	"lumina/lumina/services/transcript"
	"lumina/lumina/utils/logging"

	"go.uber.org/zap"
)

type EventType string

const (
	EventMessage EventType = "message"
	EventWidget  EventType = "widget"
)

// State is what the floating button and the chat panel render from.
type State struct {
	Open    bool `json:"open"`
	Loading bool `json:"loading"`
	Unread  bool `json:"unread"`
}

type Event struct {
	Type    EventType           `json:"type"`
	Message *transcript.Message `json:"message,omitempty"`
	Widget  *State              `json:"widget,omitempty"`
}

const defaultSubscriberBuffer = 64

// Widget is the assistant panel: one transcript plus its open/closed state.
type Widget struct {
	transcript *transcript.Transcript

	mu   sync.RWMutex
	open bool

	subsMu sync.Mutex
	subs   map[int]chan Event
	nextID int
}

func New(sender transcript.Sender, greeting string) *Widget {
	w := &Widget{subs: make(map[int]chan Event)}
	w.transcript = transcript.New(sender,
		transcript.WithGreeting(greeting),
		transcript.WithListener(w.onMessage),
	)
	return w
}

func (w *Widget) Open()  { w.setOpen(true) }
func (w *Widget) Close() { w.setOpen(false) }

func (w *Widget) Toggle() State {
	w.mu.Lock()
	w.open = !w.open
	w.mu.Unlock()
	st := w.State()
	w.publish(Event{Type: EventWidget, Widget: &st})
	return st
}

func (w *Widget) setOpen(open bool) {
	w.mu.Lock()
	changed := w.open != open
	w.open = open
	w.mu.Unlock()
	if changed {
		st := w.State()
		w.publish(Event{Type: EventWidget, Widget: &st})
	}
}

func (w *Widget) IsOpen() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.open
}

// Loading is true while a reply streams; the input stays disabled meanwhile.
func (w *Widget) Loading() bool {
	return w.transcript.Busy()
}

// HasUnread drives the notification dot: the panel is closed and the
// conversation went past the greeting.
func (w *Widget) HasUnread() bool {
	return !w.IsOpen() && w.transcript.Len() > 1
}

func (w *Widget) State() State {
	return State{Open: w.IsOpen(), Loading: w.Loading(), Unread: w.HasUnread()}
}

func (w *Widget) Messages() []transcript.Message {
	return w.transcript.Messages()
}

// Submit forwards to the transcript and announces the settled widget state.
func (w *Widget) Submit(ctx context.Context, text string) (transcript.Message, error) {
	msg, err := w.transcript.Submit(ctx, text)
	if err != nil {
		return msg, err
	}
	st := w.State()
	w.publish(Event{Type: EventWidget, Widget: &st})
	return msg, nil
}

// Subscribe returns a stream of events and a func that ends it. A subscriber that
// falls behind by more than its buffer is dropped and its channel closed.
func (w *Widget) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, defaultSubscriberBuffer)

	w.subsMu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = ch
	w.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.subsMu.Lock()
			defer w.subsMu.Unlock()
			if c, ok := w.subs[id]; ok {
				delete(w.subs, id)
				close(c)
			}
		})
	}
}

func (w *Widget) onMessage(msg transcript.Message) {
	w.publish(Event{Type: EventMessage, Message: &msg})
}

func (w *Widget) publish(ev Event) {
	w.subsMu.Lock()
	defer w.subsMu.Unlock()
	for id, ch := range w.subs {
		select {
		case ch <- ev:
		default:
			logging.AppLogger.Warn("dropping slow widget subscriber", zap.Int("subscriber", id))
			delete(w.subs, id)
			close(ch)
		}
	}
}
