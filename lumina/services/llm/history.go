package llm

import "sync"

// history is the client-side transcript of a stateless chat endpoint.
type history struct {
	mu   sync.Mutex
	msgs []Message
}

func newHistory(systemInstruction string) *history {
	return &history{msgs: []Message{{Role: "system", Content: systemInstruction}}}
}

// with returns the history followed by the pending user message.
func (h *history) with(message string) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := make([]Message, 0, len(h.msgs)+1)
	msgs = append(msgs, h.msgs...)
	return append(msgs, Message{Role: "user", Content: message})
}

// commit records a completed exchange so the next request carries it.
func (h *history) commit(message, reply string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs,
		Message{Role: "user", Content: message},
		Message{Role: "assistant", Content: reply},
	)
}
