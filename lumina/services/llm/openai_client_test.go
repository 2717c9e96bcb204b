package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openAIRecorder struct {
	mu    sync.Mutex
	reqs  []openAIChatRequest
	auths []string
}

func (r *openAIRecorder) last() (openAIChatRequest, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reqs[len(r.reqs)-1], r.auths[len(r.auths)-1]
}

func openAIServer(t *testing.T, lines ...string) (*httptest.Server, *openAIRecorder) {
	t.Helper()
	rec := &openAIRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var req openAIChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, req)
		rec.auths = append(rec.auths, r.Header.Get("Authorization"))
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			_, _ = io.WriteString(w, l+"\n\n")
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newOpenAIConversation(t *testing.T, url string) Conversation {
	t.Helper()
	conv, err := NewOpenAIProvider(url+"/v1/", "gsk-test").NewConversation(context.Background(), ConversationConfig{
		Model:             "llama-3.1-8b-instant",
		SystemInstruction: "Tu es Lumina.",
		Temperature:       0.7,
	})
	require.NoError(t, err)
	return conv
}

func TestOpenAIStreamsDeltas(t *testing.T) {
	srv, rec := openAIServer(t,
		": keep-alive",
		`data: {"choices":[{"delta":{"role":"assistant"}}]}`,
		`data: {"choices":[{"delta":{"content":"Bon"}}]}`,
		`data: {"choices":[{"delta":{"content":"jour"}}]}`,
		`data: {"choices":[{"delta":{},"finish_reason":"stop"}]}`,
		`data: [DONE]`,
	)
	conv := newOpenAIConversation(t, srv.URL)

	segs, err := collect(conv.SendStream(context.Background(), "Salut"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bon", "jour"}, segs)

	req, auth := rec.last()
	assert.Equal(t, "Bearer gsk-test", auth)
	assert.True(t, req.Stream)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)

	_, err = collect(conv.SendStream(context.Background(), "Encore"))
	require.NoError(t, err)
	req, _ = rec.last()
	require.Len(t, req.Messages, 4)
	assert.Equal(t, Message{Role: "assistant", Content: "Bonjour"}, req.Messages[2])
}

func TestOpenAIMalformedChunk(t *testing.T) {
	srv, _ := openAIServer(t,
		`data: {"choices":[{"delta":{"content":"Bon"}}]}`,
		`data: {oops`,
	)
	segs, err := collect(newOpenAIConversation(t, srv.URL).SendStream(context.Background(), "x"))
	assert.ErrorIs(t, err, ErrMalformedChunk)
	assert.Equal(t, []string{"Bon"}, segs)
}

func TestOpenAITruncatedStream(t *testing.T) {
	srv, _ := openAIServer(t, `data: {"choices":[{"delta":{"content":"Bon"}}]}`)
	_, err := collect(newOpenAIConversation(t, srv.URL).SendStream(context.Background(), "x"))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestOpenAIErrorEvent(t *testing.T) {
	srv, _ := openAIServer(t, `data: {"error":{"message":"rate limited"}}`)
	_, err := collect(newOpenAIConversation(t, srv.URL).SendStream(context.Background(), "x"))
	assert.ErrorContains(t, err, "rate limited")
}

func TestOpenAIWithoutKey(t *testing.T) {
	p := NewOpenAIProvider("", "")
	assert.True(t, p.RequiresCredential())
	_, err := p.NewConversation(context.Background(), ConversationConfig{Model: "m"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
