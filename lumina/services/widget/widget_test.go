package widget

import (
	"context"
	"testing"

	"lumina/lumina/services/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type echoSender struct{}

func (echoSender) Send(ctx context.Context, text string, onChunk func(string)) error {
	onChunk("Vous avez dit")
	onChunk("Vous avez dit : " + text)
	return nil
}

func TestNewWidgetStartsClosedWithGreeting(t *testing.T) {
	w := New(echoSender{}, "Bonjour !")

	assert.False(t, w.IsOpen())
	assert.False(t, w.Loading())
	assert.False(t, w.HasUnread(), "the greeting alone does not light the dot")

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, transcript.RoleModel, msgs[0].Role)
	assert.Equal(t, "Bonjour !", msgs[0].Text)
}

func TestOpenCloseToggle(t *testing.T) {
	w := New(echoSender{}, "")

	w.Open()
	assert.True(t, w.IsOpen())
	w.Close()
	assert.False(t, w.IsOpen())
	st := w.Toggle()
	assert.True(t, st.Open)
	assert.False(t, w.Toggle().Open)
}

func TestUnreadWhenClosedAfterConversation(t *testing.T) {
	w := New(echoSender{}, "Bonjour !")
	w.Open()

	_, err := w.Submit(context.Background(), "salut")
	require.NoError(t, err)
	assert.False(t, w.HasUnread(), "open panel has nothing unread")

	w.Close()
	assert.True(t, w.HasUnread())
	assert.Equal(t, State{Open: false, Loading: false, Unread: true}, w.State())
}

func TestSubscribeReceivesStreamingUpdates(t *testing.T) {
	w := New(echoSender{}, "Bonjour !")
	events, unsubscribe := w.Subscribe()
	defer unsubscribe()

	reply, err := w.Submit(context.Background(), "salut")
	require.NoError(t, err)
	assert.Equal(t, "Vous avez dit : salut", reply.Text)

	// user message, placeholder, two chunks, settle
	var texts []string
	for i := 0; i < 5; i++ {
		ev := <-events
		require.Equal(t, EventMessage, ev.Type)
		if ev.Message.Role == transcript.RoleModel {
			texts = append(texts, ev.Message.Text)
		}
	}
	assert.Equal(t, []string{"", "Vous avez dit", "Vous avez dit : salut", "Vous avez dit : salut"}, texts)

	ev := <-events
	assert.Equal(t, EventWidget, ev.Type)
	assert.False(t, ev.Widget.Loading)
}

func TestSubmitErrorsPassThrough(t *testing.T) {
	w := New(echoSender{}, "")
	_, err := w.Submit(context.Background(), "  ")
	assert.ErrorIs(t, err, transcript.ErrEmptyInput)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	w := New(echoSender{}, "")
	events, unsubscribe := w.Subscribe()
	unsubscribe()
	unsubscribe()

	_, ok := <-events
	assert.False(t, ok)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	w := New(echoSender{}, "")
	events, unsubscribe := w.Subscribe()
	defer unsubscribe()

	for i := 0; i <= defaultSubscriberBuffer; i++ {
		w.Toggle()
	}

	n := 0
	for range events {
		n++
	}
	assert.Equal(t, defaultSubscriberBuffer, n)
}
