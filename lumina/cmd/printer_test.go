package main

import (
	"bytes"
	"testing"

	"lumina/lumina/services/transcript"
	"lumina/lumina/utils/color"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStreamPrinterPrintsDeltas(t *testing.T) {
	color.Disable()
	var buf bytes.Buffer
	p := newStreamPrinter(&buf)
	id := uuid.New()

	assert.False(t, p.handle(transcript.Message{ID: uuid.New(), Role: transcript.RoleUser, Text: "Salut"}))
	assert.False(t, p.handle(transcript.Message{ID: id, Role: transcript.RoleModel, IsStreaming: true}))
	assert.False(t, p.handle(transcript.Message{ID: id, Role: transcript.RoleModel, Text: "Bon", IsStreaming: true}))
	assert.False(t, p.handle(transcript.Message{ID: id, Role: transcript.RoleModel, Text: "Bonjour", IsStreaming: true}))
	assert.True(t, p.handle(transcript.Message{ID: id, Role: transcript.RoleModel, Text: "Bonjour"}))

	assert.Equal(t, "Bonjour\n", buf.String())
	assert.Empty(t, p.printed)
}

func TestStreamPrinterFallbackReplacesPartial(t *testing.T) {
	color.Disable()
	var buf bytes.Buffer
	p := newStreamPrinter(&buf)
	id := uuid.New()

	p.handle(transcript.Message{ID: id, Role: transcript.RoleModel, Text: "Je ", IsStreaming: true})
	p.handle(transcript.Message{ID: id, Role: transcript.RoleModel, Text: "Oups", IsStreaming: true})
	assert.True(t, p.handle(transcript.Message{ID: id, Role: transcript.RoleModel, Text: "Oups"}))

	assert.Equal(t, "Je \nOups\n", buf.String())
}
