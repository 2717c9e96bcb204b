package main

import (
	"fmt"
	"io"
	"strings"

	"lumina/lumina/services/transcript"
	"lumina/lumina/utils/color"

	"github.com/google/uuid"
)

// streamPrinter writes model replies incrementally. The transcript reports the
// cumulative text, so only the part not yet printed goes out.
type streamPrinter struct {
	out     io.Writer
	printed map[uuid.UUID]string
}

func newStreamPrinter(out io.Writer) *streamPrinter {
	return &streamPrinter{out: out, printed: make(map[uuid.UUID]string)}
}

// handle prints the new part of msg and reports whether the reply has settled.
func (p *streamPrinter) handle(msg transcript.Message) bool {
	if msg.Role != transcript.RoleModel {
		return false
	}
	prev := p.printed[msg.ID]
	switch {
	case strings.HasPrefix(msg.Text, prev):
		if delta := msg.Text[len(prev):]; delta != "" {
			fmt.Fprint(p.out, color.ColorAssistant(delta))
		}
	default:
		// fallback text replaced a partial reply
		fmt.Fprint(p.out, "\n"+color.ColorWarning(msg.Text))
	}
	p.printed[msg.ID] = msg.Text

	if msg.IsStreaming {
		return false
	}
	fmt.Fprintln(p.out)
	delete(p.printed, msg.ID)
	return true
}
