package jsonutils

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ToJSON serializes v the way a browser's JSON.stringify would: compact and without
// HTML escaping, so accented text and quotes survive untouched inside prompts.
// Returns an empty string if serialization fails.
func ToJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
