package assistant

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lumina/lumina/utils/logging"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

//go:embed lumina.properties
var defaultPersona string

const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultTemperature = 0.7
)

// Persona is the assistant's identity and the user-facing strings it falls back to.
type Persona struct {
	Name           string
	Title          string
	Role           string
	Mission        string
	Greeting       string
	Model          string
	Temperature    float32
	InitFallback   string
	StreamFallback string
	BusyNotice     string
	Directives     []string
}

// LoadPersona reads the persona from path, or the embedded default when path is empty.
func LoadPersona(path string) (*Persona, error) {
	var (
		props *properties.Properties
		err   error
	)
	if path == "" {
		props, err = properties.LoadString(defaultPersona)
	} else {
		props, err = properties.LoadFile(path, properties.UTF8)
	}
	if err != nil {
		logging.ErrorLogger.Error("persona load error", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("load persona: %w", err)
	}
	return personaFromProperties(props), nil
}

func personaFromProperties(props *properties.Properties) *Persona {
	return &Persona{
		Name:           props.GetString("assistant_name", "Lumina"),
		Title:          props.GetString("assistant_title", ""),
		Role:           props.GetString("assistant_role", ""),
		Mission:        props.GetString("mission", ""),
		Greeting:       props.GetString("greeting", ""),
		Model:          props.GetString("model", DefaultModel),
		Temperature:    float32(props.GetFloat64("temperature", DefaultTemperature)),
		InitFallback:   props.GetString("fallback_init", ""),
		StreamFallback: props.GetString("fallback_stream", ""),
		BusyNotice:     props.GetString("busy_notice", ""),
		Directives:     directives(props),
	}
}

// directives collects directive.N keys ordered by N.
func directives(props *properties.Properties) []string {
	sub := props.FilterStripPrefix("directive.")
	type numbered struct {
		n    int
		text string
	}
	var list []numbered
	for _, key := range sub.Keys() {
		n, err := strconv.Atoi(key)
		if err != nil {
			logging.AppLogger.Warn("ignoring directive with non-numeric key", zap.String("key", key))
			continue
		}
		text := strings.TrimSpace(sub.GetString(key, ""))
		if text == "" {
			continue
		}
		list = append(list, numbered{n: n, text: text})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].n < list[j].n })

	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.text)
	}
	return out
}
