package color

import (
	"github.com/fatih/color"
)

var (
	promptColor    = color.New(color.FgCyan, color.Bold)
	infoColor      = color.New(color.FgGreen)
	warningColor   = color.New(color.FgYellow, color.Bold)
	errorColor     = color.New(color.FgRed, color.Bold)
	assistantColor = color.New(color.FgHiMagenta)
	nameColor      = color.New(color.FgHiMagenta, color.Bold)
)

func ColorPrompt(s string) string {
	return promptColor.Sprint(s)
}

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorWarning(s string) string {
	return warningColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

// ColorAssistant colours streamed reply text.
func ColorAssistant(s string) string {
	return assistantColor.Sprint(s)
}

func ColorName(s string) string {
	return nameColor.Sprint(s)
}

// Disable turns colouring off, e.g. when output is piped.
func Disable() {
	color.NoColor = true
}
