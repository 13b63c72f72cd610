// Package output renders CLI results: status messages, record tables
// and detail cards, all driven by resource metadata so no command
// carries per-entity rendering code.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Same palette as the browse UI so both surfaces read as one tool.
var (
	colorPrimary = lipgloss.Color("#2DD4BF")
	colorSuccess = lipgloss.Color("#4ADE80")
	colorWarning = lipgloss.Color("#FBBF24")
	colorError   = lipgloss.Color("#F87171")
	colorInfo    = lipgloss.Color("#38BDF8")
	colorMuted   = lipgloss.Color("#A1A1AA")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	headerStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// NoColor switches every style to plain text, for --no-color and for
// terminals that set NO_COLOR themselves.
func NoColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// statusLine prints an icon in the given style followed by the
// formatted message.
func statusLine(style lipgloss.Style, icon, format string, args []any) {
	fmt.Println(style.Render(icon) + " " + fmt.Sprintf(format, args...))
}

// Success reports a completed operation.
func Success(format string, args ...any) {
	statusLine(successStyle, "✓", format, args)
}

// Warning reports something the operator should look at.
func Warning(format string, args ...any) {
	statusLine(warningStyle, "⚠", format, args)
}

// Error reports a failed operation.
func Error(format string, args ...any) {
	statusLine(errorStyle, "✗", format, args)
}

// Info reports progress or context.
func Info(format string, args ...any) {
	statusLine(infoStyle, "•", format, args)
}

// Muted prints secondary detail, dimmed.
func Muted(format string, args ...any) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Primary prints an emphasized line.
func Primary(format string, args ...any) {
	fmt.Println(primaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints an underlined section header.
func Section(title string) {
	fmt.Println()
	fmt.Println(primaryStyle.Render(title))
	fmt.Println(mutedStyle.Render(strings.Repeat("─", len([]rune(title)))))
}

// JSON writes v as indented JSON, for --json output.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
