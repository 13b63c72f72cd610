package tui

import "github.com/charmbracelet/lipgloss"

// The browse UI uses one small palette: teal for whatever is active or
// primary, semantic colors for record states, zinc greys for the rest.
var (
	colorPrimary = lipgloss.Color("#2DD4BF")
	colorSuccess = lipgloss.Color("#4ADE80")
	colorWarning = lipgloss.Color("#FBBF24")
	colorDanger  = lipgloss.Color("#F87171")
	colorInfo    = lipgloss.Color("#38BDF8")
	colorMuted   = lipgloss.Color("#A1A1AA")
	colorText    = lipgloss.Color("#D4D4D8")
	colorBorder  = lipgloss.Color("#52525B")
	colorSurface = lipgloss.Color("#27272A")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	dangerStyle  = lipgloss.NewStyle().Foreground(colorDanger)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)

	// Rows in lists and panes. Both carry a two-rune marker prefix, so
	// identical padding keeps the text columns aligned.
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				PaddingLeft(1)

	unselectedItemStyle = lipgloss.NewStyle().
				Foreground(colorText).
				PaddingLeft(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	activeBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	activeButtonStyle = lipgloss.NewStyle().
				Foreground(colorSurface).
				Background(colorPrimary).
				Bold(true).
				Padding(0, 2)

	inactiveButtonStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Background(colorSurface).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	requiredStyle = lipgloss.NewStyle().
			Foreground(colorDanger)
)

// FormatStatus renders a record or screen state with its semantic
// color: green for states that mean usable, red for gone or exhausted,
// amber for in-flight.
func FormatStatus(status string) string {
	switch status {
	case "available", "restored":
		return successStyle.Render("✓ " + status)
	case "deleted", "depleted":
		return dangerStyle.Render("✗ " + status)
	case "saving", "loading":
		return warningStyle.Render("… " + status)
	default:
		return mutedStyle.Render(status)
	}
}

// FormatKey renders one key hint for a help row.
func FormatKey(key, description string) string {
	return helpKeyStyle.Render(key) + " " + mutedStyle.Render(description)
}
