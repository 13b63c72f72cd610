package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationDialog is the yes/no dialog state. It only tracks what
// to draw; the browse model interprets the keys and runs the staged
// action, so the decision always lands on the current model value.
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
}

// NewConfirmationDialog creates a dialog with No preselected.
func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:   title,
		Message: message,
	}
}

// View renders the dialog. Confirmations guard deletes and other
// destructive actions, so the title is drawn in the danger color.
func (d ConfirmationDialog) View() string {
	yes, no := inactiveButtonStyle.Render("Yes"), inactiveButtonStyle.Render("No")
	if d.YesSelected {
		yes = activeButtonStyle.Render("Yes")
	} else {
		no = activeButtonStyle.Render("No")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render(d.Title),
		"",
		d.Message,
		"",
		yes+"   "+no,
		helpLine(
			FormatKey("←/→", "select"),
			FormatKey("y/enter", "confirm"),
			FormatKey("n/esc", "cancel"),
		),
	)

	return activeBoxStyle.Render(body)
}

// ResourceItem is one collection in the menu list.
type ResourceItem struct {
	Resource string
	Columns  int
	Links    []string
}

func (i ResourceItem) FilterValue() string { return i.Resource }
func (i ResourceItem) Title() string       { return i.Resource }
func (i ResourceItem) Description() string {
	desc := fmt.Sprintf("%d columns", i.Columns)
	if len(i.Links) > 0 {
		desc += " • links: " + strings.Join(i.Links, ", ")
	}
	return mutedStyle.Render(desc)
}

// ResourceItemDelegate draws menu entries as a two-line block with a
// cursor marker.
type ResourceItemDelegate struct{}

func (d ResourceItemDelegate) Height() int                             { return 2 }
func (d ResourceItemDelegate) Spacing() int                            { return 1 }
func (d ResourceItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d ResourceItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ResourceItem)
	if !ok {
		return
	}

	block := i.Title() + "\n  " + i.Description()
	if index == m.Index() {
		_, _ = fmt.Fprint(w, selectedItemStyle.Render("▸ "+block))
		return
	}
	_, _ = fmt.Fprint(w, unselectedItemStyle.Render("  "+block))
}

// helpLine joins key hints into one help row.
func helpLine(hints ...string) string {
	return helpStyle.Render(strings.Join(hints, " • "))
}
