package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/plasmalab/limsctl/pkg/relation"
	"github.com/plasmalab/limsctl/pkg/schema"
)

// linkedRecord lets decoded records satisfy the editor's identity
// facet.
type linkedRecord map[string]any

// GetID implements relation.Identifiable.
func (r linkedRecord) GetID() int64 { return recordID(r) }

const (
	paneLinked = iota
	paneAvailable
)

// linksState drives the relationship editor screen: the parent's link
// collections, the active relation, and the two panes. The editor and
// snapshots are rebuilt from a fresh fetch after every mutation, so
// the state never patches its own slices.
type linksState struct {
	meta     *schema.ResourceMetadata
	parentID int64
	rels     []schema.RelationshipMetadata
	relIdx   int

	editor     *relation.Editor[linkedRecord]
	linked     []linkedRecord
	selectable []linkedRecord

	pane   int
	cursor [2]int

	// attrInput collects the join attribute (ppm, ratio) before an add
	// on relations that carry one.
	attrInput textinput.Model
	awaitAttr bool
	pendingID int64

	errMsg string
}

func newLinksState(meta *schema.ResourceMetadata, parentID int64) linksState {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "number"
	ti.CharLimit = 24
	ti.Width = 12

	return linksState{
		meta:      meta,
		parentID:  parentID,
		rels:      meta.Links(),
		attrInput: ti,
	}
}

func (l *linksState) rel() *schema.RelationshipMetadata {
	if len(l.rels) == 0 {
		return nil
	}
	return &l.rels[l.relIdx]
}

// setSnapshots installs a freshly fetched editor and resets the
// cursors into range.
func (l *linksState) setSnapshots(editor *relation.Editor[linkedRecord]) {
	l.editor = editor
	l.linked = editor.Linked()
	l.selectable = editor.Selectable()
	l.clampCursors()
	l.awaitAttr = false
	l.attrInput.SetValue("")
}

func (l *linksState) clampCursors() {
	if l.cursor[paneLinked] >= len(l.linked) {
		l.cursor[paneLinked] = max(0, len(l.linked)-1)
	}
	if l.cursor[paneAvailable] >= len(l.selectable) {
		l.cursor[paneAvailable] = max(0, len(l.selectable)-1)
	}
}

func (l *linksState) move(delta int) {
	rows := len(l.linked)
	if l.pane == paneAvailable {
		rows = len(l.selectable)
	}
	if rows == 0 {
		return
	}
	c := l.cursor[l.pane] + delta
	if c < 0 {
		c = 0
	}
	if c >= rows {
		c = rows - 1
	}
	l.cursor[l.pane] = c
}

func (l *linksState) switchPane() {
	l.pane = 1 - l.pane
}

// switchRel moves to another link collection; the caller reloads the
// snapshots.
func (l *linksState) switchRel(idx int) bool {
	if idx < 0 || idx >= len(l.rels) || idx == l.relIdx {
		return false
	}
	l.relIdx = idx
	l.editor = nil
	l.linked = nil
	l.selectable = nil
	l.cursor = [2]int{}
	l.errMsg = ""
	return true
}

// selectedID returns the record id under the cursor in the active
// pane, or 0 when the pane is empty.
func (l *linksState) selectedID() int64 {
	if l.pane == paneLinked {
		if len(l.linked) == 0 {
			return 0
		}
		return l.linked[l.cursor[paneLinked]].GetID()
	}
	if len(l.selectable) == 0 {
		return 0
	}
	return l.selectable[l.cursor[paneAvailable]].GetID()
}

// needsAttr reports whether adding on the active relation must collect
// a join attribute first.
func (l *linksState) needsAttr() bool {
	rel := l.rel()
	return rel != nil && rel.LinkAttr != ""
}

// recordLabel renders a human name for a record row.
func recordLabel(r map[string]any) string {
	for _, key := range []string{"name", "descriptive_name", "full_name", "username"} {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
	}
	return fmt.Sprintf("id %d", recordID(r))
}

// recordID extracts the numeric id from a decoded record.
func recordID(record map[string]any) int64 {
	switch v := record["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// View renders the two-pane link editor.
func (l *linksState) View() string {
	rel := l.rel()
	if rel == nil {
		return boxStyle.Render(mutedStyle.Render("no link collections on " + l.meta.Resource))
	}

	var header strings.Builder
	header.WriteString(titleStyle.Render(fmt.Sprintf("%s/%d links", l.meta.Resource, l.parentID)))
	header.WriteString("\n")
	tabs := make([]string, 0, len(l.rels))
	for i, r := range l.rels {
		label := fmt.Sprintf("%d %s", i+1, r.Name)
		if i == l.relIdx {
			tabs = append(tabs, activeButtonStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveButtonStyle.Render(label))
		}
	}
	header.WriteString(strings.Join(tabs, " "))
	header.WriteString("\n")

	linkedPane := l.renderPane("Linked", l.linked, paneLinked, rel.LinkAttr)
	availablePane := l.renderPane("Available", l.selectable, paneAvailable, "")
	panes := lipgloss.JoinHorizontal(lipgloss.Top, linkedPane, "  ", availablePane)

	var footer strings.Builder
	if l.awaitAttr {
		footer.WriteString(labelStyle.Render(rel.LinkAttr) + " " + l.attrInput.View())
		footer.WriteString("\n")
	}
	if l.errMsg != "" {
		footer.WriteString(dangerStyle.Render("✗ " + l.errMsg))
		footer.WriteString("\n")
	}
	if l.editor != nil && l.editor.Pending() {
		footer.WriteString(FormatStatus("saving"))
		footer.WriteString("\n")
	}

	hints := []string{
		FormatKey("tab", "switch pane"),
		FormatKey("enter", "link/unlink"),
	}
	if len(l.rels) > 1 {
		hints = append(hints, FormatKey("1-9", "collection"))
	}
	hints = append(hints, FormatKey("esc", "back"))
	footer.WriteString(helpLine(hints...))

	return header.String() + "\n" + panes + "\n" + footer.String()
}

func (l *linksState) renderPane(title string, rows []linkedRecord, pane int, attr string) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s (%d)", title, len(rows))))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("  none"))
	}
	for i, row := range rows {
		line := recordLabel(row)
		if attr != "" {
			if v, ok := row[attr].(string); ok && v != "" {
				line += mutedStyle.Render(" · " + attr + " " + v)
			}
		}
		if l.pane == pane && i == l.cursor[pane] {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(unselectedItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	style := boxStyle
	if l.pane == pane {
		style = activeBoxStyle
	}
	return style.Width(40).Render(b.String())
}
