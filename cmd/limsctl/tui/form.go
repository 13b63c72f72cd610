package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plasmalab/limsctl/pkg/schema"
)

// formInput pairs one wire field with its text input.
type formInput struct {
	field schema.FieldMetadata
	input textinput.Model
}

// formState drives the create and edit forms. For union resources the
// variant selector is the first focus slot on create and rebuilds the
// inputs when cycled; values shared between variants carry over by
// wire name. On edit the record's variant is fixed and the selector is
// shown but never focused.
type formState struct {
	meta     *schema.ResourceMetadata
	editing  bool
	recordID int64

	variants   []string
	variantIdx int

	inputs []formInput
	focus  int
	errMsg string
}

// newCreateForm builds an empty form for the resource's first variant
// (or its only shape, for plain resources).
func newCreateForm(meta *schema.ResourceMetadata) formState {
	f := formState{
		meta:     meta,
		variants: meta.Variants(),
	}
	f.inputs = buildInputs(formFields(meta, f.variant(), false), nil)
	f.syncFocus()
	return f
}

// newEditForm builds a form prefilled from the record. The variant
// comes from the record's tag and cannot be changed.
func newEditForm(meta *schema.ResourceMetadata, id int64, record map[string]any) formState {
	f := formState{
		meta:     meta,
		editing:  true,
		recordID: id,
		variants: meta.Variants(),
	}
	if disc := meta.Discriminator(); disc != nil {
		tag, _ := record[disc.Name].(string)
		for i, v := range f.variants {
			if v == tag {
				f.variantIdx = i
			}
		}
	}

	fields := formFields(meta, f.variant(), true)
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		if v, ok := record[field.Name]; ok {
			values[field.Name] = rawFormValue(v)
		}
	}
	f.inputs = buildInputs(fields, values)
	f.syncFocus()
	return f
}

// formFields returns the text-input fields for a variant. The
// discriminator is handled by the selector, never as an input.
func formFields(meta *schema.ResourceMetadata, variant string, editing bool) []schema.FieldMetadata {
	var fields []schema.FieldMetadata
	if editing {
		fields = meta.EditFields(variant)
	} else {
		fields = meta.FormFields(variant)
	}

	out := fields[:0]
	for _, f := range fields {
		if f.Union {
			continue
		}
		out = append(out, f)
	}
	return out
}

func buildInputs(fields []schema.FieldMetadata, values map[string]string) []formInput {
	out := make([]formInput, 0, len(fields))
	for _, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholderFor(f)
		ti.CharLimit = 120
		ti.Width = 40
		if v, ok := values[f.Name]; ok {
			ti.SetValue(v)
		}
		out = append(out, formInput{field: f, input: ti})
	}
	return out
}

func placeholderFor(f schema.FieldMetadata) string {
	if len(f.Enum) > 0 {
		return strings.Join(f.Enum, "|")
	}
	if f.Numeric {
		return "number"
	}
	return ""
}

// rawFormValue renders a decoded record value back into input text.
func rawFormValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (f *formState) variant() string {
	if len(f.variants) == 0 {
		return ""
	}
	return f.variants[f.variantIdx]
}

// selectorShown reports whether the variant selector line is drawn.
func (f *formState) selectorShown() bool {
	return len(f.variants) > 0
}

// selectorFocusable reports whether the selector takes a focus slot.
// Editing locks the variant, so the selector is display-only there.
func (f *formState) selectorFocusable() bool {
	return f.selectorShown() && !f.editing
}

func (f *formState) slots() int {
	n := len(f.inputs)
	if f.selectorFocusable() {
		n++
	}
	return n
}

// selectorFocused reports whether focus sits on the variant selector.
func (f *formState) selectorFocused() bool {
	return f.selectorFocusable() && f.focus == 0
}

// focusedInput returns the index into inputs for the current focus, or
// -1 when the selector is focused.
func (f *formState) focusedInput() int {
	if f.selectorFocused() {
		return -1
	}
	if f.selectorFocusable() {
		return f.focus - 1
	}
	return f.focus
}

func (f *formState) focusNext() tea.Cmd {
	if f.slots() == 0 {
		return nil
	}
	f.focus = (f.focus + 1) % f.slots()
	return f.syncFocus()
}

func (f *formState) focusPrev() tea.Cmd {
	if f.slots() == 0 {
		return nil
	}
	f.focus = (f.focus - 1 + f.slots()) % f.slots()
	return f.syncFocus()
}

// syncFocus blurs every input and focuses the one the focus slot points
// at.
func (f *formState) syncFocus() tea.Cmd {
	idx := f.focusedInput()
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].input.Focus()
		} else {
			f.inputs[i].input.Blur()
		}
	}
	return cmd
}

// cycleVariant moves the selector and rebuilds the inputs for the new
// variant. Values typed into fields both variants share survive the
// rebuild; fields exclusive to the old variant are dropped.
func (f *formState) cycleVariant(dir int) {
	if !f.selectorFocusable() || len(f.variants) < 2 {
		return
	}

	preserved := make(map[string]string, len(f.inputs))
	for _, in := range f.inputs {
		if v := in.input.Value(); v != "" {
			preserved[in.field.Name] = v
		}
	}

	n := len(f.variants)
	f.variantIdx = (f.variantIdx + dir + n) % n
	f.inputs = buildInputs(formFields(f.meta, f.variant(), false), preserved)
	f.errMsg = ""
}

// updateInputs routes a message to the focused input.
func (f *formState) updateInputs(msg tea.Msg) tea.Cmd {
	idx := f.focusedInput()
	if idx < 0 || idx >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[idx].input, cmd = f.inputs[idx].input.Update(msg)
	return cmd
}

// collectValues gathers the non-empty inputs keyed by wire name. On
// create the discriminator value rides along so validation can pick
// the variant; empty inputs are omitted, which on edit means "leave
// unchanged".
func (f *formState) collectValues() map[string]string {
	values := make(map[string]string, len(f.inputs)+1)
	for _, in := range f.inputs {
		if v := strings.TrimSpace(in.input.Value()); v != "" {
			values[in.field.Name] = v
		}
	}
	if !f.editing && f.selectorShown() {
		if disc := f.meta.Discriminator(); disc != nil {
			values[disc.Name] = f.variant()
		}
	}
	return values
}

// View renders the form
func (f *formState) View() string {
	var b strings.Builder

	if f.editing {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Edit %s/%d", f.meta.Resource, f.recordID)))
	} else {
		b.WriteString(titleStyle.Render("New " + f.meta.Resource))
	}
	b.WriteString("\n\n")

	if f.selectorShown() {
		selector := f.variant()
		if f.selectorFocusable() {
			selector = "◀ " + selector + " ▶"
		}
		line := labelStyle.Render("type") + "  "
		if f.selectorFocused() {
			line += activeButtonStyle.Render(selector)
		} else if f.editing {
			line += mutedStyle.Render(selector)
		} else {
			line += inactiveButtonStyle.Render(selector)
		}
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	labelWidth := 0
	for _, in := range f.inputs {
		if n := len(in.field.Label); n > labelWidth {
			labelWidth = n
		}
	}

	for i, in := range f.inputs {
		label := in.field.Label
		marker := "  "
		if in.field.Required && !f.editing {
			marker = requiredStyle.Render("*") + " "
		}
		pad := strings.Repeat(" ", labelWidth-len(label))

		style := mutedStyle
		if i == f.focusedInput() {
			style = labelStyle
		}
		b.WriteString(marker + style.Render(label) + pad + "  " + in.input.View())
		b.WriteString("\n")
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(dangerStyle.Render("✗ " + f.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := []string{
		FormatKey("tab/↓", "next field"),
		FormatKey("shift+tab/↑", "previous"),
	}
	if f.selectorFocusable() {
		hints = append(hints, FormatKey("←/→", "change type"))
	}
	hints = append(hints, FormatKey("ctrl+s", "save"), FormatKey("esc", "cancel"))
	b.WriteString(helpLine(hints...))

	return activeBoxStyle.Render(b.String())
}
