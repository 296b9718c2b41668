package sessions

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
)

// InputDialog is a single-line text prompt drawn as a small box. It backs
// both session renaming and group creation.
type InputDialog struct {
	input textinput.Model
	title string
	hint  string
	err   string
	width int
}

// NewInputDialog creates a dialog with the given title and placeholder.
func NewInputDialog(title, placeholder string) *InputDialog {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.SetStyles(styles.CurrentTheme().S().TextInput)

	return &InputDialog{
		input: ti,
		title: title,
		hint:  "[enter] save  [esc] cancel",
	}
}

// SetWidth sets the dialog width.
func (d *InputDialog) SetWidth(width int) {
	d.width = width
	d.input.SetWidth(max(10, width-8))
}

// SetValue replaces the input text and moves the cursor to the end.
func (d *InputDialog) SetValue(value string) {
	d.input.SetValue(value)
	d.input.CursorEnd()
}

// SetError shows a validation message under the input.
func (d *InputDialog) SetError(msg string) {
	d.err = msg
}

// Value returns the trimmed input text.
func (d *InputDialog) Value() string {
	return strings.TrimSpace(d.input.Value())
}

// Focus focuses the input.
func (d *InputDialog) Focus() tea.Cmd {
	return d.input.Focus()
}

// Reset clears the input.
func (d *InputDialog) Reset() {
	d.input.SetValue("")
	d.input.Blur()
	d.err = ""
}

// Update forwards messages to the input.
func (d *InputDialog) Update(msg tea.Msg) (*InputDialog, tea.Cmd) {
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// View renders the dialog box.
func (d *InputDialog) View() string {
	t := styles.CurrentTheme()

	parts := []string{
		t.S().Title.Render(d.title),
		"",
		d.input.View(),
	}
	if d.err != "" {
		parts = append(parts, "", t.S().Error.Render(d.err))
	}
	parts = append(parts, "", t.S().Muted.Render(d.hint))

	box := t.S().Dialog.Box
	if d.width > 0 {
		box = box.Width(d.width)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
