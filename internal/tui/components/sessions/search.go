package sessions

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
)

// searchHeight is the number of lines the box occupies when visible.
const searchHeight = 3

// SearchBox is a bordered filter input with a match count.
type SearchBox struct {
	input    textinput.Model
	width    int
	filtered int
	total    int
	visible  bool
}

// NewSearchBox creates a hidden search box.
func NewSearchBox() *SearchBox {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.CharLimit = 100
	ti.Prompt = "/ "
	ti.SetStyles(styles.CurrentTheme().S().TextInput)

	return &SearchBox{input: ti}
}

// SetWidth sets the outer width.
func (s *SearchBox) SetWidth(width int) {
	s.width = width
}

// SetCounts sets the match and total counts.
func (s *SearchBox) SetCounts(filtered, total int) {
	s.filtered = filtered
	s.total = total
}

// Show opens the box with an empty, focused input.
func (s *SearchBox) Show() tea.Cmd {
	s.visible = true
	s.input.SetValue("")
	return s.input.Focus()
}

// Hide closes the box and clears the input.
func (s *SearchBox) Hide() {
	s.visible = false
	s.input.SetValue("")
	s.input.Blur()
}

// Blur keeps the filter but stops taking input.
func (s *SearchBox) Blur() {
	s.input.Blur()
}

// IsVisible reports whether the box is shown.
func (s *SearchBox) IsVisible() bool {
	return s.visible
}

// IsFocused reports whether the input takes keystrokes.
func (s *SearchBox) IsFocused() bool {
	return s.visible && s.input.Focused()
}

// Value returns the filter text.
func (s *SearchBox) Value() string {
	return strings.TrimSpace(s.input.Value())
}

// Update forwards messages to the input.
func (s *SearchBox) Update(msg tea.Msg) (*SearchBox, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the box.
func (s *SearchBox) View() string {
	if !s.visible {
		return ""
	}
	t := styles.CurrentTheme()

	inner := max(10, s.width-2)
	contentWidth := inner - 2

	count := t.S().Muted.Render(fmt.Sprintf("%d / %d", s.filtered, s.total))
	input := s.input.View()
	gap := max(1, contentWidth-lipgloss.Width(input)-lipgloss.Width(count))
	content := input + strings.Repeat(" ", gap) + count

	border := lipgloss.NewStyle().Foreground(t.BorderFocus)
	title := t.S().Primary.Bold(true).Render("Search")
	remaining := max(0, inner-lipgloss.Width(title))
	left := remaining / 2

	top := border.Render("╭"+strings.Repeat("─", left)) + title +
		border.Render(strings.Repeat("─", remaining-left)+"╮")
	middle := border.Render("│ ") + content + border.Render(" │")
	bottom := border.Render("╰" + strings.Repeat("─", inner) + "╯")

	return strings.Join([]string{top, middle, bottom}, "\n")
}
