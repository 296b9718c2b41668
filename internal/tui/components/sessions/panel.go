package sessions

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
)

// BorderedPanel renders content inside a rounded box with a centered title.
type BorderedPanel struct {
	title   string
	content string
	width   int
	height  int
	focused bool
}

// NewBorderedPanel creates an empty panel.
func NewBorderedPanel() *BorderedPanel {
	return &BorderedPanel{}
}

// SetTitle sets the title shown in the top border.
func (p *BorderedPanel) SetTitle(title string) {
	p.title = title
}

// SetContent sets the panel body.
func (p *BorderedPanel) SetContent(content string) {
	p.content = content
}

// SetSize sets the outer dimensions, borders included.
func (p *BorderedPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused switches the border to the focus color.
func (p *BorderedPanel) SetFocused(focused bool) {
	p.focused = focused
}

// ContentOffset is the position of the first body cell relative to the
// panel's top-left corner.
func (p *BorderedPanel) ContentOffset() (x, y int) {
	return 2, 1
}

// ContentWidth is the number of body columns.
func (p *BorderedPanel) ContentWidth() int {
	return max(4, p.width-2) - 2
}

// View renders the panel. Body lines are padded or truncated to fit.
func (p *BorderedPanel) View() string {
	t := styles.CurrentTheme()

	borderColor := t.Border
	if p.focused {
		borderColor = t.BorderFocus
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	// ╭ + inner + ╮
	inner := max(4, p.width-2)
	contentWidth := inner - 2

	title := ansi.Truncate(p.title, max(0, inner-4), "…")
	titleRendered := t.S().Primary.Bold(true).Render(title)
	remaining := max(0, inner-lipgloss.Width(titleRendered))
	left := remaining / 2
	right := remaining - left

	lines := make([]string, 0, p.height)
	lines = append(lines, borderStyle.Render("╭"+strings.Repeat("─", left))+
		titleRendered+
		borderStyle.Render(strings.Repeat("─", right)+"╮"))

	body := strings.Split(p.content, "\n")
	for i := 0; i < max(1, p.height-2); i++ {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		if w := lipgloss.Width(line); w < contentWidth {
			line += strings.Repeat(" ", contentWidth-w)
		} else if w > contentWidth {
			line = ansi.Truncate(line, contentWidth, "…")
		}
		lines = append(lines, borderStyle.Render("│ ")+line+borderStyle.Render(" │"))
	}

	lines = append(lines, borderStyle.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return strings.Join(lines, "\n")
}
