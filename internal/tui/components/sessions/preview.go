package sessions

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/group"
	"github.com/guilhermegouw/agentdeck/internal/session"
	"github.com/guilhermegouw/agentdeck/internal/tui/components/logo"
	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
)

// Preview shows the details of the selected session: its metadata, its
// description and its system prompt rendered as markdown.
type Preview struct {
	session  *session.SessionWithPreview
	catalog  []group.Group
	panel    *BorderedPanel
	markdown *MarkdownRenderer
	width    int
	height   int
	now      func() time.Time
}

// NewPreview creates an empty preview.
func NewPreview(md *MarkdownRenderer) *Preview {
	return &Preview{
		panel:    NewBorderedPanel(),
		markdown: md,
		now:      time.Now,
	}
}

// SetSession sets the session to show. nil clears the preview.
func (p *Preview) SetSession(sess *session.SessionWithPreview, catalog []group.Group) {
	p.session = sess
	p.catalog = catalog
}

// SetSize sets the outer dimensions.
func (p *Preview) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.panel.SetSize(width, height)
}

// Title returns the panel title.
func (p *Preview) Title() string {
	if p.session == nil {
		return "Preview"
	}
	return p.session.DisplayTitle()
}

// View renders the preview panel.
func (p *Preview) View() string {
	t := styles.CurrentTheme()

	p.panel.SetTitle(p.Title())
	if p.session == nil {
		p.panel.SetContent(lipgloss.JoinVertical(lipgloss.Left,
			logo.RenderWithTagline(), "", t.S().Muted.Render("Select a session to preview")))
		return p.panel.View()
	}
	p.panel.SetContent(p.buildContent(p.session))
	return p.panel.View()
}

func (p *Preview) buildContent(sess *session.SessionWithPreview) string {
	t := styles.CurrentTheme()
	muted := t.S().Muted
	width := max(10, p.panel.ContentWidth())

	parts := []string{
		muted.Render("ID: " + shortID(sess.ID)),
		muted.Render("Group: " + p.groupName(sess.Group)),
		muted.Render(fmt.Sprintf("Created: %s", formatDateTime(sess.CreatedAt, p.now()))),
		muted.Render(fmt.Sprintf("Updated: %s", formatRelativeTime(sess.UpdatedAt, p.now()))),
		muted.Render(fmt.Sprintf("Messages: %d", sess.MessageCount)),
	}
	if sess.Model != "" {
		model := sess.Model
		if sess.Provider != "" {
			model = sess.Provider + "/" + model
		}
		parts = append(parts, muted.Render("Model: "+model))
	}
	if session.Pinned(&sess.Session) {
		parts = append(parts, t.S().Primary.Render("Pinned"))
	}
	if session.IsLocked(sess.ID) {
		parts = append(parts, t.S().Warning.Render("Inbox: pin, duplicate, move and delete are unavailable"))
	}

	if sess.Description != "" {
		parts = append(parts, "", t.S().Text.Render(wordWrap(sess.Description, width)))
	}

	if sess.SystemPrompt != "" {
		rendered, err := p.markdown.Render(sess.SystemPrompt, width)
		if err != nil {
			debug.Error("sessions", err, "render system prompt")
			rendered = wordWrap(sess.SystemPrompt, width)
		}
		parts = append(parts, "", t.S().Text.Bold(true).Render("System prompt"), "", rendered)
	}

	if sess.FirstMessage != "" {
		preview := strings.Join(strings.Fields(sess.FirstMessage), " ")
		parts = append(parts, "", t.S().Text.Bold(true).Render("First message"), "", t.S().Text.Render(wordWrap(preview, width)))
	} else {
		parts = append(parts, "", muted.Italic(true).Render("No messages yet"))
	}

	return strings.Join(parts, "\n")
}

func (p *Preview) groupName(id string) string {
	id = group.Normalize(id)
	for _, g := range p.catalog {
		if g.ID == id {
			return g.Name
		}
	}
	return sectionDefault
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDateTime(ts, now time.Time) string {
	if ts.Year() == now.Year() {
		return ts.Format("Jan 2, 3:04 PM")
	}
	return ts.Format("Jan 2, 2006")
}

// wordWrap wraps text at width, breaking on spaces.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		n := len([]rune(word))
		if lineLen > 0 && lineLen+n+1 > width {
			b.WriteString("\n")
			lineLen = 0
		}
		if lineLen > 0 {
			b.WriteString(" ")
			lineLen++
		}
		if n > width {
			word = string([]rune(word)[:width-1]) + "…"
			n = width
		}
		b.WriteString(word)
		lineLen += n
	}
	return b.String()
}
