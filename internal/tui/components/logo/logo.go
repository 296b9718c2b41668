// Package logo renders the agentdeck wordmark.
package logo

import (
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
)

const (
	name    = "agentdeck"
	tagline = "sessions for your agents"
)

// Wordmark returns the name with a primary to secondary gradient.
func Wordmark() string {
	t := styles.CurrentTheme()
	return styles.ApplyForegroundGrad(name, t.Primary, t.Secondary)
}

// RenderWithTagline returns the wordmark above a muted tagline.
func RenderWithTagline() string {
	t := styles.CurrentTheme()
	return lipgloss.JoinVertical(lipgloss.Center, Wordmark(), t.S().Muted.Render(tagline))
}

// Width returns the width of the wordmark.
func Width() int {
	return lipgloss.Width(name)
}
