package sessions

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"

	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
)

// MarkdownRenderer renders system prompts with glamour. The renderer is
// rebuilt only when the width or the theme changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
	theme    string
	profile  termenv.Profile
	cache    *renderCache
}

const renderCacheSize = 64

// NewMarkdownRenderer creates a renderer for the given color profile.
func NewMarkdownRenderer(profile termenv.Profile) *MarkdownRenderer {
	return &MarkdownRenderer{profile: profile, cache: newRenderCache(renderCacheSize)}
}

// Render renders content wrapped at width. On failure the plain content is
// returned along with the error.
func (m *MarkdownRenderer) Render(content string, width int) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	key := renderKey{content: content, width: width, theme: styles.CurrentTheme().Name}
	if out, ok := m.cache.get(key); ok {
		return out, nil
	}

	r, err := m.get(width)
	if err != nil {
		return content, err
	}
	out, err := r.Render(content)
	if err != nil {
		return content, err
	}
	out = strings.Trim(out, "\n")
	m.cache.put(key, out)
	return out, nil
}

func (m *MarkdownRenderer) get(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := styles.CurrentTheme()
	if m.renderer != nil && m.width == width && m.theme == t.Name {
		return m.renderer, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildMarkdownStyle(t)),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(m.profile),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	m.renderer = r
	m.width = width
	m.theme = t.Name
	return r, nil
}

// buildMarkdownStyle derives a glamour style from the theme.
func buildMarkdownStyle(t *styles.Theme) ansi.StyleConfig {
	style := glamourstyles.DarkStyleConfig
	if !t.IsDark {
		style = glamourstyles.LightStyleConfig
	}

	primary := colorToHex(t.Primary)
	secondary := colorToHex(t.Secondary)
	accent := colorToHex(t.Accent)
	muted := colorToHex(t.FgMuted)
	subtle := colorToHex(t.FgSubtle)

	// No document margin inside the preview panel.
	style.Document.Margin = uintPtr(0)
	style.Document.BlockPrefix = ""
	style.Document.BlockSuffix = ""

	style.H1.Color = stringPtr(accent)
	style.H1.Bold = boolPtr(true)
	style.H1.Prefix = ""
	style.H1.Suffix = ""
	style.H2.Color = stringPtr(primary)
	style.H2.Prefix = ""
	style.H3.Color = stringPtr(secondary)
	style.H3.Prefix = ""
	style.H4.Prefix = ""
	style.H5.Prefix = ""
	style.H6.Prefix = ""

	style.Code.Color = stringPtr(secondary)
	style.Link.Color = stringPtr(primary)
	style.LinkText.Color = stringPtr(primary)
	style.BlockQuote.Color = stringPtr(muted)
	style.BlockQuote.Italic = boolPtr(true)
	style.HorizontalRule.Color = stringPtr(subtle)
	style.Item.BlockPrefix = "• "

	return style
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func uintPtr(u uint) *uint       { return &u }

func colorToHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
