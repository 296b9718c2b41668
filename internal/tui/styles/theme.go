// Package styles holds the application theme and the lipgloss styles
// derived from it.
package styles

import (
	"image/color"
	"strings"
	"sync"

	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Glyphs shared across components.
const (
	Selected    = "●"
	Unselected  = "○"
	Check       = "✓"
	Pin         = "📌"
	MenuGlyph   = "⋮"
	SubmenuMark = "›"
)

// Theme is a named palette.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles     *Styles
	stylesOnce sync.Once
}

// Styles are the lipgloss styles built from a Theme.
type Styles struct {
	Base     lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	Primary lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	TextInput textinput.Styles

	Menu   MenuStyles
	Dialog DialogStyles
}

// MenuStyles style dropdown and context menus.
type MenuStyles struct {
	Box         lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Disabled    lipgloss.Style
	Danger      lipgloss.Style
	DangerFocus lipgloss.Style
	Divider     lipgloss.Style
	Hint        lipgloss.Style
}

// DialogStyles style confirmation dialogs.
type DialogStyles struct {
	Box           lipgloss.Style
	DangerBox     lipgloss.Style
	Title         lipgloss.Style
	Body          lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	DangerButton  lipgloss.Style
}

// S returns the theme's styles, building them on first use.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	ti := textinput.DefaultStyles(t.IsDark)
	ti.Focused.Prompt = ti.Focused.Prompt.Foreground(t.Primary)
	ti.Focused.Text = ti.Focused.Text.Foreground(t.FgBase)
	ti.Focused.Placeholder = ti.Focused.Placeholder.Foreground(t.FgSubtle)
	ti.Blurred.Text = ti.Blurred.Text.Foreground(t.FgMuted)
	ti.Blurred.Placeholder = ti.Blurred.Placeholder.Foreground(t.FgSubtle)

	button := lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(t.FgBase).
		Background(t.BgSubtle)

	return &Styles{
		Base:     base,
		Text:     base,
		Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),

		Primary: lipgloss.NewStyle().Foreground(t.Primary),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Info:    lipgloss.NewStyle().Foreground(t.Info),

		TextInput: ti,

		Menu: MenuStyles{
			Box: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(t.BorderFocus).
				Background(t.BgOverlay).
				Padding(0, 1),
			Item:        base.Background(t.BgOverlay),
			Selected:    lipgloss.NewStyle().Foreground(t.BgBase).Background(t.Primary).Bold(true),
			Disabled:    lipgloss.NewStyle().Foreground(t.FgSubtle).Background(t.BgOverlay),
			Danger:      lipgloss.NewStyle().Foreground(t.Error).Background(t.BgOverlay),
			DangerFocus: lipgloss.NewStyle().Foreground(t.BgBase).Background(t.Error).Bold(true),
			Divider:     lipgloss.NewStyle().Foreground(t.Border).Background(t.BgOverlay),
			Hint:        lipgloss.NewStyle().Foreground(t.FgMuted).Background(t.BgOverlay),
		},

		Dialog: DialogStyles{
			Box: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(t.BorderFocus).
				Padding(1, 3),
			DangerBox: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(t.Error).
				Padding(1, 3),
			Title:         lipgloss.NewStyle().Foreground(t.Error).Bold(true),
			Body:          base,
			Button:        button,
			ButtonFocused: button.Foreground(t.BgBase).Background(t.Primary).Bold(true),
			DangerButton:  button.Foreground(t.BgBase).Background(t.Error).Bold(true),
		},
	}
}

// Manager holds the registered themes and the active one.
type Manager struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	current *Theme
}

// NewManager creates a manager with the default theme active.
func NewManager() *Manager {
	def := NewDefaultTheme()
	light := NewLightTheme()
	return &Manager{
		themes:  map[string]*Theme{def.Name: def, light.Name: light},
		current: def,
	}
}

// Register adds a theme.
func (m *Manager) Register(t *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[t.Name] = t
}

// SetTheme activates a registered theme. It reports false for unknown names.
func (m *Manager) SetTheme(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[name]
	if ok {
		m.current = t
	}
	return ok
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// DefaultManager returns the process-wide theme manager.
func DefaultManager() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// CurrentTheme returns the active theme of the default manager.
func CurrentTheme() *Theme {
	return DefaultManager().Current()
}

// ParseHex parses a #rrggbb color. Invalid input yields black.
func ParseHex(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// ApplyForegroundGrad renders s with a horizontal foreground gradient from
// c1 to c2, one step per grapheme cluster.
func ApplyForegroundGrad(s string, c1, c2 color.Color) string {
	if s == "" {
		return ""
	}

	var clusters []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}

	from, _ := colorful.MakeColor(c1)
	to, _ := colorful.MakeColor(c2)

	var b strings.Builder
	for i, cluster := range clusters {
		step := 0.0
		if len(clusters) > 1 {
			step = float64(i) / float64(len(clusters)-1)
		}
		c := from.BlendLuv(to, step).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(cluster))
	}
	return b.String()
}
