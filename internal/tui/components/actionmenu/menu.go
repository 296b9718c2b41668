package actionmenu

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
	"github.com/guilhermegouw/agentdeck/internal/tui/util"
)

const maxLabelWidth = 32

// Mode selects how a menu is opened.
type Mode string

// Modes.
const (
	// ModeClick opens from the row's affordance and reports open state.
	ModeClick Mode = "click"
	// ModeContextMenu opens from a secondary click on the row.
	ModeContextMenu Mode = "contextmenu"
)

// ActivatedMsg is sent after a leaf handler ran and stopped propagation.
type ActivatedMsg struct {
	Owner string
	Key   string
}

// PropagatedMsg is sent when an activation was not stopped. The host row
// handles it as a click on itself.
type PropagatedMsg struct {
	Owner string
	Key   string
}

// Option configures a Menu.
type Option func(*Menu)

// WithMode sets the trigger mode.
func WithMode(mode Mode) Option {
	return func(m *Menu) {
		m.mode = mode
	}
}

// WithOnOpenChange registers a callback for open state transitions. It is
// only called in click mode.
func WithOnOpenChange(fn func(open bool)) Option {
	return func(m *Menu) {
		m.onOpenChange = fn
	}
}

// WithKeyMap overrides the menu's key bindings.
func WithKeyMap(km KeyMap) Option {
	return func(m *Menu) {
		m.keys = km
	}
}

// Menu is a dropdown with one level of submenus. The tree is rebuilt from
// the build function on every update and render so it always reflects the
// current session state.
type Menu struct {
	owner        string
	build        func() []ActionNode
	mode         Mode
	onOpenChange func(bool)
	keys         KeyMap

	open    bool
	cursor  int
	sub     int // submenu cursor, -1 when no submenu is open
	anchorX int
	anchorY int
	width   int
	height  int
}

// New creates a closed menu for owner.
func New(owner string, build func() []ActionNode, opts ...Option) *Menu {
	m := &Menu{
		owner: owner,
		build: build,
		mode:  ModeClick,
		keys:  DefaultKeyMap(),
		sub:   -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Owner returns the ID of the row the menu belongs to.
func (m *Menu) Owner() string { return m.owner }

// Mode returns the trigger mode.
func (m *Menu) Mode() Mode { return m.mode }

// IsOpen reports whether the menu is shown.
func (m *Menu) IsOpen() bool { return m.open }

// SubmenuOpen reports whether a submenu is shown.
func (m *Menu) SubmenuOpen() bool { return m.open && m.sub >= 0 }

// Cursor returns the key of the focused node, or "" when closed.
func (m *Menu) Cursor() string {
	if !m.open {
		return ""
	}
	nodes := m.build()
	if m.cursor >= len(nodes) {
		return ""
	}
	if m.sub >= 0 && m.sub < len(nodes[m.cursor].Children) {
		return nodes[m.cursor].Children[m.sub].Key
	}
	return nodes[m.cursor].Key
}

// SetBounds sets the screen area the menu is laid out in.
func (m *Menu) SetBounds(width, height int) {
	m.width = width
	m.height = height
}

// Open shows the menu anchored at screen cell (x, y).
func (m *Menu) Open(x, y int) {
	m.anchorX = x
	m.anchorY = y
	m.cursor = nextSelectable(m.build(), -1, 1)
	m.sub = -1
	m.setOpen(true)
}

// Toggle opens a closed menu and closes an open one.
func (m *Menu) Toggle(x, y int) {
	if m.open {
		m.Close()
		return
	}
	m.Open(x, y)
}

// Close hides the menu.
func (m *Menu) Close() {
	m.sub = -1
	m.setOpen(false)
}

func (m *Menu) setOpen(open bool) {
	if m.open == open {
		return
	}
	m.open = open
	debug.Event("actionmenu", "OpenChange", fmt.Sprintf("owner=%s open=%v mode=%s", m.owner, open, m.mode))
	if m.mode == ModeClick && m.onOpenChange != nil {
		m.onOpenChange(open)
	}
}

// Captures reports whether msg belongs to the open menu. Key presses always
// do; clicks only when they land on the menu.
func (m *Menu) Captures(msg tea.Msg) bool {
	if !m.open {
		return false
	}
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return true
	case tea.MouseClickMsg:
		_, _, ok := m.hit(m.build(), msg.X, msg.Y)
		return ok
	}
	return false
}

// Update handles input while the menu is open.
func (m *Menu) Update(msg tea.Msg) (*Menu, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	nodes := m.build()
	if len(nodes) == 0 {
		m.Close()
		return m, nil
	}
	m.cursor = min(m.cursor, len(nodes)-1)
	if m.sub >= len(nodes[m.cursor].Children) {
		m.sub = -1
	}

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m, m.handleKey(nodes, msg)
	case tea.MouseClickMsg:
		level, idx, ok := m.hit(nodes, msg.X, msg.Y)
		if !ok {
			m.Close()
			return m, nil
		}
		if idx < 0 {
			return m, nil
		}
		if level == 0 {
			if m.cursor != idx {
				m.sub = -1
			}
			m.cursor = idx
			return m, m.activate(&nodes[idx])
		}
		child := &nodes[m.cursor].Children[idx]
		if child.Selectable() {
			m.sub = idx
		}
		return m, m.activate(child)
	}
	return m, nil
}

func (m *Menu) handleKey(nodes []ActionNode, msg tea.KeyPressMsg) tea.Cmd {
	inSub := m.sub >= 0
	switch {
	case key.Matches(msg, m.keys.Up):
		if inSub {
			m.sub = nextSelectable(nodes[m.cursor].Children, m.sub, -1)
		} else {
			m.cursor = nextSelectable(nodes, m.cursor, -1)
		}
	case key.Matches(msg, m.keys.Down):
		if inSub {
			m.sub = nextSelectable(nodes[m.cursor].Children, m.sub, 1)
		} else {
			m.cursor = nextSelectable(nodes, m.cursor, 1)
		}
	case key.Matches(msg, m.keys.Enter):
		if !inSub && nodes[m.cursor].Kind == KindSubmenu {
			return m.activate(&nodes[m.cursor])
		}
	case key.Matches(msg, m.keys.Select):
		if inSub {
			return m.activate(&nodes[m.cursor].Children[m.sub])
		}
		return m.activate(&nodes[m.cursor])
	case key.Matches(msg, m.keys.Back):
		m.sub = -1
	case key.Matches(msg, m.keys.Close):
		if inSub {
			m.sub = -1
		} else {
			m.Close()
		}
	}
	return nil
}

// activate runs the propagation policy for node and reports the result to
// the host.
func (m *Menu) activate(node *ActionNode) tea.Cmd {
	act := &Activation{}
	switch Activate(node, act) {
	case OutcomeIgnored:
		return nil
	case OutcomeNavigated:
		m.sub = nextSelectable(node.Children, -1, 1)
		return nil
	}

	m.Close()
	if act.Stopped() {
		return util.CmdHandler(ActivatedMsg{Owner: m.owner, Key: node.Key})
	}
	return util.CmdHandler(PropagatedMsg{Owner: m.owner, Key: node.Key})
}

// nextSelectable returns the next non-divider index after from in direction
// dir, or from when there is none.
func nextSelectable(nodes []ActionNode, from, dir int) int {
	for i := from + dir; i >= 0 && i < len(nodes); i += dir {
		if nodes[i].Selectable() {
			return i
		}
	}
	if from < 0 {
		return 0
	}
	return from
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type frame struct {
	main    string
	sub     string
	mainBox rect
	subBox  rect
}

// layout renders the open levels and positions them within the bounds.
func (m *Menu) layout(nodes []ActionNode) frame {
	var f frame
	f.main = renderLevel(nodes, m.cursor)
	mw, mh := lipgloss.Width(f.main), lipgloss.Height(f.main)

	x, y := m.anchorX, m.anchorY
	if m.mode == ModeClick {
		y++
	}
	if m.width > 0 && x+mw > m.width {
		x = max(0, m.width-mw)
	}
	if m.height > 0 && y+mh > m.height {
		if m.mode == ModeClick {
			y = m.anchorY - mh
		} else {
			y = m.height - mh
		}
		y = max(0, y)
	}
	f.mainBox = rect{x, y, mw, mh}

	if m.sub < 0 || m.cursor >= len(nodes) || nodes[m.cursor].Kind != KindSubmenu {
		return f
	}
	f.sub = renderLevel(nodes[m.cursor].Children, m.sub)
	sw, sh := lipgloss.Width(f.sub), lipgloss.Height(f.sub)
	sx := x + mw
	sy := y + m.cursor
	if m.width > 0 && sx+sw > m.width {
		sx = max(0, x-sw)
	}
	if m.height > 0 && sy+sh > m.height {
		sy = max(0, m.height-sh)
	}
	f.subBox = rect{sx, sy, sw, sh}
	return f
}

// hit maps a screen cell to a node. level is 0 for the top level and 1 for
// the open submenu; idx is -1 for the box border.
func (m *Menu) hit(nodes []ActionNode, x, y int) (level, idx int, ok bool) {
	f := m.layout(nodes)
	if f.sub != "" && f.subBox.contains(x, y) {
		return 1, rowAt(f.subBox, len(nodes[m.cursor].Children), y), true
	}
	if f.mainBox.contains(x, y) {
		return 0, rowAt(f.mainBox, len(nodes), y), true
	}
	return 0, 0, false
}

func rowAt(r rect, n, y int) int {
	row := y - r.y - 1
	if row < 0 || row >= n {
		return -1
	}
	return row
}

// View renders the open menu with its submenu to the right.
func (m *Menu) View() string {
	if !m.open {
		return ""
	}
	f := m.layout(m.build())
	if f.sub == "" {
		return f.main
	}
	offset := strings.Repeat("\n", max(0, f.subBox.y-f.mainBox.y))
	return lipgloss.JoinHorizontal(lipgloss.Top, f.main, offset+f.sub)
}

// Overlay draws the open menu over bg at its laid out position.
func (m *Menu) Overlay(bg string) string {
	if !m.open {
		return bg
	}
	f := m.layout(m.build())
	out := util.PlaceOverlay(f.mainBox.x, f.mainBox.y, f.main, bg)
	if f.sub != "" {
		out = util.PlaceOverlay(f.subBox.x, f.subBox.y, f.sub, out)
	}
	return out
}

func renderLevel(nodes []ActionNode, cursor int) string {
	s := styles.CurrentTheme().S().Menu

	labelW := 0
	for i := range nodes {
		if nodes[i].Selectable() {
			labelW = max(labelW, uniseg.StringWidth(nodes[i].Label))
		}
	}
	labelW = min(labelW, maxLabelWidth)
	rowW := labelW + 4

	lines := make([]string, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if n.Kind == KindDivider {
			lines = append(lines, s.Divider.Render(strings.Repeat("─", rowW)))
			continue
		}

		label := ansi.Truncate(n.Label, labelW, "…")
		mark := " "
		if n.Kind == KindSubmenu {
			mark = styles.SubmenuMark
		}
		row := iconGlyph(n.Icon) + " " + label +
			strings.Repeat(" ", labelW-uniseg.StringWidth(label)) + " " + mark

		lines = append(lines, rowStyle(s, n, i == cursor).Render(row))
	}
	return s.Box.Render(strings.Join(lines, "\n"))
}

func rowStyle(s styles.MenuStyles, n *ActionNode, focused bool) lipgloss.Style {
	switch {
	case n.Disabled && focused:
		return s.Disabled.Reverse(true)
	case n.Disabled:
		return s.Disabled
	case n.Destructive && focused:
		return s.DangerFocus
	case n.Destructive:
		return s.Danger
	case focused:
		return s.Selected
	default:
		return s.Item
	}
}

func iconGlyph(icon Icon) string {
	switch icon {
	case IconPin:
		return "◆"
	case IconUnpin:
		return "◇"
	case IconDuplicate:
		return "⧉"
	case IconMoveGroup:
		return "≡"
	case IconCheck:
		return styles.Check
	case IconCreate:
		return "+"
	case IconExport:
		return "⇩"
	case IconDelete:
		return "✗"
	default:
		return " "
	}
}
