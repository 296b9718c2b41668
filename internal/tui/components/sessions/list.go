package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/group"
	"github.com/guilhermegouw/agentdeck/internal/session"
	"github.com/guilhermegouw/agentdeck/internal/tui/components/actionmenu"
	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
	"github.com/guilhermegouw/agentdeck/internal/tui/util"
)

const (
	sectionPinned  = "Pinned"
	sectionDefault = "Default List"

	// Columns reserved at the right edge of a title line for the menu glyph.
	affordanceWidth = 2
)

// line is one rendered row of the list. item is -1 for section headers.
type line struct {
	item   int
	header string
	detail bool
}

// SessionList shows sessions in sections: the inbox first, then pinned
// sessions, then each catalog group, then the default list. Every session
// row carries its own action menu.
type SessionList struct {
	sessions  *session.Service
	groups    *group.Service
	store     actionmenu.SessionStore
	exporter  actionmenu.Exporter
	prompter  actionmenu.Prompter
	trigger   actionmenu.Trigger
	placement actionmenu.Placement

	items   []*session.SessionWithPreview
	lines   []line
	catalog []group.Group
	total   int
	cursor  int
	offset  int
	width   int
	height  int
	originX int
	originY int
	screenW int
	screenH int

	searchText string

	menus     map[string]*actionmenu.Menu
	active    *actionmenu.Menu
	highlight string
	pending   []tea.Cmd
	now       func() time.Time
}

// ListConfig wires a SessionList to its collaborators.
type ListConfig struct {
	Sessions  *session.Service
	Groups    *group.Service
	Store     actionmenu.SessionStore
	Exporter  actionmenu.Exporter
	Prompter  actionmenu.Prompter
	Trigger   actionmenu.Mode
	Placement actionmenu.Placement
}

// NewSessionList creates an empty list. Call Refresh to load it.
func NewSessionList(cfg ListConfig) *SessionList {
	return &SessionList{
		sessions:  cfg.Sessions,
		groups:    cfg.Groups,
		store:     cfg.Store,
		exporter:  cfg.Exporter,
		prompter:  cfg.Prompter,
		trigger:   actionmenu.NewTrigger(cfg.Trigger),
		placement: cfg.Placement,
		menus:     make(map[string]*actionmenu.Menu),
		now:       time.Now,
	}
}

// Refresh reloads the catalog and the sessions, keeping the cursor on the
// same session when it still exists.
func (l *SessionList) Refresh() {
	ctx := context.Background()
	if l.sessions == nil {
		return
	}

	selectedID := ""
	if sel := l.Selected(); sel != nil {
		selectedID = sel.ID
	}

	if l.groups != nil {
		catalog, err := l.groups.Catalog(ctx)
		if err != nil {
			debug.Error("sessions", err, "load group catalog")
		} else {
			l.catalog = catalog
		}
	}

	all, err := l.sessions.ListWithPreview(ctx)
	if err != nil {
		debug.Error("sessions", err, "list sessions")
		return
	}
	l.total = len(all)

	shown := all
	if l.searchText != "" {
		shown, err = l.sessions.SearchWithPreview(ctx, l.searchText)
		if err != nil {
			debug.Error("sessions", err, "search "+l.searchText)
			shown = nil
		}
	}
	l.arrange(shown)
	debug.Log("SessionList.Refresh: %d shown, %d total, %d groups", len(l.items), l.total, len(l.catalog))

	l.cursor = 0
	for i, it := range l.items {
		if it.ID == selectedID {
			l.cursor = i
			break
		}
	}
	l.pruneMenus()
	l.ensureVisible()
}

// arrange orders sessions into sections and rebuilds the line index.
func (l *SessionList) arrange(all []*session.SessionWithPreview) {
	var inbox, pinned, rest []*session.SessionWithPreview
	byGroup := make(map[string][]*session.SessionWithPreview)
	for _, s := range all {
		switch {
		case s.ID == session.InboxID:
			inbox = append(inbox, s)
		case s.Pinned:
			pinned = append(pinned, s)
		default:
			gid := group.Normalize(s.Group)
			if group.IsDefault(gid) || !group.Contains(l.catalog, gid) {
				rest = append(rest, s)
			} else {
				byGroup[gid] = append(byGroup[gid], s)
			}
		}
	}

	l.items = l.items[:0]
	l.lines = l.lines[:0]
	add := func(header string, list []*session.SessionWithPreview) {
		if len(list) == 0 {
			return
		}
		if header != "" {
			l.lines = append(l.lines, line{item: -1, header: fmt.Sprintf("%s (%d)", header, len(list))})
		}
		for _, s := range list {
			idx := len(l.items)
			l.items = append(l.items, s)
			l.lines = append(l.lines, line{item: idx}, line{item: idx, detail: true})
		}
	}

	add("", inbox)
	add(sectionPinned, pinned)
	for _, g := range l.catalog {
		add(g.Name, byGroup[g.ID])
	}
	add(sectionDefault, rest)
}

func (l *SessionList) pruneMenus() {
	live := make(map[string]bool, len(l.items))
	for _, it := range l.items {
		live[it.ID] = true
	}
	for id, m := range l.menus {
		if live[id] {
			continue
		}
		if m == l.active {
			m.Close()
			l.active = nil
		}
		delete(l.menus, id)
	}
}

// Search filters sessions by keyword. An empty keyword clears the filter.
func (l *SessionList) Search(keyword string) {
	l.searchText = keyword
	l.Refresh()
	l.cursor = 0
	l.offset = 0
}

// SetSize sets the list dimensions.
func (l *SessionList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// SetOrigin sets the screen cell of the list's top-left corner.
func (l *SessionList) SetOrigin(x, y int) {
	l.originX = x
	l.originY = y
}

// SetScreen sets the area action menus are laid out in.
func (l *SessionList) SetScreen(width, height int) {
	l.screenW = width
	l.screenH = height
	for _, m := range l.menus {
		m.SetBounds(width, height)
	}
}

// Selected returns the session under the cursor.
func (l *SessionList) Selected() *session.SessionWithPreview {
	if l.cursor >= 0 && l.cursor < len(l.items) {
		return l.items[l.cursor]
	}
	return nil
}

// Len returns the number of sessions shown.
func (l *SessionList) Len() int {
	return len(l.items)
}

// Total returns the number of sessions before filtering.
func (l *SessionList) Total() int {
	return l.total
}

// MenuOpen reports whether a row's action menu is open.
func (l *SessionList) MenuOpen() bool {
	return l.active != nil && l.active.IsOpen()
}

// Catalog returns the group catalog as last loaded.
func (l *SessionList) Catalog() []group.Group {
	return l.catalog
}

func (l *SessionList) find(id string) *session.SessionWithPreview {
	for _, it := range l.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// menuFor returns the row's menu, creating it on first use.
func (l *SessionList) menuFor(id string) *actionmenu.Menu {
	if m, ok := l.menus[id]; ok {
		return m
	}
	m := actionmenu.New(id, func() []actionmenu.ActionNode { return l.buildMenu(id) },
		actionmenu.WithMode(l.trigger.Mode),
		actionmenu.WithOnOpenChange(func(open bool) {
			if open {
				l.highlight = id
			} else if l.highlight == id {
				l.highlight = ""
			}
		}),
	)
	m.SetBounds(l.screenW, l.screenH)
	l.menus[id] = m
	return m
}

func (l *SessionList) buildMenu(id string) []actionmenu.ActionNode {
	sess := l.find(id)
	if sess == nil {
		return nil
	}
	return actionmenu.Build(actionmenu.Input{
		SessionID: id,
		Group:     sess.Group,
		Pinned:    session.Pinned(&sess.Session),
		Groups:    l.catalog,
		Locked:    session.IsLocked(id),
		Placement: l.placement,
	}, actionmenu.Deps{
		Store:    l.store,
		Exporter: l.exporter,
		Prompter: l.prompter,
		OpenCreateGroup: func() {
			l.pending = append(l.pending, util.CmdHandler(CreateGroupMsg{SessionID: id}))
		},
	})
}

func (l *SessionList) drainPending() tea.Cmd {
	if len(l.pending) == 0 {
		return nil
	}
	cmds := l.pending
	l.pending = nil
	return tea.Batch(cmds...)
}

// Update handles messages. An open menu sees input first; a click outside it
// closes the menu and is then handled as a normal click.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	closedOwner := ""
	if l.MenuOpen() {
		if l.active.Captures(msg) {
			var cmd tea.Cmd
			l.active, cmd = l.active.Update(msg)
			return l, tea.Batch(cmd, l.drainPending())
		}
		switch msg.(type) {
		case tea.MouseClickMsg, tea.MouseWheelMsg:
			closedOwner = l.active.Owner()
			l.active.Close()
		}
	}

	switch msg := msg.(type) {
	case actionmenu.ActivatedMsg:
		debug.Event("sessions", "MenuActivated", fmt.Sprintf("session=%s key=%s", msg.Owner, msg.Key))
		l.Refresh()
		return l, nil

	case actionmenu.PropagatedMsg:
		return l, l.selectSession(msg.Owner)

	case tea.KeyPressMsg:
		return l, l.handleKey(msg)

	case tea.MouseClickMsg:
		return l, l.handleClick(msg, closedOwner)

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			l.offset = max(0, l.offset-1)
		case tea.MouseWheelDown:
			l.offset = min(max(0, len(l.lines)-l.height), l.offset+1)
		}
	}
	return l, nil
}

func (l *SessionList) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if l.trigger.MatchKey(msg) {
		l.openMenuAtCursor()
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case "down", "j":
		if l.cursor < len(l.items)-1 {
			l.cursor++
			l.ensureVisible()
		}
	case "home", "g":
		l.cursor = 0
		l.offset = 0
	case "end", "G":
		l.cursor = max(0, len(l.items)-1)
		l.ensureVisible()
	case "enter":
		if sel := l.Selected(); sel != nil {
			return l.selectSession(sel.ID)
		}
	case "n":
		return util.CmdHandler(NewSessionMsg{})
	case "r":
		if sel := l.Selected(); sel != nil {
			return util.CmdHandler(RenameSessionMsg{SessionID: sel.ID, CurrentTitle: sel.Title})
		}
	}
	return nil
}

func (l *SessionList) openMenuAtCursor() {
	sel := l.Selected()
	if sel == nil {
		return
	}
	y := l.originY + l.titleLine(l.cursor) - l.offset
	m := l.menuFor(sel.ID)
	if l.trigger.Mode == actionmenu.ModeContextMenu {
		m.Open(l.originX+2, y+1)
	} else {
		m.Open(l.originX+l.width-1, y)
	}
	l.active = m
}

func (l *SessionList) handleClick(msg tea.MouseClickMsg, closedOwner string) tea.Cmd {
	idx, onAffordance, ok := l.hitRow(msg.X, msg.Y)
	if !ok {
		return nil
	}
	l.cursor = idx
	id := l.items[idx].ID

	if l.trigger.MatchClick(msg, onAffordance) {
		// A click on the glyph of the menu it just closed only closes it.
		if l.trigger.Mode == actionmenu.ModeClick && closedOwner == id {
			return nil
		}
		m := l.menuFor(id)
		if l.trigger.Mode == actionmenu.ModeContextMenu {
			m.Open(msg.X, msg.Y)
		} else {
			m.Open(l.originX+l.width-1, msg.Y)
		}
		l.active = m
		return nil
	}

	if msg.Button == tea.MouseLeft && !onAffordance {
		return l.selectSession(id)
	}
	return nil
}

// hitRow maps a screen cell to a session index.
func (l *SessionList) hitRow(x, y int) (idx int, onAffordance, ok bool) {
	if x < l.originX || x >= l.originX+l.width {
		return 0, false, false
	}
	row := y - l.originY
	if row < 0 || row >= l.height {
		return 0, false, false
	}
	n := l.offset + row
	if n >= len(l.lines) || l.lines[n].item < 0 {
		return 0, false, false
	}
	ln := l.lines[n]
	onAffordance = l.trigger.ShowsAffordance() && !ln.detail && x >= l.originX+l.width-affordanceWidth
	return ln.item, onAffordance, true
}

func (l *SessionList) selectSession(id string) tea.Cmd {
	debug.Event("sessions", "Select", id)
	return util.CmdHandler(SessionSelectedMsg{SessionID: id})
}

func (l *SessionList) titleLine(item int) int {
	for i, ln := range l.lines {
		if ln.item == item && !ln.detail {
			return i
		}
	}
	return 0
}

func (l *SessionList) ensureVisible() {
	if len(l.items) == 0 || l.height <= 0 {
		l.offset = 0
		return
	}
	top := l.titleLine(l.cursor)
	// Keep the section header in view when the first row of a section is selected.
	if top > 0 && l.lines[top-1].item < 0 {
		top--
	}
	bottom := l.titleLine(l.cursor) + 1
	if top < l.offset {
		l.offset = top
	} else if bottom >= l.offset+l.height {
		l.offset = bottom - l.height + 1
	}
	l.offset = max(0, l.offset)
}

// View renders the visible lines.
func (l *SessionList) View() string {
	t := styles.CurrentTheme()

	if len(l.items) == 0 {
		empty := t.S().Muted.Width(l.width).Align(lipgloss.Center).Padding(2, 0)
		if l.searchText != "" {
			return empty.Render("No sessions match your search.")
		}
		return empty.Render("No sessions yet. Press [n] to create one.")
	}

	end := min(len(l.lines), l.offset+max(1, l.height))
	out := make([]string, 0, end-l.offset)
	for _, ln := range l.lines[l.offset:end] {
		switch {
		case ln.item < 0:
			out = append(out, t.S().Subtitle.Render(ln.header))
		case ln.detail:
			out = append(out, l.renderDetail(l.items[ln.item], ln.item == l.cursor))
		default:
			out = append(out, l.renderTitle(l.items[ln.item], ln.item == l.cursor))
		}
	}
	return strings.Join(out, "\n")
}

// Overlay draws the open action menu over a screen.
func (l *SessionList) Overlay(screen string) string {
	if !l.MenuOpen() {
		return screen
	}
	return l.active.Overlay(screen)
}

func (l *SessionList) renderTitle(sess *session.SessionWithPreview, selected bool) string {
	t := styles.CurrentTheme()

	marker := "  "
	titleStyle := t.S().Text
	if selected {
		marker = "> "
		titleStyle = t.S().Primary.Bold(true)
	}
	if sess.ID == l.sessions.CurrentID() {
		marker = styles.Selected + " "
	}

	meta := fmt.Sprintf("%d msgs · %s", sess.MessageCount, formatRelativeTime(sess.UpdatedAt, l.now()))
	if session.IsLocked(sess.ID) {
		meta = "inbox · " + meta
	}

	right := t.S().Muted.Render(meta)
	if l.trigger.ShowsAffordance() {
		glyph := t.S().Muted
		if l.highlight == sess.ID || selected {
			glyph = t.S().Primary
		}
		right += " " + glyph.Render(styles.MenuGlyph)
	}

	room := l.width - lipgloss.Width(marker) - lipgloss.Width(right) - 1
	title := ansi.Truncate(sess.DisplayTitle(), max(1, room), "…")
	gap := max(1, l.width-lipgloss.Width(marker)-lipgloss.Width(title)-lipgloss.Width(right))

	return titleStyle.Render(marker+title) + strings.Repeat(" ", gap) + right
}

func (l *SessionList) renderDetail(sess *session.SessionWithPreview, selected bool) string {
	t := styles.CurrentTheme()

	preview := sess.Description
	if preview == "" {
		preview = sess.FirstMessage
	}
	if preview == "" {
		preview = "(no messages)"
	}
	preview = strings.Join(strings.Fields(preview), " ")
	preview = ansi.Truncate("  "+preview, max(1, l.width), "…")

	if selected {
		return t.S().Text.Render(preview)
	}
	return t.S().Muted.Render(preview)
}

// formatRelativeTime renders ts relative to now.
func formatRelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return ts.Format("Jan 2")
	}
}
