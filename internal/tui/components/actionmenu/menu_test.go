package actionmenu

import (
	"reflect"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func containsPlain(s, sub string) bool {
	return strings.Contains(ansi.Strip(s), sub)
}

func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestActivate_StopsOncePerSelection(t *testing.T) {
	f := newFixture()
	nodes := Build(Input{SessionID: "s1", Groups: catalog}, f.deps)

	paths := [][]string{
		{KeyPin},
		{KeyDuplicate},
		{KeyMoveGroup, KeyDefaultList},
		{KeyMoveGroup, "group:g1"},
		{KeyMoveGroup, "group:g2"},
		{KeyMoveGroup, KeyCreateGroup},
		{KeyExport, KeyExportAgent},
		{KeyExport, KeyExportWithMsgs},
		{KeyDelete},
	}
	for _, path := range paths {
		act := &Activation{}
		if out := Activate(Find(nodes, path...), act); out != OutcomeSelected {
			t.Errorf("%v: outcome %s", path, out)
		}
		if act.StopCount() != 1 {
			t.Errorf("%v: stopped %d times, want 1", path, act.StopCount())
		}
	}
}

func TestActivate_SubmenuDoesNotStop(t *testing.T) {
	f := newFixture()
	nodes := Build(Input{SessionID: "s1", Groups: catalog}, f.deps)
	for _, k := range []string{KeyMoveGroup, KeyExport} {
		act := &Activation{}
		if out := Activate(Find(nodes, k), act); out != OutcomeNavigated {
			t.Errorf("%s: outcome %s", k, out)
		}
		if act.Stopped() {
			t.Errorf("%s: submenu opening stopped propagation", k)
		}
	}
	if len(f.store.calls) != 0 || len(f.exporter.calls) != 0 {
		t.Error("submenu opening ran a handler")
	}
}

func TestActivate_Inert(t *testing.T) {
	act := &Activation{}
	node := &ActionNode{Key: "noop", Kind: KindItem}
	if out := Activate(node, act); out != OutcomeInert {
		t.Errorf("outcome %s", out)
	}
	if act.Stopped() {
		t.Error("inert leaf stopped propagation")
	}
	if out := Activate(nil, act); out != OutcomeIgnored {
		t.Errorf("nil node outcome %s", out)
	}
}

func newTestMenu(f *fixture, in Input, opts ...Option) *Menu {
	return New(in.SessionID, func() []ActionNode { return Build(in, f.deps) }, opts...)
}

func TestMenu_KeyboardSelect(t *testing.T) {
	f := newFixture()
	m := newTestMenu(f, Input{SessionID: "s1", Groups: catalog})
	m.Open(0, 0)

	if got := m.Cursor(); got != KeyPin {
		t.Fatalf("cursor = %q, want pin", got)
	}
	m, _ = m.Update(keyPress("down"))
	m, _ = m.Update(keyPress("down"))
	if got := m.Cursor(); got != KeyMoveGroup {
		t.Fatalf("cursor = %q, divider should be skipped", got)
	}

	m, cmd := m.Update(keyPress("right"))
	if cmd != nil || !m.SubmenuOpen() {
		t.Fatal("right should open the submenu without a message")
	}
	if got := m.Cursor(); got != KeyDefaultList {
		t.Fatalf("submenu cursor = %q", got)
	}
	m, _ = m.Update(keyPress("j"))
	m, cmd = m.Update(keyPress("enter"))

	msg, ok := runCmd(cmd).(ActivatedMsg)
	if !ok || msg.Key != "group:g1" || msg.Owner != "s1" {
		t.Fatalf("msg = %#v", runCmd(cmd))
	}
	if m.IsOpen() {
		t.Error("menu should close after a selection")
	}
	if !reflect.DeepEqual(f.store.calls, []string{"group:s1:g1"}) {
		t.Errorf("calls = %v", f.store.calls)
	}
}

func TestMenu_EscapeClosesLevels(t *testing.T) {
	f := newFixture()
	m := newTestMenu(f, Input{SessionID: "s1"})
	m.Open(0, 0)
	for i := 0; i < 3; i++ {
		m, _ = m.Update(keyPress("down"))
	}
	if got := m.Cursor(); got != KeyExport {
		t.Fatalf("cursor = %q", got)
	}
	m, _ = m.Update(keyPress("enter"))
	if !m.SubmenuOpen() {
		t.Fatal("enter on a submenu should open it")
	}
	m, _ = m.Update(keyPress("esc"))
	if !m.IsOpen() || m.SubmenuOpen() {
		t.Fatal("first escape should only close the submenu")
	}
	m, _ = m.Update(keyPress("esc"))
	if m.IsOpen() {
		t.Fatal("second escape should close the menu")
	}
	if len(f.exporter.calls) != 0 {
		t.Errorf("export ran: %v", f.exporter.calls)
	}
}

func TestMenu_DisabledStaysOpen(t *testing.T) {
	f := newFixture()
	m := newTestMenu(f, Input{SessionID: "inbox", Locked: true})
	m.Open(0, 0)
	m, cmd := m.Update(keyPress("enter"))
	if cmd != nil {
		t.Errorf("disabled selection produced %#v", runCmd(cmd))
	}
	if !m.IsOpen() {
		t.Error("menu should stay open")
	}
	if len(f.store.calls) != 0 {
		t.Errorf("calls = %v", f.store.calls)
	}
}

func TestMenu_InertLeafPropagates(t *testing.T) {
	m := New("s1", func() []ActionNode {
		return []ActionNode{{Key: "open", Kind: KindItem, Label: "Open"}}
	})
	m.Open(0, 0)
	_, cmd := m.Update(keyPress("enter"))
	msg, ok := runCmd(cmd).(PropagatedMsg)
	if !ok || msg.Key != "open" {
		t.Fatalf("msg = %#v", runCmd(cmd))
	}
}

func TestMenu_OnOpenChange(t *testing.T) {
	tests := []struct {
		mode Mode
		want []bool
	}{
		{ModeClick, []bool{true, false, true}},
		{ModeContextMenu, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var got []bool
			f := newFixture()
			m := newTestMenu(f, Input{SessionID: "s1"},
				WithMode(tt.mode),
				WithOnOpenChange(func(open bool) { got = append(got, open) }),
			)
			m.Open(0, 0)
			m.Open(0, 0)
			m.Toggle(0, 0)
			m.Toggle(0, 0)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("open changes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMenu_MouseSelect(t *testing.T) {
	f := newFixture()
	in := Input{SessionID: "s1", Groups: catalog, Pinned: true}
	m := newTestMenu(f, in)
	m.SetBounds(120, 40)
	m.Open(2, 3)

	nodes := Build(in, f.deps)
	box := m.layout(nodes).mainBox
	if box.y != 4 {
		t.Fatalf("click mode should open below the anchor, y = %d", box.y)
	}

	click := func(x, y int) tea.Cmd {
		msg := tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}
		if !m.Captures(msg) {
			t.Fatalf("click at %d,%d not captured", x, y)
		}
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		return cmd
	}

	// Row 3 is the move submenu.
	if cmd := click(box.x+1, box.y+1+3); cmd != nil {
		t.Fatalf("opening a submenu produced %#v", runCmd(cmd))
	}
	if !m.SubmenuOpen() {
		t.Fatal("submenu should be open")
	}

	sub := m.layout(nodes).subBox
	if sub.x != box.x+box.w {
		t.Errorf("submenu x = %d, want %d", sub.x, box.x+box.w)
	}
	// Second child is the first catalog group.
	cmd := click(sub.x+1, sub.y+1+1)
	if _, ok := runCmd(cmd).(ActivatedMsg); !ok {
		t.Fatalf("msg = %#v", runCmd(cmd))
	}
	if !reflect.DeepEqual(f.store.calls, []string{"group:s1:g1"}) {
		t.Errorf("calls = %v", f.store.calls)
	}

	m.Open(2, 3)
	outside := tea.MouseClickMsg{X: 100, Y: 30, Button: tea.MouseLeft}
	if m.Captures(outside) {
		t.Fatal("click outside the menu should not be captured")
	}
	m, _ = m.Update(outside)
	if m.IsOpen() {
		t.Error("click outside should close the menu")
	}
}

func TestMenu_ClampsToBounds(t *testing.T) {
	f := newFixture()
	in := Input{SessionID: "s1", Groups: catalog}
	m := newTestMenu(f, in, WithMode(ModeContextMenu))
	m.SetBounds(30, 12)
	m.Open(29, 11)

	nodes := Build(in, f.deps)
	box := m.layout(nodes).mainBox
	if box.x+box.w > 30 || box.y+box.h > 12 {
		t.Errorf("menu %+v exceeds bounds", box)
	}
}

func TestMenu_ReflectsCurrentState(t *testing.T) {
	f := newFixture()
	in := Input{SessionID: "s1"}
	m := New("s1", func() []ActionNode { return Build(in, f.deps) })
	m.Open(0, 0)

	_, cmd := m.Update(keyPress("enter"))
	if _, ok := runCmd(cmd).(ActivatedMsg); !ok {
		t.Fatal("pin should activate")
	}
	in.Pinned = true

	m.Open(0, 0)
	m.Update(keyPress("enter"))
	want := []string{"pin:s1:true", "pin:s1:false"}
	if !reflect.DeepEqual(f.store.calls, want) {
		t.Errorf("calls = %v, want %v", f.store.calls, want)
	}
}

func TestMenu_View(t *testing.T) {
	f := newFixture()
	m := newTestMenu(f, Input{SessionID: "s1", Groups: catalog})
	if m.View() != "" {
		t.Error("closed menu should render nothing")
	}
	m.Open(0, 0)
	m.Update(keyPress("down"))
	m.Update(keyPress("down"))
	m.Update(keyPress("right"))
	view := m.View()
	for _, want := range []string{"Pin", "Duplicate", "Move to Group", "Export", "Delete", "Work", "Home", "Default List"} {
		if !containsPlain(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	bg := "line one\nline two\nline three\nline four"
	if got := New("x", func() []ActionNode { return nil }).Overlay(bg); got != bg {
		t.Error("closed menu should leave the background untouched")
	}
}

func TestTrigger(t *testing.T) {
	left := tea.MouseClickMsg{Button: tea.MouseLeft}
	right := tea.MouseClickMsg{Button: tea.MouseRight}

	click := NewTrigger(ModeClick)
	if !click.ShowsAffordance() {
		t.Error("click mode shows the affordance")
	}
	if !click.MatchKey(keyPress(".")) || !click.MatchKey(keyPress("m")) {
		t.Error("click mode opens on . and m")
	}
	if !click.MatchClick(left, true) || click.MatchClick(left, false) || click.MatchClick(right, true) {
		t.Error("click mode opens on a left click on the affordance only")
	}

	ctx := NewTrigger(ModeContextMenu)
	if ctx.ShowsAffordance() {
		t.Error("context mode has no affordance")
	}
	if ctx.MatchKey(keyPress(".")) {
		t.Error("context mode ignores the click shortcut")
	}
	if !ctx.MatchClick(right, false) || ctx.MatchClick(left, true) {
		t.Error("context mode opens on a right click anywhere on the row")
	}

	if NewTrigger("bogus").Mode != ModeClick {
		t.Error("unknown modes fall back to click")
	}
}
