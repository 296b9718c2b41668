package actionmenu

import (
	"github.com/guilhermegouw/agentdeck/internal/group"
)

// SessionStore is the set of session mutations the menu triggers.
type SessionStore interface {
	PinSession(id string, pinned bool)
	DuplicateSession(id string)
	RemoveSession(id string)
	UpdateSessionGroup(id, groupID string)
}

// Exporter writes export documents for a session.
type Exporter interface {
	ExportSingleAgent(id string)
	ExportSingleSession(id string)
}

// Placement controls where the default list entry sits in the move submenu.
type Placement string

// Placements.
const (
	PlacementFirst Placement = "first"
	PlacementLast  Placement = "last"
)

// Input is the session state a menu is built from.
type Input struct {
	SessionID string
	Group     string
	Pinned    bool
	Groups    []group.Group
	Locked    bool
	Placement Placement
}

// Deps are the collaborators bound into the menu's handlers.
type Deps struct {
	Store           SessionStore
	Exporter        Exporter
	Prompter        Prompter
	OpenCreateGroup func()
	Strings         Strings
}

// Strings holds the user-facing labels.
type Strings struct {
	Pin              string
	Unpin            string
	Duplicate        string
	MoveGroup        string
	DefaultList      string
	CreateGroup      string
	Export           string
	ExportAgent      string
	ExportWithMsgs   string
	Delete           string
	ConfirmDelete    string
	ConfirmDeleteMsg string
	ConfirmOK        string
	ConfirmCancel    string
}

// DefaultStrings returns the English labels.
func DefaultStrings() Strings {
	return Strings{
		Pin:              "Pin",
		Unpin:            "Unpin",
		Duplicate:        "Duplicate",
		MoveGroup:        "Move to Group",
		DefaultList:      "Default List",
		CreateGroup:      "Create Group",
		Export:           "Export",
		ExportAgent:      "Agent Settings",
		ExportWithMsgs:   "Agent and Messages",
		Delete:           "Delete",
		ConfirmDelete:    "Delete session?",
		ConfirmDeleteMsg: "This session and its messages will be removed. This cannot be undone.",
		ConfirmOK:        "Delete",
		ConfirmCancel:    "Cancel",
	}
}

func (s Strings) withDefaults() Strings {
	d := DefaultStrings()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.Pin, d.Pin)
	fill(&s.Unpin, d.Unpin)
	fill(&s.Duplicate, d.Duplicate)
	fill(&s.MoveGroup, d.MoveGroup)
	fill(&s.DefaultList, d.DefaultList)
	fill(&s.CreateGroup, d.CreateGroup)
	fill(&s.Export, d.Export)
	fill(&s.ExportAgent, d.ExportAgent)
	fill(&s.ExportWithMsgs, d.ExportWithMsgs)
	fill(&s.Delete, d.Delete)
	fill(&s.ConfirmDelete, d.ConfirmDelete)
	fill(&s.ConfirmDeleteMsg, d.ConfirmDeleteMsg)
	fill(&s.ConfirmOK, d.ConfirmOK)
	fill(&s.ConfirmCancel, d.ConfirmCancel)
	return s
}

// Build returns the action tree for one session. It is pure: the handlers
// close over deps and the input but nothing runs until a node is activated.
//
// Top level, in order: pin or unpin, duplicate, divider, move to group,
// divider, export, delete.
func Build(in Input, deps Deps) []ActionNode {
	str := deps.Strings.withDefaults()
	id := in.SessionID

	pin := ActionNode{
		Key:      KeyPin,
		Kind:     KindItem,
		Label:    str.Pin,
		Icon:     IconPin,
		Disabled: in.Locked,
	}
	if in.Pinned {
		pin.Label = str.Unpin
		pin.Icon = IconUnpin
	}
	if deps.Store != nil {
		pinned := in.Pinned
		pin.OnSelect = func() { deps.Store.PinSession(id, !pinned) }
	}

	dup := ActionNode{
		Key:      KeyDuplicate,
		Kind:     KindItem,
		Label:    str.Duplicate,
		Icon:     IconDuplicate,
		Disabled: in.Locked,
	}
	if deps.Store != nil {
		dup.OnSelect = func() { deps.Store.DuplicateSession(id) }
	}

	move := ActionNode{
		Key:      KeyMoveGroup,
		Kind:     KindSubmenu,
		Label:    str.MoveGroup,
		Icon:     IconMoveGroup,
		Disabled: in.Locked,
		Children: buildMoveGroup(in, deps, str),
	}

	export := ActionNode{
		Key:   KeyExport,
		Kind:  KindSubmenu,
		Label: str.Export,
		Icon:  IconExport,
		Children: []ActionNode{
			{Key: KeyExportAgent, Kind: KindItem, Label: str.ExportAgent},
			{Key: KeyExportWithMsgs, Kind: KindItem, Label: str.ExportWithMsgs},
		},
	}
	if deps.Exporter != nil {
		export.Children[0].OnSelect = func() { deps.Exporter.ExportSingleAgent(id) }
		export.Children[1].OnSelect = func() { deps.Exporter.ExportSingleSession(id) }
	}

	del := ActionNode{
		Key:         KeyDelete,
		Kind:        KindItem,
		Label:       str.Delete,
		Icon:        IconDelete,
		Disabled:    in.Locked,
		Destructive: true,
	}
	if deps.Store != nil && deps.Prompter != nil {
		del.OnSelect = WithConfirmation(deps.Prompter, func() { deps.Store.RemoveSession(id) }, PromptConfig{
			Title:       str.ConfirmDelete,
			Message:     str.ConfirmDeleteMsg,
			ConfirmText: str.ConfirmOK,
			CancelText:  str.ConfirmCancel,
			Danger:      true,
		})
	}

	return []ActionNode{
		pin,
		dup,
		Divider("actions"),
		move,
		Divider("move"),
		export,
		del,
	}
}

// buildMoveGroup lists the default entry, the catalog groups, a divider and
// the create entry. Exactly one of the group entries is checked: the
// session's group, or the default entry when that group is not in the
// catalog.
func buildMoveGroup(in Input, deps Deps, str Strings) []ActionNode {
	id := in.SessionID
	current := group.Normalize(in.Group)
	if !group.IsDefault(current) && !group.Contains(in.Groups, current) {
		current = group.DefaultID
	}

	entry := func(key, label, groupID string) ActionNode {
		n := ActionNode{
			Key:     key,
			Kind:    KindItem,
			Label:   label,
			Checked: groupID == current,
		}
		if n.Checked {
			n.Icon = IconCheck
		}
		if deps.Store != nil {
			n.OnSelect = func() { deps.Store.UpdateSessionGroup(id, groupID) }
		}
		return n
	}

	def := entry(KeyDefaultList, str.DefaultList, group.DefaultID)
	groups := make([]ActionNode, 0, len(in.Groups))
	for _, g := range in.Groups {
		groups = append(groups, entry(GroupEntryKey(g.ID), g.Name, g.ID))
	}

	children := make([]ActionNode, 0, len(groups)+3)
	if in.Placement == PlacementLast {
		children = append(children, groups...)
		children = append(children, def)
	} else {
		children = append(children, def)
		children = append(children, groups...)
	}

	create := ActionNode{
		Key:      KeyCreateGroup,
		Kind:     KindItem,
		Label:    str.CreateGroup,
		Icon:     IconCreate,
		Disabled: deps.OpenCreateGroup == nil,
		OnSelect: deps.OpenCreateGroup,
	}
	return append(children, Divider("groups"), create)
}
