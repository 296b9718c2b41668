// Package actionmenu implements the per-session action menu: a pure builder
// that turns a session's state into a tree of actions, the propagation policy
// applied when an action is activated, a confirmation gate for destructive
// actions, and the bubbletea component that renders and navigates the tree.
package actionmenu

// Stable node keys.
const (
	KeyPin              = "pin"
	KeyDuplicate        = "duplicate"
	KeyMoveGroup        = "moveGroup"
	KeyDefaultList      = "defaultList"
	KeyCreateGroup      = "createGroup"
	KeyExport           = "export"
	KeyExportAgent      = "agent"
	KeyExportWithMsgs   = "agentWithMessage"
	KeyDelete           = "delete"
	keyDividerPrefix    = "divider"
	keyGroupEntryPrefix = "group:"
)

// Kind distinguishes the three node shapes.
type Kind int

// Node kinds.
const (
	KindItem Kind = iota
	KindDivider
	KindSubmenu
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindDivider:
		return "divider"
	case KindSubmenu:
		return "submenu"
	default:
		return "unknown"
	}
}

// Action is the handler bound to a leaf item. Handlers are fire-and-forget:
// they never return a result to the menu.
type Action func()

// Icon identifies the glyph drawn in front of a label.
type Icon int

// Icons.
const (
	IconNone Icon = iota
	IconPin
	IconUnpin
	IconDuplicate
	IconMoveGroup
	IconCheck
	IconCreate
	IconExport
	IconDelete
)

// ActionNode is one entry of the menu tree.
type ActionNode struct {
	Key         string
	Kind        Kind
	Label       string
	Icon        Icon
	Disabled    bool
	Destructive bool
	Checked     bool
	Children    []ActionNode
	OnSelect    Action
}

// Divider returns a separator node.
func Divider(key string) ActionNode {
	return ActionNode{Key: keyDividerPrefix + ":" + key, Kind: KindDivider}
}

// GroupEntryKey is the key of the moveGroup entry for a catalog group.
func GroupEntryKey(groupID string) string {
	return keyGroupEntryPrefix + groupID
}

// Selectable reports whether the cursor may rest on the node.
func (n *ActionNode) Selectable() bool {
	return n.Kind != KindDivider
}

// Find returns the node reached by following keys from the top level, or nil.
func Find(nodes []ActionNode, keys ...string) *ActionNode {
	var found *ActionNode
	level := nodes
	for _, k := range keys {
		found = nil
		for i := range level {
			if level[i].Key == k {
				found = &level[i]
				break
			}
		}
		if found == nil {
			return nil
		}
		level = found.Children
	}
	return found
}

// Keys lists the keys of a level in order, dividers included.
func Keys(nodes []ActionNode) []string {
	keys := make([]string, len(nodes))
	for i := range nodes {
		keys[i] = nodes[i].Key
	}
	return keys
}

// CheckedKeys lists the keys of the checked nodes of a level.
func CheckedKeys(nodes []ActionNode) []string {
	var keys []string
	for i := range nodes {
		if nodes[i].Checked {
			keys = append(keys, nodes[i].Key)
		}
	}
	return keys
}
