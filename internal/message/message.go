// Package message stores the conversation history behind each session. The
// history feeds the list preview, the message count and the "with messages"
// export.
package message

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is who produced a message.
type Role string

// Roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

var (
	// ErrInvalidRole is returned for roles other than user, assistant and system.
	ErrInvalidRole = errors.New("invalid role")
	// ErrEmptyMessage is returned for messages without text or reasoning.
	ErrEmptyMessage = errors.New("message has no content")
)

// ParseRole parses a role name, ignoring case and surrounding space.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAssistant, RoleSystem:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Message is one entry of a session's history.
type Message struct {
	ID        string
	SessionID string
	Role      Role
	Parts     []Part
	Model     string
	Provider  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds a message from plain text and optional reasoning. The reasoning
// part comes first, the way agents emit it.
func New(sessionID string, role Role, text, reasoning string) (*Message, error) {
	text, reasoning = strings.TrimSpace(text), strings.TrimSpace(reasoning)
	if text == "" && reasoning == "" {
		return nil, ErrEmptyMessage
	}

	msg := &Message{SessionID: sessionID, Role: role}
	if reasoning != "" {
		msg.Parts = append(msg.Parts, NewReasoningPart(reasoning))
	}
	if text != "" {
		msg.Parts = append(msg.Parts, NewTextPart(text))
	}
	return msg, nil
}

// PartType is the kind of a message part.
type PartType string

// Part types.
const (
	PartTypeText      PartType = "text"
	PartTypeReasoning PartType = "reasoning"
)

// Part is one content block of a message. Parts are stored and exported as
// JSON.
type Part struct {
	Type      PartType `json:"type"`
	Text      string   `json:"text,omitempty"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// TextContent returns the first text part.
func (m *Message) TextContent() string {
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			return p.Text
		}
	}
	return ""
}

// ReasoningContent returns the first reasoning part.
func (m *Message) ReasoningContent() string {
	for _, p := range m.Parts {
		if p.Type == PartTypeReasoning {
			return p.Reasoning
		}
	}
	return ""
}

// NewTextPart creates a text part.
func NewTextPart(text string) Part {
	return Part{Type: PartTypeText, Text: text}
}

// NewReasoningPart creates a reasoning part.
func NewReasoningPart(reasoning string) Part {
	return Part{Type: PartTypeReasoning, Reasoning: reasoning}
}
