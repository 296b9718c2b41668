// Package export writes single-session export documents to disk.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/message"
	"github.com/guilhermegouw/agentdeck/internal/session"
)

// Version is the export document schema version.
const Version = 1

// Document types written to the exportType field.
const (
	TypeAgents   = "agents"
	TypeSessions = "sessions"
)

// ErrInvalidDocument is returned by Validate for malformed exports.
var ErrInvalidDocument = errors.New("invalid export document")

// documentType maps an export kind to the exportType field.
func documentType(kind events.ExportKind) string {
	if kind == events.ExportAgentWithMessage {
		return TypeSessions
	}
	return TypeAgents
}

// BuildDocument renders sess, and msgs for the sessions kind, as an
// indented export document.
func BuildDocument(kind events.ExportKind, sess *session.Session, msgs []*message.Message, exportedAt time.Time) ([]byte, error) {
	header, err := setFields([]byte(`{}`), []field{
		{"exportType", documentType(kind)},
		{"version", Version},
		{"exportedAt", exportedAt.UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return nil, err
	}
	entry, err := setFields([]byte(`{}`), []field{
		{"id", sess.ID},
		{"title", sess.Title},
		{"description", sess.Description},
		{"avatar", sess.Avatar},
		{"systemPrompt", sess.SystemPrompt},
		{"model", sess.Model},
		{"provider", sess.Provider},
		{"group", sess.Group},
		{"pinned", sess.Pinned},
		{"createdAt", sess.CreatedAt.UnixMilli()},
		{"updatedAt", sess.UpdatedAt.UnixMilli()},
	})
	if err != nil {
		return nil, err
	}

	doc, err := sjson.SetRawBytes(header, "state.sessions", append(append([]byte{'['}, entry...), ']'))
	if err != nil {
		return nil, fmt.Errorf("setting sessions: %w", err)
	}

	if kind == events.ExportAgentWithMessage {
		doc, err = sjson.SetRawBytes(doc, "state.messages", []byte(`[]`))
		if err != nil {
			return nil, fmt.Errorf("setting messages: %w", err)
		}
		for _, m := range msgs {
			if doc, err = appendMessage(doc, m); err != nil {
				return nil, err
			}
		}
	}

	return pretty.Pretty(doc), nil
}

func appendMessage(doc []byte, m *message.Message) ([]byte, error) {
	parts := m.Parts
	if parts == nil {
		parts = []message.Part{}
	}
	partsJSON, err := json.Marshal(parts)
	if err != nil {
		return nil, fmt.Errorf("marshaling parts of %s: %w", m.ID, err)
	}
	entry, err := setFields([]byte(`{}`), []field{
		{"id", m.ID},
		{"sessionId", m.SessionID},
		{"role", string(m.Role)},
		{"content", m.TextContent()},
		{"model", m.Model},
		{"provider", m.Provider},
		{"createdAt", m.CreatedAt.UnixMilli()},
	})
	if err != nil {
		return nil, err
	}
	if entry, err = sjson.SetRawBytes(entry, "parts", partsJSON); err != nil {
		return nil, fmt.Errorf("setting message parts: %w", err)
	}
	if doc, err = sjson.SetRawBytes(doc, "state.messages.-1", entry); err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}
	return doc, nil
}

type field struct {
	path  string
	value any
}

func setFields(doc []byte, fields []field) ([]byte, error) {
	var err error
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, fmt.Errorf("setting %s: %w", f.path, err)
		}
	}
	return doc, nil
}

// Validate checks the structure of an export document.
func Validate(doc []byte) error {
	if !gjson.ValidBytes(doc) {
		return fmt.Errorf("%w: not JSON", ErrInvalidDocument)
	}
	res := gjson.ParseBytes(doc)

	typ := res.Get("exportType").String()
	if typ != TypeAgents && typ != TypeSessions {
		return fmt.Errorf("%w: exportType %q", ErrInvalidDocument, typ)
	}
	if v := res.Get("version").Int(); v != Version {
		return fmt.Errorf("%w: version %d", ErrInvalidDocument, v)
	}
	if n := res.Get("state.sessions.#").Int(); n != 1 {
		return fmt.Errorf("%w: %d sessions", ErrInvalidDocument, n)
	}
	if res.Get("state.sessions.0.id").String() == "" {
		return fmt.Errorf("%w: session without id", ErrInvalidDocument)
	}

	msgs := res.Get("state.messages")
	switch {
	case typ == TypeAgents && msgs.Exists():
		return fmt.Errorf("%w: agent export carries messages", ErrInvalidDocument)
	case typ == TypeSessions && !msgs.IsArray():
		return fmt.Errorf("%w: session export without messages", ErrInvalidDocument)
	}
	return nil
}

// Summary describes a validated document for display.
type Summary struct {
	Type      string
	SessionID string
	Title     string
	Messages  int
}

// Summarize reads the headline fields of doc.
func Summarize(doc []byte) Summary {
	res := gjson.ParseBytes(doc)
	return Summary{
		Type:      res.Get("exportType").String(),
		SessionID: res.Get("state.sessions.0.id").String(),
		Title:     res.Get("state.sessions.0.title").String(),
		Messages:  int(res.Get("state.messages.#").Int()),
	}
}

// FileName returns the export file name for a session title.
func FileName(title string, kind events.ExportKind, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s.json", slug(title), kind, at.Format("20060102-150405"))
}

const maxSlugLen = 40

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "session"
	}
	return s
}
