package message

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "user", want: RoleUser},
		{in: " Assistant ", want: RoleAssistant},
		{in: "SYSTEM", want: RoleSystem},
		{in: "tool", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRole) {
					t.Errorf("ParseRole(%q) error = %v, want ErrInvalidRole", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		reasoning string
		wantTypes []PartType
		wantErr   error
	}{
		{name: "text only", text: "hello", wantTypes: []PartType{PartTypeText}},
		{name: "reasoning leads text", text: "done", reasoning: "checking", wantTypes: []PartType{PartTypeReasoning, PartTypeText}},
		{name: "reasoning only", reasoning: "thinking", wantTypes: []PartType{PartTypeReasoning}},
		{name: "blank", text: " \n ", reasoning: "\t", wantErr: ErrEmptyMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := New("s1", RoleAssistant, tt.text, tt.reasoning)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if msg.SessionID != "s1" || msg.Role != RoleAssistant {
				t.Errorf("New() = %+v", msg)
			}
			if len(msg.Parts) != len(tt.wantTypes) {
				t.Fatalf("parts = %+v, want types %v", msg.Parts, tt.wantTypes)
			}
			for i, typ := range tt.wantTypes {
				if msg.Parts[i].Type != typ {
					t.Errorf("part %d type = %q, want %q", i, msg.Parts[i].Type, typ)
				}
			}
		})
	}
}

func TestMessage_Content(t *testing.T) {
	tests := []struct {
		name          string
		parts         []Part
		wantText      string
		wantReasoning string
	}{
		{name: "nil parts"},
		{name: "text", parts: []Part{NewTextPart("result")}, wantText: "result"},
		{
			name:          "first of each kind",
			parts:         []Part{NewReasoningPart("a"), NewTextPart("b"), NewTextPart("c"), NewReasoningPart("d")},
			wantText:      "b",
			wantReasoning: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{Parts: tt.parts}
			if got := m.TextContent(); got != tt.wantText {
				t.Errorf("TextContent() = %q, want %q", got, tt.wantText)
			}
			if got := m.ReasoningContent(); got != tt.wantReasoning {
				t.Errorf("ReasoningContent() = %q, want %q", got, tt.wantReasoning)
			}
		})
	}
}
