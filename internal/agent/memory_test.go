package agent

import (
	"fmt"
	"testing"
)

func TestMemoryEvictsOldestFirst(t *testing.T) {
	m := NewMemory(3)
	for i := 0; i < 5; i++ {
		m.Add(UserMessage(fmt.Sprintf("msg %d", i)))
	}

	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	msgs := m.Messages()
	if msgs[0].Content != "msg 2" || msgs[2].Content != "msg 4" {
		t.Errorf("kept wrong window: first=%q last=%q", msgs[0].Content, msgs[2].Content)
	}
}

func TestMemoryDefaultsCap(t *testing.T) {
	m := NewMemory(0)
	for i := 0; i < DefaultMaxMessages+10; i++ {
		m.Add(UserMessage("x"))
	}
	if m.Len() != DefaultMaxMessages {
		t.Errorf("Len = %d, want %d", m.Len(), DefaultMaxMessages)
	}
}

func TestMemoryLastAndClear(t *testing.T) {
	m := NewMemory(10)
	if _, ok := m.Last(); ok {
		t.Error("Last on empty memory reported a message")
	}

	m.Add(UserMessage("a"))
	m.Add(AssistantMessage("b"))
	last, ok := m.Last()
	if !ok || last.Content != "b" {
		t.Errorf("Last = (%+v, %v), want assistant b", last, ok)
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", m.Len())
	}
}

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"user ok", UserMessage("hi"), false},
		{"tool ok", ToolMessage("out", "echo", "call-1"), false},
		{"tool missing name", Message{Role: RoleTool, Content: "out", ToolCallID: "call-1"}, true},
		{"tool missing call id", Message{Role: RoleTool, Content: "out", Name: "echo"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
