package entities

import (
	"testing"
	"time"
)

func record(role MessageRole, content string) TurnRecord {
	return TurnRecord{Role: role, Content: content, CreatedAt: time.Now()}
}

func TestMemoryAppendExchange(t *testing.T) {
	m := NewConversationMemory(5)

	m.AppendExchange(record(MessageRoleUser, "Hello"), record(MessageRoleAssistant, "Hi there"))

	if m.Pairs() != 1 {
		t.Errorf("Expected 1 pair, got %d", m.Pairs())
	}
	if m.Len() != 2 {
		t.Errorf("Expected 2 records, got %d", m.Len())
	}

	window := m.AsContext()
	if window[0].Role != MessageRoleUser || window[0].Content != "Hello" {
		t.Errorf("Expected user record first, got %+v", window[0])
	}
	if window[1].Role != MessageRoleAssistant || window[1].Content != "Hi there" {
		t.Errorf("Expected assistant record second, got %+v", window[1])
	}
}

func TestMemoryWindowBound(t *testing.T) {
	m := NewConversationMemory(5)

	for i := 0; i < 12; i++ {
		m.AppendExchange(record(MessageRoleUser, "u"), record(MessageRoleAssistant, "a"))
		if m.Len() > 10 {
			t.Fatalf("Window exceeded bound after append %d: %d records", i, m.Len())
		}
	}

	if m.Pairs() != 5 {
		t.Errorf("Expected 5 pairs at bound, got %d", m.Pairs())
	}
}

func TestMemoryFIFOEviction(t *testing.T) {
	m := NewConversationMemory(2)

	m.AppendExchange(record(MessageRoleUser, "first"), record(MessageRoleAssistant, "r1"))
	m.AppendExchange(record(MessageRoleUser, "second"), record(MessageRoleAssistant, "r2"))
	m.AppendExchange(record(MessageRoleUser, "third"), record(MessageRoleAssistant, "r3"))

	window := m.AsContext()
	if len(window) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(window))
	}
	if window[0].Content != "second" {
		t.Errorf("Expected oldest pair evicted, window starts with %q", window[0].Content)
	}
	if window[3].Content != "r3" {
		t.Errorf("Expected newest pair present, window ends with %q", window[3].Content)
	}
}

func TestMemoryAsContextIsACopy(t *testing.T) {
	m := NewConversationMemory(3)
	m.AppendExchange(record(MessageRoleUser, "u"), record(MessageRoleAssistant, "a"))

	first := m.AsContext()
	first[0].Content = "mutated"

	second := m.AsContext()
	if second[0].Content != "u" {
		t.Error("AsContext must not expose internal storage")
	}

	// Iterating twice yields the same window.
	if len(first) != len(second) {
		t.Errorf("Expected restartable window, got %d then %d records", len(first), len(second))
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewConversationMemory(3)
	m.AppendExchange(record(MessageRoleUser, "u"), record(MessageRoleAssistant, "a"))

	m.Clear()

	if m.Len() != 0 {
		t.Errorf("Expected empty memory after clear, got %d records", m.Len())
	}
	if m.WindowPairs() != 3 {
		t.Errorf("Clear must not change the bound, got %d", m.WindowPairs())
	}
}

func TestMemoryDefaultBound(t *testing.T) {
	m := NewConversationMemory(0)
	if m.WindowPairs() != DefaultWindowPairs {
		t.Errorf("Expected default bound %d, got %d", DefaultWindowPairs, m.WindowPairs())
	}
}
