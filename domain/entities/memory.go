package entities

// ConversationMemory is the bounded context window handed to the language
// model. The bound counts exchange pairs: at most windowPairs user/assistant
// pairs are retained, oldest first out. Appends are pair-atomic; a lone user
// record is never observable.
type ConversationMemory struct {
	windowPairs int
	entries     []TurnRecord
}

const DefaultWindowPairs = 10

// NewConversationMemory creates a memory bounded to windowPairs exchange
// pairs. Non-positive values fall back to DefaultWindowPairs.
func NewConversationMemory(windowPairs int) *ConversationMemory {
	if windowPairs <= 0 {
		windowPairs = DefaultWindowPairs
	}
	return &ConversationMemory{
		windowPairs: windowPairs,
		entries:     make([]TurnRecord, 0, windowPairs*2),
	}
}

// WindowPairs returns the configured bound.
func (m *ConversationMemory) WindowPairs() int {
	return m.windowPairs
}

// AppendExchange appends one user record and its paired assistant record,
// evicting the oldest pair if the bound is exceeded.
func (m *ConversationMemory) AppendExchange(user, assistant TurnRecord) {
	user.Role = MessageRoleUser
	assistant.Role = MessageRoleAssistant
	m.entries = append(m.entries, user, assistant)
	if len(m.entries) > m.windowPairs*2 {
		m.entries = m.entries[2:]
	}
}

// AsContext returns the current window in chronological order. The returned
// slice is a copy; callers may range over it repeatedly without affecting
// the memory.
func (m *ConversationMemory) AsContext() []TurnRecord {
	out := make([]TurnRecord, len(m.entries))
	copy(out, m.entries)
	return out
}

// Pairs returns the number of exchange pairs currently held.
func (m *ConversationMemory) Pairs() int {
	return len(m.entries) / 2
}

// Len returns the number of records currently held.
func (m *ConversationMemory) Len() int {
	return len(m.entries)
}

// Clear empties the window.
func (m *ConversationMemory) Clear() {
	m.entries = m.entries[:0]
}
