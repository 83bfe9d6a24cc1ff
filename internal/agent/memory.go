package agent

// DefaultMaxMessages caps conversation memory before oldest-first eviction.
const DefaultMaxMessages = 100

// Memory is a bounded ordered log of conversation messages. It is owned
// exclusively by the agent that holds it.
type Memory struct {
	messages    []Message
	maxMessages int
}

// NewMemory creates a memory bounded to maxMessages entries. A non-positive
// value uses DefaultMaxMessages.
func NewMemory(maxMessages int) *Memory {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &Memory{maxMessages: maxMessages}
}

// Add appends a message, evicting the oldest entries once the cap is hit.
func (m *Memory) Add(msg Message) {
	m.messages = append(m.messages, msg)
	if len(m.messages) > m.maxMessages {
		m.messages = m.messages[len(m.messages)-m.maxMessages:]
	}
}

// Messages returns the current log. Callers must treat it as read-only.
func (m *Memory) Messages() []Message {
	return m.messages
}

// Last returns the most recent message, if any.
func (m *Memory) Last() (Message, bool) {
	if len(m.messages) == 0 {
		return Message{}, false
	}
	return m.messages[len(m.messages)-1], true
}

// Len reports the number of stored messages.
func (m *Memory) Len() int { return len(m.messages) }

// Clear drops all messages.
func (m *Memory) Clear() { m.messages = nil }
