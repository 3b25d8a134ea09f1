package models

// MessageRole identifies who authored a conversation entry.
type MessageRole string

const (
	// MessageRoleUser marks a message written by the user.
	MessageRoleUser MessageRole = "user"
	// MessageRoleAssistant marks a message produced by the system.
	MessageRoleAssistant MessageRole = "assistant"
)

// Valid returns true if the role is a known value.
func (r MessageRole) Valid() bool {
	switch r {
	case MessageRoleUser, MessageRoleAssistant:
		return true
	default:
		return false
	}
}

// ChatMessage is one entry of recent conversation history supplied with a
// request. The planner includes a bounded tail of these in its prompt.
type ChatMessage struct {
	// Role is who authored the message.
	Role MessageRole `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
}
