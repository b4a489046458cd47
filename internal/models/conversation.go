package models

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationTurn is one message in a conversation. Turns are append-only:
// the session owns the sequence and the agent only reads it plus appends the
// final question/answer pair.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
