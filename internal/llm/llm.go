// Package llm provides the chat-completion boundary used by the agent and the
// evaluation harness. The language model is a black box behind the Client
// interface; the concrete implementation speaks the OpenAI-compatible
// chat completions protocol.
package llm

import (
	"context"

	"github.com/openmevzuat/mevzuat/internal/models"
)

// Usage holds token accounting for a single completion call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the result of one model call.
type Completion struct {
	Text  string
	Usage Usage
}

// Client generates a completion for an ordered sequence of role-tagged messages.
type Client interface {
	Complete(ctx context.Context, messages []models.ConversationTurn) (Completion, error)
}
