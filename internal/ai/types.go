package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleDeveloper = "developer"
)

// Message is one turn of a conversation as the client sends it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends an ordered conversation to a completion API and returns
// the text of the top choice.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
