package assist

import "context"

// Role tags a chat message with its sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    Role
	Content string
}

// Response carries the model's reply and token accounting for the request.
type Response struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// Provider abstracts the LLM backend used to explain validation failures.
// Implementations must be safe for concurrent use.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (*Response, error)
}
