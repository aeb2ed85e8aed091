package llm

import "context"

// Provider generates a free-text reply from a role-tagged conversation.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation history, oldest first.
	Messages []Message

	// MaxTokens caps the reply length. Zero means the provider default.
	MaxTokens int

	// Temperature and TopP are sampling controls. Zero leaves the provider
	// default in place.
	Temperature float64
	TopP        float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the generated text.
type Response struct {
	Content string
	Model   string
}

const defaultMaxTokens = 2048

func maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}
