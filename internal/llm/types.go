package llm

import "context"

// represents different LLM providers
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// one message in a chat completion request
type ChatMessage struct {
	Role    string
	Content string
}

// a full completion request: the system directive plus the windowed history
type ChatRequest struct {
	System   string
	Messages []ChatMessage
}

// produces a single oracle reply for a chat request
type TextGenerator interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
	Model() string
}

// holds configuration for generator initialization
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string  // e.g., "gpt-4o" or "claude-3-haiku-20240307"
	MaxTokens   int     // max tokens for the oracle's reply
	Temperature float32 // 0.0 to 1.0
}
