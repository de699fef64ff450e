package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// shared HTTP client for Anthropic API calls
var anthropicHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Anthropic API calls (50 requests/second with burst capacity of 10)
var anthropicRateLimiter = rate.NewLimiter(50, 10)

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type anthropicResponse struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
	Model   string             `json:"model"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type AnthropicConfig struct {
	APIKey      string
	Model       string  // e.g., "claude-3-5-haiku-20241022"
	MaxTokens   int     // max tokens for response
	Temperature float32 // 0.0 to 1.0
}

type AnthropicGenerator struct {
	config     AnthropicConfig
	httpClient *http.Client
}

func NewAnthropicGenerator(config AnthropicConfig) *AnthropicGenerator {
	if config.Model == "" {
		config.Model = defaultAnthropicModel
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}

	return &AnthropicGenerator{
		config:     config,
		httpClient: anthropicHTTPClient,
	}
}

func (g *AnthropicGenerator) Model() string {
	return g.config.Model
}

// sends the system directive plus windowed history and returns the reply text
func (g *AnthropicGenerator) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := anthropicRateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	messages := make([]chatMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	reqBody := anthropicRequest{
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		System:      req.System,
		Messages:    messages,
		Temperature: g.config.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", anthropicMessagesURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", g.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var msgResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(msgResp.Content) == 0 {
		return "", fmt.Errorf("no content blocks returned")
	}

	return msgResp.Content[0].Text, nil
}
