package llm

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultOpenAIModel    = "gpt-4o"
	defaultAnthropicModel = "claude-3-5-haiku-20241022"

	// the oracle's replies are capped at 300 characters by the directive,
	// so a tight token budget keeps the provider honest
	defaultMaxTokens   = 100
	defaultTemperature = 0.95
)

// loads generator configuration from environment variables
func loadConfig() (*Config, error) {
	provider := Provider(os.Getenv("ORACLE_PROVIDER"))
	if provider == "" {
		provider = ProviderOpenAI // default
	}

	config := &Config{
		Provider:    provider,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}

	switch provider {
	case ProviderOpenAI:
		config.APIKey = os.Getenv("OPENAI_API_KEY")
		if config.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}

		config.Model = os.Getenv("OPENAI_MODEL")
		if config.Model == "" {
			config.Model = defaultOpenAIModel
		}
	case ProviderAnthropic:
		config.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if config.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}

		config.Model = os.Getenv("ANTHROPIC_MODEL")
		if config.Model == "" {
			config.Model = defaultAnthropicModel
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	if maxTokensStr := os.Getenv("ORACLE_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			config.MaxTokens = val
		}
	}

	if tempStr := os.Getenv("ORACLE_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			config.Temperature = float32(val)
		}
	}

	return config, nil
}

// creates a new generator with auto-configuration from environment variables
func NewGenerator() (TextGenerator, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}

	return NewGeneratorWithConfig(config)
}

// creates a new generator with explicit configuration
func NewGeneratorWithConfig(config *Config) (TextGenerator, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIGenerator(OpenAIConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		}), nil
	case ProviderAnthropic:
		return NewAnthropicGenerator(AnthropicConfig{
			APIKey:      config.APIKey,
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
