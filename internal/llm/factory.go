package llm

import (
	"fmt"
	"strings"
)

// Groq serves an OpenAI-compatible API at a fixed base URL
const groqBaseURL = "https://api.groq.com/openai/v1"

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "groq":
		if config.BaseURL == "" {
			config.BaseURL = groqBaseURL
		}
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - the orchestrator falls back to the
		// rule policy and extractive answers
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, groq, ollama)", config.Provider)
	}
}
