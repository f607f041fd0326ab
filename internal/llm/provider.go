package llm

import (
	"context"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// Provider defines the interface for language model backends.
// The orchestrator needs three capabilities: text generation (planning
// decisions and answer synthesis), query embedding, and a health probe.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for the given request
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Embed converts text into a query embedding
	Embed(ctx context.Context, text string) ([]float32, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one model call
type GenerateRequest struct {
	// System is the system prompt (role, citation rules, disclaimer)
	System string

	// Prompt is the user-turn content (question plus evidence context)
	Prompt string

	// MaxTokens limits the response length; 0 uses the provider default
	MaxTokens int
}

// GenerateResponse contains the model output
type GenerateResponse struct {
	// Text is the generated completion
	Text string

	// Model is the model that generated the response
	Model string

	// Usage tracks token consumption for this call
	Usage model.Usage
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "groq", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// EmbedModel is the embedding model name
	EmbedModel string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (Groq, Ollama, gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Model:      "gpt-4o-mini",
		EmbedModel: "text-embedding-3-small",
		Timeout:    30,
		MaxTokens:  800,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:   mc.Provider,
		Model:      mc.Model,
		EmbedModel: mc.EmbedModel,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Timeout:    mc.Timeout,
		MaxTokens:  mc.MaxTokens,
		HTTPProxy:  mc.HTTPProxy,
		HTTPSProxy: mc.HTTPSProxy,
		NoProxy:    mc.NoProxy,
	}
}
