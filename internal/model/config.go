package model

import "time"

// Config is the full service configuration. Values are resolved by the
// CLI layer with flag > env (NYAY_*) > config file > defaults priority.
type Config struct {
	Index      IndexConfig      `yaml:"index"`
	LLM        LLMConfig        `yaml:"llm"`
	Web        WebConfig        `yaml:"web"`
	Evidence   EvidenceConfig   `yaml:"evidence"`
	Confidence ConfidenceConfig `yaml:"confidence"`
	Agent      AgentConfig      `yaml:"agent"`
	Synthesis  SynthesisConfig  `yaml:"synthesis"`
	Server     ServerConfig     `yaml:"server"`
	Cache      CacheConfig      `yaml:"cache"`
}

// IndexConfig configures the local vector index
type IndexConfig struct {
	Path     string  `yaml:"path"`      // Index file written by `nyay index`
	TopK     int     `yaml:"top_k"`     // Neighbors returned per search
	MinScore float64 `yaml:"min_score"` // Floor below which matches are dropped
}

// LLMConfig configures the language model used for planning, synthesis
// and query embedding
type LLMConfig struct {
	Provider    string `yaml:"provider"`     // "openai" (and compatible endpoints) or "ollama"
	Model       string `yaml:"model"`
	EmbedModel  string `yaml:"embed_model"`
	APIKey      string `yaml:"api_key,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"` // Custom endpoint (Groq, Ollama, gateways)
	Timeout     int    `yaml:"timeout"`            // Seconds per call
	MaxTokens   int    `yaml:"max_tokens"`
	PlanWithLLM bool   `yaml:"plan_with_llm"` // Model-backed planning policy instead of the rule policy

	// Proxy settings for outbound API calls
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// WebConfig configures the restricted web search tool
type WebConfig struct {
	Enabled       bool          `yaml:"enabled"`
	MaxResults    int           `yaml:"max_results"`
	Timeout       time.Duration `yaml:"timeout"` // Hard per-call deadline
	UserAgent     string        `yaml:"user_agent"`
	Whitelist     []string      `yaml:"whitelist"`    // Exact hosts always allowed
	SuffixAllow   []string      `yaml:"suffix_allow"` // Host suffixes (e.g. gov.in) always allowed
	RatePerSec    float64       `yaml:"rate_per_sec"` // Per-domain outbound request rate
	RateBurst     int           `yaml:"rate_burst"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// EvidenceConfig configures aggregation and eviction
type EvidenceConfig struct {
	Cap         int     `yaml:"cap"`          // Maximum merged evidence set size
	WebDiscount float64 `yaml:"web_discount"` // Fixed discount applied to web ranks
}

// ConfidenceConfig holds the tunable scoring thresholds.
// Defaults follow the original deployment: a 0.60 similarity bar for
// grounded answers and a 0.30 floor for weak matches.
type ConfidenceConfig struct {
	HighBar      float64 `yaml:"high_bar"`      // Top local similarity needed for "high"
	SupportBar   float64 `yaml:"support_bar"`   // Similarity counting as an independent supporting chunk
	LowBar       float64 `yaml:"low_bar"`       // Minimum similarity for a usable local match
	MinSupport   int     `yaml:"min_support"`   // Supporting chunks needed for "high"
	WebStrongMin int     `yaml:"web_strong_min"` // Web items counting as strong corroboration
}

// AgentConfig bounds the planner loop
type AgentConfig struct {
	MaxTurns  int  `yaml:"max_turns"`  // Tool invocations before forced finalize
	AlwaysWeb bool `yaml:"always_web"` // Force a web attempt even when local confidence is high
}

// SynthesisConfig bounds the generation context
type SynthesisConfig struct {
	MaxContextItems int `yaml:"max_context_items"`
	MaxContextChars int `yaml:"max_context_chars"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	APIKeys       []string `yaml:"api_keys,omitempty"` // Bearer tokens; empty disables auth
	RatePerMinute int      `yaml:"rate_per_minute"`    // Per-client request rate
	CORSOrigins   []string `yaml:"cors_origins"`
}

// CacheConfig configures the web result cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		Index: IndexConfig{
			Path:     "data/index.json",
			TopK:     5,
			MinScore: 0.05,
		},
		LLM: LLMConfig{
			Provider:   "openai",
			Model:      "gpt-4o-mini",
			EmbedModel: "text-embedding-3-small",
			Timeout:    30,
			MaxTokens:  800,
		},
		Web: WebConfig{
			Enabled:    true,
			MaxResults: 3,
			Timeout:    10 * time.Second,
			UserAgent:  "NyaySathi/1.0 (+https://github.com/vikas872/nyay-sathi-clean)",
			Whitelist: []string{
				"indiacode.nic.in",
				"legislative.gov.in",
				"lawmin.gov.in",
				"india.gov.in",
				"doj.gov.in",
				"main.sci.gov.in",
				"indiankanoon.org",
				"prsindia.org",
			},
			SuffixAllow:   []string{"gov.in", "nic.in"},
			RatePerSec:    1.0,
			RateBurst:     2,
			RespectRobots: true,
		},
		Evidence: EvidenceConfig{
			Cap:         12,
			WebDiscount: 0.25,
		},
		Confidence: ConfidenceConfig{
			HighBar:      0.60,
			SupportBar:   0.50,
			LowBar:       0.30,
			MinSupport:   2,
			WebStrongMin: 2,
		},
		Agent: AgentConfig{
			MaxTurns:  5,
			AlwaysWeb: false,
		},
		Synthesis: SynthesisConfig{
			MaxContextItems: 6,
			MaxContextChars: 4800,
		},
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          10000,
			RatePerMinute: 60,
			CORSOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
	}
}
