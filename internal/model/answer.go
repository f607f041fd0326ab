package model

// Mode describes how well the answer is grounded in retrieved evidence
type Mode string

const (
	ModeGrounded    Mode = "grounded"     // Backed by local statutory text
	ModeWebAssisted Mode = "web-assisted" // Local evidence supplemented by web sources
	ModeUncertain   Mode = "uncertain"    // Little or no usable evidence
)

// Category is the coarse confidence label attached to an answer
type Category string

const (
	ConfidenceHigh      Category = "high"
	ConfidenceMedium    Category = "medium"
	ConfidenceLow       Category = "low"
	ConfidenceUncertain Category = "uncertain"
)

// weight orders categories for monotonicity comparisons
func (c Category) Weight() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Confidence is the scorer's output: a numeric score in [0,1] plus the
// category derived from it. Signals carry the transparent breakdown.
type Confidence struct {
	Score    float64  `json:"score"`
	Category Category `json:"category"`
	Signals  []Signal `json:"signals,omitempty"`
}

// Signal is one transparent component of the confidence computation
type Signal struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// Citation references one evidence item used in the answer text
type Citation struct {
	Index  int     `json:"index"` // Numbered marker [n] in the answer text
	Origin Origin  `json:"origin"`
	Ref    string  `json:"ref"`
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
}

// Usage tracks token consumption across all model calls for one query
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Answer is the final, immutable output of one orchestrator run
type Answer struct {
	QueryID    string     `json:"query_id"`
	Mode       Mode       `json:"mode"`
	Confidence Category   `json:"confidence"`
	Score      float64    `json:"confidence_score"`
	Text       string     `json:"answer"`
	Citations  []Citation `json:"citations"`
	Usage      Usage      `json:"usage"`
	Disclaimer string     `json:"disclaimer"`
}

// Disclaimer is appended to every answer regardless of mode
const Disclaimer = "This information is for educational purposes only and does not constitute legal advice."
