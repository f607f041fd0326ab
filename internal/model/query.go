package model

import (
	"strings"

	"github.com/google/uuid"
)

// Query is the immutable input for one orchestrator run
type Query struct {
	ID         string `json:"id"`         // Unique request id
	Raw        string `json:"raw"`        // Text exactly as received
	Normalized string `json:"normalized"` // Whitespace-collapsed, trimmed
}

// NewQuery creates a Query with a fresh request id
func NewQuery(raw string) Query {
	return Query{
		ID:         uuid.NewString(),
		Raw:        raw,
		Normalized: NormalizeQuestion(raw),
	}
}

// NormalizeQuestion collapses whitespace and trims the question text
func NormalizeQuestion(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Chunk is a unit of statutory text stored for similarity search.
// Chunks are owned by the index; evidence references them by id.
type Chunk struct {
	ID       string `json:"id"`
	ActName  string `json:"act_name"`
	Section  string `json:"section_number"`
	Text     string `json:"text"`
	SourceID string `json:"source_id,omitempty"`
}
