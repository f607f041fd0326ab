package model

// Origin classifies where a piece of evidence came from
type Origin string

const (
	OriginLocal Origin = "local" // Statutory chunk from the vector index
	OriginWeb   Origin = "web"   // Snippet from a whitelisted website
)

// EvidenceItem is one candidate piece of support for an answer.
// Items are immutable after creation; the aggregator replaces rather
// than edits them. Raw scores are comparable only within the same
// origin - cross-origin ordering uses Rank.
type EvidenceItem struct {
	Origin Origin  `json:"origin"`
	Ref    string  `json:"ref"`   // Chunk id (local) or URL (web)
	Score  float64 `json:"score"` // Raw score, higher = more relevant
	Rank   float64 `json:"rank"`  // Normalized cross-origin rank, set by the aggregator
	Seq    int     `json:"-"`     // Insertion sequence, set by the aggregator
	Text   string  `json:"text"`  // Display text / snippet

	// Citation metadata
	ActName string `json:"act_name,omitempty"` // Local items
	Section string `json:"section,omitempty"`  // Local items
	Title   string `json:"title,omitempty"`    // Web items
	Domain  string `json:"domain,omitempty"`   // Web items
}

// Key is the (origin, reference) identity used for deduplication
func (e EvidenceItem) Key() string {
	return string(e.Origin) + "\x00" + e.Ref
}

// Label renders the human-readable citation label for the item
func (e EvidenceItem) Label() string {
	if e.Origin == OriginLocal {
		if e.Section != "" {
			return "Section " + e.Section + " - " + e.ActName
		}
		return e.ActName
	}
	if e.Title != "" {
		return e.Title + " (" + e.Domain + ")"
	}
	return e.Ref
}
