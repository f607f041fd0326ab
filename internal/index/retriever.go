package index

import (
	"context"
	"fmt"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// Embedder converts query text into an embedding
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever glues the embedder and the index service into the text-in,
// evidence-out operation the planner consumes.
type Retriever struct {
	embedder Embedder
	service  *Service
	topK     int
}

// NewRetriever creates a retriever over the given index service
func NewRetriever(embedder Embedder, service *Service, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		embedder: embedder,
		service:  service,
		topK:     topK,
	}
}

// Search embeds the query and returns local evidence candidates.
// An embedding failure is reported as ErrIndexUnavailable: without a
// query vector the local corpus is effectively unreadable.
func (r *Retriever) Search(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", model.ErrIndexUnavailable, err)
	}

	matches, err := r.service.Search(vec, r.topK)
	if err != nil {
		return nil, err
	}

	items := make([]model.EvidenceItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, Evidence(m))
	}
	return items, nil
}

// Evidence converts a match into an evidence item
func Evidence(m Match) model.EvidenceItem {
	return model.EvidenceItem{
		Origin:  model.OriginLocal,
		Ref:     m.Chunk.ID,
		Score:   m.Score,
		Text:    m.Chunk.Text,
		ActName: m.Chunk.ActName,
		Section: m.Chunk.Section,
	}
}
