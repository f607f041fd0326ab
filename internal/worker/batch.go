package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vikas872/nyay-sathi-clean/internal/index"
	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// EmbedJob embeds a single statute chunk
type EmbedJob struct {
	Chunk    model.Chunk
	Embedder index.Embedder
}

// Execute executes the embed job
func (j *EmbedJob) Execute(ctx context.Context) Result {
	vec, err := j.Embedder.Embed(ctx, j.Chunk.Text)
	if err != nil {
		return &EmbedResult{
			Record: index.Record{Chunk: j.Chunk},
			Error:  fmt.Errorf("embed chunk %s: %w", j.Chunk.ID, err),
		}
	}
	return &EmbedResult{
		Record: index.Record{Chunk: j.Chunk, Vector: vec},
	}
}

// EmbedResult represents the result of an embed job
type EmbedResult struct {
	Record index.Record
	Error  error
}

// GetError returns the error from the embed result
func (r *EmbedResult) GetError() error {
	return r.Error
}

// BatchEmbedder embeds multiple chunks concurrently
type BatchEmbedder struct {
	embedder    index.Embedder
	concurrency int
}

// NewBatchEmbedder creates a new batch embedder
func NewBatchEmbedder(embedder index.Embedder, concurrency int) *BatchEmbedder {
	return &BatchEmbedder{
		embedder:    embedder,
		concurrency: concurrency,
	}
}

// EmbedChunks embeds multiple chunks concurrently
func (b *BatchEmbedder) EmbedChunks(ctx context.Context, chunks []model.Chunk) []*EmbedResult {
	if len(chunks) == 0 {
		return []*EmbedResult{}
	}

	pool := NewPoolContext(ctx, b.concurrency, len(chunks))
	pool.Start()

	for _, chunk := range chunks {
		pool.Submit(&EmbedJob{
			Chunk:    chunk,
			Embedder: b.embedder,
		})
	}

	results := pool.Wait()

	embedResults := make([]*EmbedResult, len(results))
	for i, result := range results {
		embedResults[i] = result.(*EmbedResult)
	}

	return embedResults
}

// EmbedFile reads chunks from a JSON file and embeds them concurrently
func (b *BatchEmbedder) EmbedFile(ctx context.Context, filePath string) ([]*EmbedResult, error) {
	chunks, err := ReadChunksFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read chunks: %w", err)
	}

	return b.EmbedChunks(ctx, chunks), nil
}

// ReadChunksFromFile reads statute chunks from a JSON array file
func ReadChunksFromFile(filePath string) ([]model.Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var chunks []model.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parse chunks: %w", err)
	}

	// Deduplicate by chunk ID, keeping first occurrence
	seen := make(map[string]bool)
	out := chunks[:0]
	for _, c := range chunks {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}

	return out, nil
}
