package index

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// Record pairs a statutory chunk with its embedding
type Record struct {
	Chunk  model.Chunk `json:"chunk"`
	Vector []float32   `json:"vector"`
}

// File is the on-disk index format written by `nyay index`
type File struct {
	EmbedModel string   `json:"embed_model"`
	Dim        int      `json:"dim"`
	BuiltAt    string   `json:"built_at"`
	Records    []Record `json:"records"`
}

// Match is one nearest-neighbor result
type Match struct {
	Chunk model.Chunk
	Score float64 // Cosine similarity in [0,1]
}

// snapshot is an immutable view of the loaded index. Readers pick up a
// snapshot pointer once per search; a reload swaps the pointer so in-flight
// searches keep seeing the pre-reload data.
type snapshot struct {
	records  []Record
	dim      int
	loadedAt time.Time
}

// Service serves nearest-neighbor search over the statutory corpus.
// Concurrent reads need no locking; Load/Reload is exclusive.
type Service struct {
	path     string
	minScore float64
	snap     atomic.Pointer[snapshot]
	loadMu   sync.Mutex
}

// NewService creates an index service for the given configuration.
// The index is not loaded until Load is called.
func NewService(cfg model.IndexConfig) *Service {
	return &Service{
		path:     cfg.Path,
		minScore: cfg.MinScore,
	}
}

// Load reads the index file and atomically swaps it in. Safe to call
// again for a hot reload; in-flight readers see the old snapshot until
// they finish.
func (s *Service) Load() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", model.ErrIndexUnavailable, s.path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: parse %s: %v", model.ErrIndexUnavailable, s.path, err)
	}

	for i := range f.Records {
		if f.Dim > 0 && len(f.Records[i].Vector) != f.Dim {
			return fmt.Errorf("%w: record %d has dimension %d, want %d",
				model.ErrIndexUnavailable, i, len(f.Records[i].Vector), f.Dim)
		}
		Normalize(f.Records[i].Vector)
	}

	s.snap.Store(&snapshot{
		records:  f.Records,
		dim:      f.Dim,
		loadedAt: time.Now().UTC(),
	})
	return nil
}

// Loaded reports whether an index snapshot is available
func (s *Service) Loaded() bool {
	return s.snap.Load() != nil
}

// Count returns the number of indexed chunks
func (s *Service) Count() int {
	snap := s.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.records)
}

// Search returns up to k chunks nearest to the query embedding, scores
// descending. Deterministic for a fixed snapshot and embedding: ties
// break on chunk id. Returns ErrIndexUnavailable when no snapshot is
// loaded.
func (s *Service) Search(queryVec []float32, k int) ([]Match, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, model.ErrIndexUnavailable
	}
	if k <= 0 || len(queryVec) == 0 {
		return nil, nil
	}
	if snap.dim > 0 && len(queryVec) != snap.dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d",
			model.ErrIndexUnavailable, len(queryVec), snap.dim)
	}

	q := make([]float32, len(queryVec))
	copy(q, queryVec)
	Normalize(q)

	matches := make([]Match, 0, len(snap.records))
	for _, rec := range snap.records {
		score := dot(q, rec.Vector)
		if score < 0 {
			score = 0
		}
		if float64(score) < s.minScore {
			continue
		}
		matches = append(matches, Match{Chunk: rec.Chunk, Score: float64(score)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Chunk.ID < matches[j].Chunk.ID
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// WriteFile writes an index file for the given records
func WriteFile(path string, embedModel string, dim int, records []Record) error {
	f := File{
		EmbedModel: embedModel,
		Dim:        dim,
		BuiltAt:    time.Now().UTC().Format(time.RFC3339),
		Records:    records,
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

// Normalize scales the vector to unit length in place
func Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}

func dot(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
