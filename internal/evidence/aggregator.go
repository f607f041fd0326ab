package evidence

import (
	"sort"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// Aggregator merges local and web evidence into one ranked, capped set.
// Raw scores never compare across origins; Merge assigns every item a
// normalized Rank and orders the set by it.
type Aggregator struct {
	cap         int
	webDiscount float64
}

// NewAggregator creates an aggregator from evidence configuration
func NewAggregator(cfg model.EvidenceConfig) *Aggregator {
	capSize := cfg.Cap
	if capSize <= 0 {
		capSize = 12
	}
	discount := cfg.WebDiscount
	if discount <= 0 || discount > 1 {
		discount = 0.25
	}
	return &Aggregator{
		cap:         capSize,
		webDiscount: discount,
	}
}

// Merge combines incoming items into the existing set. Duplicates by
// (origin, reference) keep the higher-scored item. The result is ordered
// by Rank descending and capped; eviction is strict lowest-rank-first,
// ties broken by keeping the most recently added item. Re-merging an
// item already present is a no-op.
func (a *Aggregator) Merge(existing, incoming []model.EvidenceItem) []model.EvidenceItem {
	byKey := make(map[string]model.EvidenceItem, len(existing)+len(incoming))
	nextSeq := 0
	for _, item := range existing {
		byKey[item.Key()] = item
		if item.Seq >= nextSeq {
			nextSeq = item.Seq + 1
		}
	}

	for _, item := range incoming {
		item.Rank = a.rank(item)
		prev, ok := byKey[item.Key()]
		if ok && prev.Score >= item.Score {
			continue
		}
		item.Seq = nextSeq
		nextSeq++
		byKey[item.Key()] = item
	}

	merged := make([]model.EvidenceItem, 0, len(byKey))
	for _, item := range byKey {
		merged = append(merged, item)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Rank != merged[j].Rank {
			return merged[i].Rank > merged[j].Rank
		}
		return merged[i].Seq > merged[j].Seq
	})

	if len(merged) > a.cap {
		merged = merged[:a.cap]
	}

	return merged
}

// rank maps a raw per-origin score onto the shared ranking scale. Local
// similarity passes through; web results carry a fixed discount because
// they are commentary, not primary statutory text.
func (a *Aggregator) rank(item model.EvidenceItem) float64 {
	if item.Origin == model.OriginWeb {
		return a.webDiscount * item.Score
	}
	return item.Score
}
