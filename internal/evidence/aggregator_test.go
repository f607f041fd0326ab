package evidence

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

func newTestAggregator(capSize int) *Aggregator {
	return NewAggregator(model.EvidenceConfig{Cap: capSize, WebDiscount: 0.25})
}

func localItem(ref string, score float64) model.EvidenceItem {
	return model.EvidenceItem{
		Origin:  model.OriginLocal,
		Ref:     ref,
		Score:   score,
		Text:    "statutory text for " + ref,
		ActName: "Indian Penal Code",
		Section: "379",
	}
}

func webItem(ref string, score float64) model.EvidenceItem {
	return model.EvidenceItem{
		Origin: model.OriginWeb,
		Ref:    ref,
		Score:  score,
		Text:   "snippet from " + ref,
		Title:  "India Code",
		Domain: "indiacode.nic.in",
	}
}

func TestAggregator_Merge(t *testing.T) {
	agg := newTestAggregator(12)

	merged := agg.Merge(nil, []model.EvidenceItem{
		localItem("ipc-379-0", 0.85),
		localItem("ipc-378-0", 0.70),
		webItem("https://indiacode.nic.in/theft", 0.9),
	})

	if len(merged) != 3 {
		t.Fatalf("expected 3 items, got %d", len(merged))
	}

	// Local items rank by raw similarity; web carries the discount
	if merged[0].Ref != "ipc-379-0" || merged[1].Ref != "ipc-378-0" {
		t.Errorf("unexpected order: %s, %s", merged[0].Ref, merged[1].Ref)
	}
	if merged[2].Origin != model.OriginWeb {
		t.Errorf("expected discounted web item last, got %s", merged[2].Ref)
	}
	if got := merged[2].Rank; got != 0.25*0.9 {
		t.Errorf("expected web rank %.4f, got %.4f", 0.25*0.9, got)
	}
}

func TestAggregator_DedupKeepsHigherScore(t *testing.T) {
	agg := newTestAggregator(12)

	merged := agg.Merge(nil, []model.EvidenceItem{localItem("ipc-379-0", 0.60)})
	merged = agg.Merge(merged, []model.EvidenceItem{localItem("ipc-379-0", 0.85)})

	if len(merged) != 1 {
		t.Fatalf("expected 1 item after dedup, got %d", len(merged))
	}
	if merged[0].Score != 0.85 {
		t.Errorf("expected higher score kept, got %.2f", merged[0].Score)
	}

	// Lower-scored duplicate never displaces the kept item
	merged = agg.Merge(merged, []model.EvidenceItem{localItem("ipc-379-0", 0.40)})
	if merged[0].Score != 0.85 {
		t.Errorf("expected score 0.85 retained, got %.2f", merged[0].Score)
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	agg := newTestAggregator(12)

	base := agg.Merge(nil, []model.EvidenceItem{
		localItem("ipc-379-0", 0.85),
		webItem("https://indiacode.nic.in/theft", 0.9),
	})

	x := localItem("ipc-378-0", 0.70)
	once := agg.Merge(base, []model.EvidenceItem{x})
	twice := agg.Merge(once, []model.EvidenceItem{x})

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestAggregator_CapEvictsLowestRank(t *testing.T) {
	agg := newTestAggregator(3)

	var items []model.EvidenceItem
	for i := 0; i < 5; i++ {
		items = append(items, localItem(fmt.Sprintf("chunk-%d", i), 0.9-float64(i)*0.1))
	}

	merged := agg.Merge(nil, items)

	if len(merged) != 3 {
		t.Fatalf("expected retained set size to equal cap 3, got %d", len(merged))
	}
	for _, item := range merged {
		if item.Ref == "chunk-3" || item.Ref == "chunk-4" {
			t.Errorf("lowest-ranked item %s survived eviction", item.Ref)
		}
	}
}

func TestAggregator_CapTieKeepsNewer(t *testing.T) {
	agg := newTestAggregator(2)

	merged := agg.Merge(nil, []model.EvidenceItem{localItem("old-a", 0.5)})
	merged = agg.Merge(merged, []model.EvidenceItem{
		localItem("old-b", 0.5),
		localItem("new-c", 0.5),
	})

	if len(merged) != 2 {
		t.Fatalf("expected 2 items, got %d", len(merged))
	}
	for _, item := range merged {
		if item.Ref == "old-a" {
			t.Errorf("tie eviction should drop the oldest item, kept %s", item.Ref)
		}
	}
}

func TestAggregator_MergeEmpty(t *testing.T) {
	agg := newTestAggregator(12)

	existing := agg.Merge(nil, []model.EvidenceItem{localItem("ipc-379-0", 0.85)})
	merged := agg.Merge(existing, nil)

	if !reflect.DeepEqual(existing, merged) {
		t.Errorf("merging nothing changed the set")
	}
}
