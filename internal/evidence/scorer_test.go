package evidence

import (
	"testing"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

func testThresholds() model.ConfidenceConfig {
	return model.ConfidenceConfig{
		HighBar:      0.60,
		SupportBar:   0.50,
		LowBar:       0.30,
		MinSupport:   2,
		WebStrongMin: 2,
	}
}

func TestScorer_High(t *testing.T) {
	scorer := NewScorer(testThresholds())

	conf := scorer.Score([]model.EvidenceItem{
		localItem("ipc-379-0", 0.89),
		localItem("ipc-378-0", 0.61),
	})

	if conf.Category != model.ConfidenceHigh {
		t.Errorf("expected high, got %s (score %.2f)", conf.Category, conf.Score)
	}
	if len(conf.Signals) != 3 {
		t.Errorf("expected 3 signals, got %d", len(conf.Signals))
	}
}

func TestScorer_MediumSingleLocalMatch(t *testing.T) {
	scorer := NewScorer(testThresholds())

	// One strong match but no second supporting chunk
	conf := scorer.Score([]model.EvidenceItem{localItem("ipc-379-0", 0.89)})

	if conf.Category != model.ConfidenceMedium {
		t.Errorf("expected medium, got %s", conf.Category)
	}
}

func TestScorer_MediumWebCorroborationAlone(t *testing.T) {
	scorer := NewScorer(testThresholds())

	conf := scorer.Score([]model.EvidenceItem{
		webItem("https://indiacode.nic.in/a", 0.9),
		webItem("https://prsindia.org/b", 0.8),
	})

	if conf.Category != model.ConfidenceMedium {
		t.Errorf("expected medium from strong web corroboration, got %s", conf.Category)
	}
}

func TestScorer_Low(t *testing.T) {
	scorer := NewScorer(testThresholds())

	conf := scorer.Score([]model.EvidenceItem{
		localItem("ipc-379-0", 0.2),
		webItem("https://indiacode.nic.in/a", 0.9),
	})

	if conf.Category != model.ConfidenceLow {
		t.Errorf("expected low, got %s", conf.Category)
	}
}

func TestScorer_UncertainOnEmpty(t *testing.T) {
	scorer := NewScorer(testThresholds())

	conf := scorer.Score(nil)

	if conf.Category != model.ConfidenceUncertain {
		t.Errorf("expected uncertain, got %s", conf.Category)
	}
	if conf.Score != 0 {
		t.Errorf("expected zero score, got %.2f", conf.Score)
	}
}

// Growing the local evidence while holding web evidence fixed must never
// lower the numeric score or the category.
func TestScorer_Monotonic(t *testing.T) {
	scorer := NewScorer(testThresholds())

	web := []model.EvidenceItem{webItem("https://indiacode.nic.in/a", 0.9)}

	sets := [][]model.EvidenceItem{
		web,
		append([]model.EvidenceItem{localItem("a", 0.35)}, web...),
		append([]model.EvidenceItem{localItem("a", 0.55)}, web...),
		append([]model.EvidenceItem{localItem("a", 0.55), localItem("b", 0.52)}, web...),
		append([]model.EvidenceItem{localItem("a", 0.89), localItem("b", 0.70)}, web...),
	}

	prev := scorer.Score(sets[0])
	for i := 1; i < len(sets); i++ {
		cur := scorer.Score(sets[i])
		if cur.Score < prev.Score {
			t.Errorf("set %d: numeric score decreased %.3f -> %.3f", i, prev.Score, cur.Score)
		}
		if cur.Category.Weight() < prev.Category.Weight() {
			t.Errorf("set %d: category decreased %s -> %s", i, prev.Category, cur.Category)
		}
		prev = cur
	}
}
