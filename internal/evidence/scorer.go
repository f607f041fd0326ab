package evidence

import (
	"fmt"
	"math"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// Scorer computes a confidence score and category from evidence
// composition. It is a pure function of the evidence set: more or
// better local matches never lower the result while web evidence is
// held fixed.
type Scorer struct {
	cfg model.ConfidenceConfig
}

// NewScorer creates a scorer with the given thresholds
func NewScorer(cfg model.ConfidenceConfig) *Scorer {
	if cfg.MinSupport <= 0 {
		cfg.MinSupport = 2
	}
	if cfg.WebStrongMin <= 0 {
		cfg.WebStrongMin = 2
	}
	return &Scorer{cfg: cfg}
}

// Score calculates the confidence for an evidence set and generates
// diagnostic signals explaining the result.
func (s *Scorer) Score(evidence []model.EvidenceItem) model.Confidence {
	var signals []model.Signal

	topLocal, topSignal := s.topLocalSimilarity(evidence)
	signals = append(signals, topSignal)

	support, supportSignal := s.localSupport(evidence)
	signals = append(signals, supportSignal)

	webCount, webSignal := s.webCorroboration(evidence)
	signals = append(signals, webSignal)

	// Weighted combination. Top similarity dominates; support count and
	// web corroboration saturate at their configured targets so extra
	// items beyond them neither help nor hurt.
	numeric := 0.7*topLocal +
		0.2*math.Min(float64(support)/float64(s.cfg.MinSupport), 1) +
		0.1*math.Min(float64(webCount)/float64(s.cfg.WebStrongMin), 1)

	category := s.categorize(topLocal, support, webCount, len(evidence))

	return model.Confidence{
		Score:    numeric,
		Category: category,
		Signals:  signals,
	}
}

func (s *Scorer) categorize(topLocal float64, support, webCount, total int) model.Category {
	switch {
	case topLocal >= s.cfg.HighBar && support >= s.cfg.MinSupport:
		return model.ConfidenceHigh
	case topLocal >= s.cfg.LowBar || webCount >= s.cfg.WebStrongMin:
		return model.ConfidenceMedium
	case total > 0:
		return model.ConfidenceLow
	default:
		return model.ConfidenceUncertain
	}
}

// topLocalSimilarity returns the best raw local similarity
func (s *Scorer) topLocalSimilarity(evidence []model.EvidenceItem) (float64, model.Signal) {
	top := 0.0
	for _, item := range evidence {
		if item.Origin == model.OriginLocal && item.Score > top {
			top = item.Score
		}
	}

	return top, model.Signal{
		Name:        "top_local_similarity",
		Description: fmt.Sprintf("Best statutory match similarity: %.2f", top),
		Data: map[string]any{
			"similarity": top,
			"high_bar":   s.cfg.HighBar,
		},
	}
}

// localSupport counts independent local matches above the support bar
func (s *Scorer) localSupport(evidence []model.EvidenceItem) (int, model.Signal) {
	count := 0
	for _, item := range evidence {
		if item.Origin == model.OriginLocal && item.Score >= s.cfg.SupportBar {
			count++
		}
	}

	return count, model.Signal{
		Name:        "local_support",
		Description: fmt.Sprintf("%d statutory chunks above support bar %.2f", count, s.cfg.SupportBar),
		Data: map[string]any{
			"count":       count,
			"support_bar": s.cfg.SupportBar,
			"min_support": s.cfg.MinSupport,
		},
	}
}

// webCorroboration counts web evidence items
func (s *Scorer) webCorroboration(evidence []model.EvidenceItem) (int, model.Signal) {
	count := 0
	for _, item := range evidence {
		if item.Origin == model.OriginWeb {
			count++
		}
	}

	return count, model.Signal{
		Name:        "web_corroboration",
		Description: fmt.Sprintf("%d corroborating web sources", count),
		Data: map[string]any{
			"count":          count,
			"web_strong_min": s.cfg.WebStrongMin,
		},
	}
}
