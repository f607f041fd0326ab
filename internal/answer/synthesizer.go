package answer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vikas872/nyay-sathi-clean/internal/llm"
	"github.com/vikas872/nyay-sathi-clean/internal/model"
	"github.com/vikas872/nyay-sathi-clean/internal/sanitize"
)

const systemGrounded = `You are Nyay Sathi, a helpful Indian legal assistant.

You have been given legal text from Indian laws. Use ONLY this information to answer.

RULES:
1. Use numbered citations like [1], [2] when referencing sources.
2. Mention the Act Name and Section when citing.
3. Explain in simple English a layperson can understand.
4. If the sources don't answer the question, say so.
5. Do NOT invent information not in the sources.
6. Keep your answer concise and focused.`

const systemWebAssisted = `You are Nyay Sathi, a helpful Indian legal assistant.

You have legal text from a database AND verified web sources. Synthesize both.

RULES:
1. Use numbered citations like [1], [2] when referencing sources.
2. Prioritize official legal text over web sources.
3. Mention source names (Act, Section, or website).
4. Explain in simple English.
5. Keep your answer concise.`

const systemUncertain = `You are Nyay Sathi, a helpful Indian legal assistant.

No specific legal section matched this query. Be honest about limitations.

RULES:
1. Acknowledge you don't have specific legal text for this.
2. Do NOT cite specific Acts or Sections.
3. Give only general educational information.
4. Suggest rephrasing the question.
5. Keep it brief.`

var citationRe = regexp.MustCompile(`\[(\d+)\]`)

// Synthesizer turns a final evidence set into a grounded answer. When
// no model is configured, or when the model fails twice, it produces a
// deterministic extractive answer from the top evidence snippets so
// the query still gets a response.
type Synthesizer struct {
	provider llm.Provider
	cfg      model.SynthesisConfig
}

// NewSynthesizer creates a synthesizer. A nil provider means every
// answer takes the extractive path.
func NewSynthesizer(provider llm.Provider, cfg model.SynthesisConfig) *Synthesizer {
	if cfg.MaxContextItems <= 0 {
		cfg.MaxContextItems = 6
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = 4800
	}
	return &Synthesizer{provider: provider, cfg: cfg}
}

// Synthesize builds the final answer for a query. Evidence must
// already be ranked best-first; context truncation drops the
// lowest-ranked items.
func (s *Synthesizer) Synthesize(ctx context.Context, query model.Query, evidence []model.EvidenceItem, conf model.Confidence) *model.Answer {
	mode := DetermineMode(evidence, conf.Category)
	contextItems := s.boundContext(evidence, s.cfg.MaxContextItems)

	ans := &model.Answer{
		QueryID:    query.ID,
		Mode:       mode,
		Confidence: conf.Category,
		Score:      conf.Score,
		Disclaimer: model.Disclaimer,
	}

	if s.provider == nil {
		ans.Text, ans.Citations = s.extractive(mode, contextItems)
		return ans
	}

	req := llm.GenerateRequest{
		System: systemPrompt(mode),
		Prompt: buildPrompt(query.Normalized, contextItems),
	}

	resp, err := s.provider.Generate(ctx, req)
	if resp != nil {
		ans.Usage.PromptTokens += resp.Usage.PromptTokens
		ans.Usage.CompletionTokens += resp.Usage.CompletionTokens
	}
	if err != nil {
		// Retry once with a shortened context before giving up on
		// generation entirely.
		shortened := s.boundContext(evidence, (s.cfg.MaxContextItems+1)/2)
		req.Prompt = buildPrompt(query.Normalized, shortened)
		resp, err = s.provider.Generate(ctx, req)
		if resp != nil {
			ans.Usage.PromptTokens += resp.Usage.PromptTokens
			ans.Usage.CompletionTokens += resp.Usage.CompletionTokens
		}
		if err != nil {
			ans.Text, ans.Citations = s.extractive(mode, contextItems)
			return ans
		}
		contextItems = shortened
	}

	text, citations := postProcess(resp.Text, contextItems)
	ans.Text = text
	ans.Citations = citations
	return ans
}

// DetermineMode maps evidence composition and confidence category to
// the answer mode reported to the caller.
func DetermineMode(evidence []model.EvidenceItem, category model.Category) model.Mode {
	if len(evidence) == 0 || category == model.ConfidenceUncertain {
		return model.ModeUncertain
	}

	hasWeb := false
	hasLocal := false
	for _, item := range evidence {
		switch item.Origin {
		case model.OriginWeb:
			hasWeb = true
		case model.OriginLocal:
			hasLocal = true
		}
	}

	switch {
	case hasWeb:
		return model.ModeWebAssisted
	case hasLocal && category != model.ConfidenceLow:
		return model.ModeGrounded
	default:
		return model.ModeUncertain
	}
}

func systemPrompt(mode model.Mode) string {
	switch mode {
	case model.ModeGrounded:
		return systemGrounded
	case model.ModeWebAssisted:
		return systemWebAssisted
	default:
		return systemUncertain
	}
}

// boundContext takes the best-ranked items up to maxItems and the
// configured character budget.
func (s *Synthesizer) boundContext(evidence []model.EvidenceItem, maxItems int) []model.EvidenceItem {
	if len(evidence) > maxItems {
		evidence = evidence[:maxItems]
	}

	var out []model.EvidenceItem
	chars := 0
	for _, item := range evidence {
		chars += len(item.Text)
		if chars > s.cfg.MaxContextChars && len(out) > 0 {
			break
		}
		out = append(out, item)
	}
	return out
}

func buildPrompt(question string, items []model.EvidenceItem) string {
	var b strings.Builder
	b.WriteString("USER QUESTION:\n")
	b.WriteString(question)
	b.WriteString("\n\nAVAILABLE INFORMATION:\n")

	if len(items) == 0 {
		b.WriteString("(No relevant sources found)")
		return b.String()
	}

	b.WriteString("SOURCES:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "[%d] %s\n    %s\n", i+1, item.Label(), item.Text)
	}
	return b.String()
}

// postProcess validates citation markers in the generated text against
// the context. Markers with no backing evidence are stripped, never
// fabricated in. The returned citations are deduplicated and ordered
// highest-score first within each origin's rank order.
func postProcess(text string, items []model.EvidenceItem) (string, []model.Citation) {
	cited := make(map[int]bool)

	clean := citationRe.ReplaceAllStringFunc(text, func(marker string) string {
		n, err := strconv.Atoi(strings.Trim(marker, "[]"))
		if err != nil || n < 1 || n > len(items) {
			return "" // orphan citation
		}
		cited[n] = true
		return marker
	})
	clean = strings.TrimSpace(clean)

	var citations []model.Citation
	for i, item := range items {
		if !cited[i+1] {
			continue
		}
		citations = append(citations, model.Citation{
			Index:  i + 1,
			Origin: item.Origin,
			Ref:    item.Ref,
			Label:  item.Label(),
			Score:  item.Score,
		})
	}

	// A generated answer that cites nothing still reports its sources
	if len(citations) == 0 {
		citations = citationList(items)
	}
	return clean, citations
}

// extractive builds the deterministic fallback answer directly from
// the top evidence snippets.
func (s *Synthesizer) extractive(mode model.Mode, items []model.EvidenceItem) (string, []model.Citation) {
	if len(items) == 0 {
		return "No grounded information was found for this question. " +
			"Try rephrasing it, or mention the Act or Section you are asking about.", nil
	}

	var b strings.Builder
	if mode == model.ModeUncertain {
		b.WriteString("The following material may be related to your question, but no strong match was found:\n\n")
	} else {
		b.WriteString("Based on the retrieved legal sources:\n\n")
	}
	for i, item := range items {
		text := item.Text
		if len(text) > 400 {
			text = sanitize.Truncate(text, 400) + "..."
		}
		fmt.Fprintf(&b, "[%d] %s: %s\n\n", i+1, item.Label(), text)
	}

	return strings.TrimSpace(b.String()), citationList(items)
}

func citationList(items []model.EvidenceItem) []model.Citation {
	citations := make([]model.Citation, 0, len(items))
	for i, item := range items {
		citations = append(citations, model.Citation{
			Index:  i + 1,
			Origin: item.Origin,
			Ref:    item.Ref,
			Label:  item.Label(),
			Score:  item.Score,
		})
	}
	return citations
}
