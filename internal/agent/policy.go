package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/vikas872/nyay-sathi-clean/internal/llm"
	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// Decision is the policy's choice for the next turn
type Decision struct {
	Action    model.Action
	Rationale string
}

// Policy decides, given the current agent state, which action the
// orchestrator takes next. Implementations must be deterministic with
// respect to the state they are shown, or degrade to the rule policy
// when they cannot be.
type Policy interface {
	Decide(ctx context.Context, state *model.AgentState) Decision
}

// RulePolicy is the deterministic baseline policy. It needs no model:
// local search first, finalize on high confidence, otherwise one web
// attempt before finalizing with whatever evidence exists.
type RulePolicy struct {
	WebEnabled bool
	// AlwaysWeb forces a web attempt even when local confidence is
	// high. Default behavior tries web once only below high.
	AlwaysWeb bool
}

// NewRulePolicy builds the baseline policy from agent and web config
func NewRulePolicy(agentCfg model.AgentConfig, webCfg model.WebConfig) *RulePolicy {
	return &RulePolicy{
		WebEnabled: webCfg.Enabled,
		AlwaysWeb:  agentCfg.AlwaysWeb,
	}
}

func (p *RulePolicy) Decide(ctx context.Context, state *model.AgentState) Decision {
	if !state.LocalTried {
		return Decision{
			Action:    model.ActionSearchLocal,
			Rationale: "statutory corpus not yet consulted",
		}
	}

	high := state.Confidence.Category == model.ConfidenceHigh
	if high && !p.AlwaysWeb {
		return Decision{
			Action:    model.ActionFinalize,
			Rationale: "local evidence is sufficient",
		}
	}

	if p.WebEnabled && !state.WebTried {
		return Decision{
			Action:    model.ActionSearchWeb,
			Rationale: "local confidence below high, trying trusted web sources once",
		}
	}

	return Decision{
		Action:    model.ActionFinalize,
		Rationale: "no further tools available",
	}
}

const plannerSystem = `You are the planning module of Nyay Sathi, an Indian legal assistant.
Given the state of an ongoing retrieval, choose the single next action.

Actions:
- "search_local": query the statutory database. Use first if not yet tried.
- "search_web": query trusted government websites. Use at most once, when local evidence is weak.
- "finalize": stop retrieving and compose the answer from current evidence.

Respond with JSON only: {"action": "...", "rationale": "..."}`

// LLMPolicy asks the model which action to take next. Any failure or
// malformed reply degrades to the rule policy so planning never stalls
// on model availability.
type LLMPolicy struct {
	provider llm.Provider
	fallback *RulePolicy
}

// NewLLMPolicy wraps a provider with the rule policy as a safety net
func NewLLMPolicy(provider llm.Provider, fallback *RulePolicy) *LLMPolicy {
	return &LLMPolicy{provider: provider, fallback: fallback}
}

func (p *LLMPolicy) Decide(ctx context.Context, state *model.AgentState) Decision {
	if p.provider == nil {
		return p.fallback.Decide(ctx, state)
	}

	resp, err := p.provider.Generate(ctx, llm.GenerateRequest{
		System:    plannerSystem,
		Prompt:    describeState(state),
		MaxTokens: 120,
	})
	if err != nil {
		log.Printf("planner model unavailable, using rule policy: %v", err)
		return p.fallback.Decide(ctx, state)
	}

	decision, err := parseDecision(resp.Text)
	if err != nil {
		log.Printf("planner reply unusable, using rule policy: %v", err)
		return p.fallback.Decide(ctx, state)
	}

	// The model may not repeat a tool or invent actions; clamp to the
	// same contract the rule policy honors.
	switch decision.Action {
	case model.ActionSearchLocal:
		if state.LocalTried {
			return p.fallback.Decide(ctx, state)
		}
	case model.ActionSearchWeb:
		if state.WebTried || !p.fallback.WebEnabled {
			return p.fallback.Decide(ctx, state)
		}
	case model.ActionFinalize:
	default:
		return p.fallback.Decide(ctx, state)
	}

	return decision
}

func describeState(state *model.AgentState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", state.Query.Normalized)
	fmt.Fprintf(&b, "Turns taken: %d\n", len(state.Turns))
	fmt.Fprintf(&b, "Local search tried: %v\n", state.LocalTried)
	fmt.Fprintf(&b, "Web search tried: %v\n", state.WebTried)
	fmt.Fprintf(&b, "Evidence items: %d\n", len(state.Evidence))
	fmt.Fprintf(&b, "Confidence: %s (%.2f)\n", state.Confidence.Category, state.Confidence.Score)
	return b.String()
}

func parseDecision(text string) (Decision, error) {
	// Models often wrap JSON in prose or fences; cut to the outermost
	// object before decoding.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Decision{}, fmt.Errorf("no JSON object in planner reply")
	}

	var raw struct {
		Action    string `json:"action"`
		Rationale string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return Decision{}, fmt.Errorf("decode planner reply: %w", err)
	}

	return Decision{
		Action:    model.Action(raw.Action),
		Rationale: raw.Rationale,
	}, nil
}
