package agent

import (
	"context"
	"log"
	"strings"

	"github.com/vikas872/nyay-sathi-clean/internal/answer"
	"github.com/vikas872/nyay-sathi-clean/internal/evidence"
	"github.com/vikas872/nyay-sathi-clean/internal/model"
	"github.com/vikas872/nyay-sathi-clean/internal/stream"
)

// Searcher is the text-in, evidence-out contract both retrieval tools
// satisfy.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.EvidenceItem, error)
}

// Orchestrator runs the bounded retrieval loop for one query at a
// time. It owns no shared mutable state: every Ask builds a fresh
// AgentState, so concurrent queries never interfere.
type Orchestrator struct {
	local       Searcher
	web         Searcher
	policy      Policy
	aggregator  *evidence.Aggregator
	scorer      *evidence.Scorer
	synthesizer *answer.Synthesizer
	maxTurns    int
}

// New creates an orchestrator. Either searcher may be nil; a nil tool
// degrades to "no evidence from that origin", it never fails a query.
func New(local, web Searcher, policy Policy, agg *evidence.Aggregator, scorer *evidence.Scorer, syn *answer.Synthesizer, cfg model.AgentConfig) *Orchestrator {
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &Orchestrator{
		local:       local,
		web:         web,
		policy:      policy,
		aggregator:  agg,
		scorer:      scorer,
		synthesizer: syn,
		maxTurns:    maxTurns,
	}
}

// Ask answers a question without streaming
func (o *Orchestrator) Ask(ctx context.Context, question string) *model.Answer {
	return o.AskStream(ctx, question, nil)
}

// AskStream answers a question, emitting progress events as the loop
// transitions. The emitter may be nil; the loop runs identically
// either way and always runs to completion server-side.
func (o *Orchestrator) AskStream(ctx context.Context, question string, em *stream.Emitter) *model.Answer {
	query := model.NewQuery(question)

	if greeting, ok := greetingReply(query.Normalized); ok {
		ans := &model.Answer{
			QueryID:    query.ID,
			Mode:       model.ModeUncertain,
			Confidence: model.ConfidenceUncertain,
			Text:       greeting,
		}
		em.Answer(ans)
		return ans
	}

	state := &model.AgentState{Query: query}

	for !state.Done {
		// Cancellation takes effect only here, at a turn boundary,
		// never mid-tool-call.
		if ctx.Err() != nil {
			log.Printf("query %s: caller gone, finalizing with %d evidence items", query.ID, len(state.Evidence))
			break
		}

		// The turn cap forces finalization, never a dropped query
		if state.ToolCalls() >= o.maxTurns {
			log.Printf("query %s: turn limit %d reached", query.ID, o.maxTurns)
			break
		}

		decision := o.policy.Decide(ctx, state)
		switch decision.Action {
		case model.ActionSearchLocal:
			o.searchTurn(ctx, state, decision, em, o.local, model.OriginLocal)
		case model.ActionSearchWeb:
			o.searchTurn(ctx, state, decision, em, o.web, model.OriginWeb)
		default:
			state.Done = true
		}
	}

	return o.finalize(ctx, state, em)
}

// searchTurn invokes one tool, merges its evidence, and re-scores.
// Tool failures are absorbed into the turn record; they degrade
// evidence availability and nothing else.
func (o *Orchestrator) searchTurn(ctx context.Context, state *model.AgentState, decision Decision, em *stream.Emitter, tool Searcher, origin model.Origin) {
	turnNo := state.ToolCalls() + 1

	if origin == model.OriginLocal {
		state.LocalTried = true
		em.Status(stream.StageSearchingLocal, "Searching legal database")
	} else {
		state.WebTried = true
		em.Status(stream.StageSearchingWeb, "Searching trusted legal websites")
	}
	em.ToolStart(turnNo, string(decision.Action))

	turn := model.Turn{Action: decision.Action, Rationale: decision.Rationale}

	var items []model.EvidenceItem
	var err error
	if tool == nil {
		err = model.ErrToolBlocked
	} else {
		items, err = tool.Search(ctx, state.Query.Normalized)
	}
	if err != nil {
		turn.Error = err.Error()
		log.Printf("query %s: %s degraded: %v", state.Query.ID, decision.Action, err)
	}

	if len(items) > 0 {
		before := len(state.Evidence)
		state.Evidence = o.aggregator.Merge(state.Evidence, items)
		turn.Added = len(state.Evidence) - before
	}
	state.Record(turn)

	em.ToolResult(turnNo, string(decision.Action), turn.Added, err)
	em.Status(stream.StageEvaluating, "Evaluating confidence")
	state.Confidence = o.scorer.Score(state.Evidence)
}

func (o *Orchestrator) finalize(ctx context.Context, state *model.AgentState, em *stream.Emitter) *model.Answer {
	action := model.ActionFinalize
	if len(state.Evidence) == 0 && state.ToolCalls() > 0 {
		// Both tools came back empty-handed; the answer states that
		// plainly instead of erroring.
		action = model.ActionAbort
	}
	state.Record(model.Turn{Action: action, Rationale: "composing answer from current evidence"})
	state.Done = true

	em.Status(stream.StageComposing, "Composing answer")

	// Synthesis must proceed even when the caller has gone away, so it
	// runs on a context that survives cancellation.
	ans := o.synthesizer.Synthesize(context.WithoutCancel(ctx), state.Query, state.Evidence, state.Confidence)
	em.Answer(ans)
	return ans
}

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true,
	"good morning": true, "good evening": true, "good afternoon": true,
	"namaste": true, "namaskar": true,
	"thanks": true, "thank you": true,
	"bye": true, "goodbye": true,
}

// greetingReply short-circuits pure greetings before the loop starts
func greetingReply(question string) (string, bool) {
	normalized := strings.ToLower(strings.TrimRight(strings.TrimSpace(question), "!.,?"))
	if !greetings[normalized] {
		return "", false
	}
	return "Namaste! I am Nyay Sathi, your guide to Indian law. " +
		"Ask me about any Act or Section, for example: what is the punishment for theft?", true
}
