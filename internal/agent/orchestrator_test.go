package agent

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/vikas872/nyay-sathi-clean/internal/answer"
	"github.com/vikas872/nyay-sathi-clean/internal/evidence"
	"github.com/vikas872/nyay-sathi-clean/internal/model"
	"github.com/vikas872/nyay-sathi-clean/internal/stream"
)

// fakeSearcher implements Searcher
type fakeSearcher struct {
	items []model.EvidenceItem
	err   error
	calls int32
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.items, f.err
}

func newTestOrchestrator(local, web Searcher, policy Policy) *Orchestrator {
	cfg := model.DefaultConfig()
	if policy == nil {
		policy = &RulePolicy{WebEnabled: true}
	}
	return New(
		local, web, policy,
		evidence.NewAggregator(cfg.Evidence),
		evidence.NewScorer(cfg.Confidence),
		answer.NewSynthesizer(nil, cfg.Synthesis),
		cfg.Agent,
	)
}

func strongLocal() []model.EvidenceItem {
	return []model.EvidenceItem{
		{Origin: model.OriginLocal, Ref: "ipc-379-0", Score: 0.89,
			ActName: "Indian Penal Code", Section: "379",
			Text: "Whoever commits theft shall be punished with imprisonment up to three years, or with fine, or with both."},
		{Origin: model.OriginLocal, Ref: "ipc-378-0", Score: 0.61,
			ActName: "Indian Penal Code", Section: "378",
			Text: "Definition of theft."},
	}
}

func webResults() []model.EvidenceItem {
	return []model.EvidenceItem{
		{Origin: model.OriginWeb, Ref: "https://indiacode.nic.in/amendment", Score: 1.0,
			Title: "India Code", Domain: "indiacode.nic.in", Text: "Recent amendment details."},
		{Origin: model.OriginWeb, Ref: "https://prsindia.org/bill", Score: 0.9,
			Title: "PRS India", Domain: "prsindia.org", Text: "Bill summary."},
	}
}

// Strong local evidence answers without ever touching the web
func TestAsk_GroundedLocalOnly(t *testing.T) {
	local := &fakeSearcher{items: strongLocal()}
	web := &fakeSearcher{items: webResults()}
	o := newTestOrchestrator(local, web, nil)

	ans := o.Ask(context.Background(), "What is the punishment for theft?")

	if ans.Mode != model.ModeGrounded {
		t.Errorf("expected grounded mode, got %s", ans.Mode)
	}
	if ans.Confidence != model.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", ans.Confidence)
	}
	if atomic.LoadInt32(&web.calls) != 0 {
		t.Errorf("expected zero web calls, got %d", web.calls)
	}
	if len(ans.Citations) == 0 {
		t.Error("expected local citations")
	}
	for _, c := range ans.Citations {
		if c.Origin != model.OriginLocal {
			t.Errorf("expected only local citations, got %s", c.Origin)
		}
	}
}

// The shipped defaults finalize on high local confidence without a
// web attempt, so a strong statutory hit stays grounded
func TestAsk_DefaultPolicySkipsWebOnHighConfidence(t *testing.T) {
	cfg := model.DefaultConfig()
	local := &fakeSearcher{items: strongLocal()}
	web := &fakeSearcher{items: webResults()}
	o := newTestOrchestrator(local, web, NewRulePolicy(cfg.Agent, cfg.Web))

	ans := o.Ask(context.Background(), "What is the punishment for theft?")

	if got := atomic.LoadInt32(&web.calls); got != 0 {
		t.Errorf("expected zero web calls, got %d", got)
	}
	if ans.Mode != model.ModeGrounded {
		t.Errorf("expected grounded mode, got %s", ans.Mode)
	}
}

// Weak local evidence triggers exactly one web attempt
func TestAsk_WebFallback(t *testing.T) {
	local := &fakeSearcher{items: nil}
	web := &fakeSearcher{items: webResults()}
	o := newTestOrchestrator(local, web, nil)

	ans := o.Ask(context.Background(), "What changed in the latest criminal law amendment?")

	if atomic.LoadInt32(&web.calls) != 1 {
		t.Errorf("expected exactly one web call, got %d", web.calls)
	}
	if ans.Mode != model.ModeWebAssisted {
		t.Errorf("expected web-assisted mode, got %s", ans.Mode)
	}
}

// Both tools failing yields an uncertain answer, never an error
func TestAsk_BothToolsFail(t *testing.T) {
	local := &fakeSearcher{err: model.ErrIndexUnavailable}
	web := &fakeSearcher{err: model.ErrToolTimeout}
	o := newTestOrchestrator(local, web, nil)

	ans := o.Ask(context.Background(), "What is the punishment for theft?")

	if ans.Mode != model.ModeUncertain {
		t.Errorf("expected uncertain mode, got %s", ans.Mode)
	}
	if len(ans.Citations) != 0 {
		t.Errorf("expected no citations, got %d", len(ans.Citations))
	}
	if ans.Text == "" {
		t.Error("expected an answer stating no grounded information was found")
	}
}

// alwaysSearch ignores state and keeps asking for the same tool
type alwaysSearch struct {
	action model.Action
}

func (p *alwaysSearch) Decide(ctx context.Context, state *model.AgentState) Decision {
	return Decision{Action: p.action, Rationale: "test"}
}

// A runaway policy is stopped by the turn cap and still finalizes
func TestAsk_TurnLimitForcesFinalize(t *testing.T) {
	web := &fakeSearcher{items: webResults()}
	o := newTestOrchestrator(&fakeSearcher{}, web, &alwaysSearch{action: model.ActionSearchWeb})

	ans := o.Ask(context.Background(), "What is the punishment for theft?")

	maxTurns := model.DefaultConfig().Agent.MaxTurns
	if got := atomic.LoadInt32(&web.calls); got != int32(maxTurns) {
		t.Errorf("expected %d tool calls at the cap, got %d", maxTurns, got)
	}
	if ans == nil || ans.Text == "" {
		t.Fatal("turn limit must still produce an answer")
	}
	if ans.Mode == "" {
		t.Error("expected a mode on the forced finalization")
	}
}

func TestAskStream_EventSequence(t *testing.T) {
	local := &fakeSearcher{items: strongLocal()}
	o := newTestOrchestrator(local, &fakeSearcher{}, nil)
	em := stream.NewEmitter()

	go o.AskStream(context.Background(), "What is the punishment for theft?", em)

	var events []stream.Event
	for ev := range em.Events() {
		events = append(events, ev)
	}

	if len(events) < 4 {
		t.Fatalf("expected full event sequence, got %d events", len(events))
	}
	if events[0].Stage != stream.StageSearchingLocal {
		t.Errorf("expected first stage %s, got %s", stream.StageSearchingLocal, events[0].Stage)
	}
	last := events[len(events)-1]
	if last.Type != stream.EventAnswer || last.Answer == nil {
		t.Fatalf("expected final answer event, got %+v", last)
	}
	for _, ev := range events[:len(events)-1] {
		if ev.Type == stream.EventAnswer {
			t.Error("answer event emitted before end of sequence")
		}
	}
}

// Cancellation at a turn boundary still yields a complete answer
func TestAsk_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	local := &fakeSearcher{items: strongLocal()}
	o := newTestOrchestrator(local, &fakeSearcher{}, nil)

	ans := o.Ask(ctx, "What is the punishment for theft?")

	if ans == nil || ans.Text == "" {
		t.Fatal("cancelled query must still produce an answer")
	}
	if atomic.LoadInt32(&local.calls) != 0 {
		t.Errorf("no tool should run after cancellation, got %d calls", local.calls)
	}
}

func TestAsk_GreetingShortCircuit(t *testing.T) {
	local := &fakeSearcher{items: strongLocal()}
	o := newTestOrchestrator(local, &fakeSearcher{}, nil)

	ans := o.Ask(context.Background(), "Namaste!")

	if atomic.LoadInt32(&local.calls) != 0 {
		t.Errorf("greeting must not reach the tools, got %d calls", local.calls)
	}
	if ans.Text == "" || len(ans.Citations) != 0 {
		t.Errorf("expected a canned greeting without citations, got %+v", ans)
	}
}

// A terse section-number query is searched, not greeted
func TestAsk_ShortQueryIsNotAGreeting(t *testing.T) {
	local := &fakeSearcher{items: strongLocal()}
	o := newTestOrchestrator(local, &fakeSearcher{}, nil)

	ans := o.Ask(context.Background(), "379")

	if atomic.LoadInt32(&local.calls) != 1 {
		t.Errorf("expected the query to reach local search, got %d calls", local.calls)
	}
	if len(ans.Citations) == 0 {
		t.Error("expected citations for a searched query")
	}
}

// The audit trail records every decision in order
func TestAskStream_AuditTrail(t *testing.T) {
	local := &fakeSearcher{items: nil}
	web := &fakeSearcher{err: model.ErrNoResults}
	o := newTestOrchestrator(local, web, nil)

	ans := o.Ask(context.Background(), "What is the punishment for theft?")

	// local (empty), web (failed), then abort with zero evidence
	if ans.Mode != model.ModeUncertain {
		t.Errorf("expected uncertain mode, got %s", ans.Mode)
	}
	if atomic.LoadInt32(&local.calls) != 1 || atomic.LoadInt32(&web.calls) != 1 {
		t.Errorf("expected one call per tool, got local=%d web=%d", local.calls, web.calls)
	}
}
