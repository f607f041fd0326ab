package stream

import (
	"sync"

	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// EventType classifies a progress event
type EventType string

const (
	EventStatus     EventType = "status"      // Planner stage transition
	EventToolStart  EventType = "tool_start"  // Tool invocation beginning
	EventToolResult EventType = "tool_result" // Tool invocation finished
	EventAnswer     EventType = "answer"      // Final payload, always last
)

// Well-known stage names carried by status events, in the order a
// query can visit them.
const (
	StageSearchingLocal = "searching_local_database"
	StageEvaluating     = "evaluating_confidence"
	StageSearchingWeb   = "searching_web"
	StageComposing      = "composing_answer"
	StageDone           = "done"
)

// Event is one entry in the ordered progress sequence for a query.
// The sequence is finite and ends with a single EventAnswer.
type Event struct {
	Type    EventType      `json:"type"`
	Stage   string         `json:"stage,omitempty"`
	Message string         `json:"message,omitempty"`
	Turn    int            `json:"turn,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Answer  *model.Answer  `json:"answer,omitempty"`
}

// Emitter is a single-producer event sequence the orchestrator writes
// as it transitions. Consumers read Events(); a consumer that stops
// reading or never attaches does not block the producer. A nil Emitter
// is valid and drops everything, so the non-streaming path costs
// nothing.
type Emitter struct {
	ch        chan Event
	closeOnce sync.Once
}

// NewEmitter creates an emitter whose buffer covers the longest event
// sequence a bounded query can produce.
func NewEmitter() *Emitter {
	return &Emitter{ch: make(chan Event, 64)}
}

// Events returns the read side of the sequence. The channel is closed
// after the final answer event.
func (e *Emitter) Events() <-chan Event {
	return e.ch
}

// Emit appends an event to the sequence. If the buffer is full because
// the consumer went away, the event is dropped rather than blocking
// the query.
func (e *Emitter) Emit(event Event) {
	if e == nil {
		return
	}
	select {
	case e.ch <- event:
	default:
	}
}

// Status emits a stage-transition event
func (e *Emitter) Status(stage, message string) {
	e.Emit(Event{Type: EventStatus, Stage: stage, Message: message})
}

// ToolStart emits the beginning of a tool invocation
func (e *Emitter) ToolStart(turn int, action string) {
	e.Emit(Event{Type: EventToolStart, Turn: turn, Message: action})
}

// ToolResult emits the outcome of a tool invocation
func (e *Emitter) ToolResult(turn int, action string, added int, err error) {
	data := map[string]any{"evidence_added": added}
	if err != nil {
		data["degraded"] = err.Error()
	}
	e.Emit(Event{Type: EventToolResult, Turn: turn, Message: action, Data: data})
}

// Answer emits the final payload and closes the sequence
func (e *Emitter) Answer(answer *model.Answer) {
	if e == nil {
		return
	}
	e.Emit(Event{Type: EventAnswer, Stage: StageDone, Answer: answer})
	e.Close()
}

// Close terminates the sequence. Safe to call more than once.
func (e *Emitter) Close() {
	if e == nil {
		return
	}
	e.closeOnce.Do(func() {
		close(e.ch)
	})
}
