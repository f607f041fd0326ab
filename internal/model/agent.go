package model

// Action is one planner decision
type Action string

const (
	ActionSearchLocal Action = "search_local"
	ActionSearchWeb   Action = "search_web"
	ActionFinalize    Action = "finalize"
	ActionAbort       Action = "abort"
)

// Turn records one planner decision and its evidence delta. The ordered
// turn sequence is the audit trail of a query.
type Turn struct {
	Action    Action `json:"action"`
	Rationale string `json:"rationale"`
	Added     int    `json:"added"`           // Evidence items merged in by this turn
	Error     string `json:"error,omitempty"` // Tool failure absorbed during this turn
}

// AgentState is the planner's working state for a single query.
// It is created at Start, owned exclusively by one planner loop,
// and discarded when the query completes or fails.
type AgentState struct {
	Query      Query
	Turns      []Turn
	Evidence   []EvidenceItem
	Confidence Confidence
	LocalTried bool
	WebTried   bool
	Done       bool
}

// ToolCalls counts the turns that invoked a tool
func (s *AgentState) ToolCalls() int {
	n := 0
	for _, t := range s.Turns {
		if t.Action == ActionSearchLocal || t.Action == ActionSearchWeb {
			n++
		}
	}
	return n
}

// Record appends a turn to the audit trail
func (s *AgentState) Record(t Turn) {
	s.Turns = append(s.Turns, t)
}
