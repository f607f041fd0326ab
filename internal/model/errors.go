package model

import "errors"

// Failure taxonomy for the orchestrator. All of these are absorbed at
// the planner and degrade evidence availability; none of them surface
// as request failures. The Answer's mode and confidence fields are the
// error channel visible to callers.
var (
	// ErrIndexUnavailable means the vector index backing store cannot be
	// read. Treated as "zero local evidence", not a hard failure.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrToolTimeout means a web search call exceeded its deadline.
	ErrToolTimeout = errors.New("tool timeout")

	// ErrToolBlocked means the target site was unreachable or refused
	// automated access.
	ErrToolBlocked = errors.New("tool blocked")

	// ErrNoResults means the tool ran but produced nothing usable.
	ErrNoResults = errors.New("no results")

	// ErrModelUnavailable means the language model could not be reached
	// or returned an unusable response.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrNoEvidence means both tools failed before any evidence was
	// gathered. Terminal but answer-producing.
	ErrNoEvidence = errors.New("no evidence found")
)
