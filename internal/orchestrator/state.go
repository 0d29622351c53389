package orchestrator

import "fmt"

// State is the pipeline's position in the generation flow. The state value is
// serializable and transitions are pure functions, so the machine can be unit
// tested and resumed independently of the orchestrator instance.
type State string

const (
	StateIdle              State = "idle"
	StateResearching       State = "researching"
	StatePlanning          State = "planning"
	StateComparativeReview State = "comparative_review" // User gate: pick outline A or B
	StateContentGeneration State = "content_generation"
	StateCriticReview      State = "critic_review"
	StateDeckReview        State = "deck_review" // User gate: approve or request revisions
	StateFinalizing        State = "finalizing"
	StateDone              State = "done"
	StateError             State = "error" // Reachable from any state
)

// validTransitions is the forward edge set. The one feedback edge (critic
// verdicts re-entering synthesis) happens inside ContentGeneration; returning
// to Planning requires explicit user re-selection.
var validTransitions = map[State][]State{
	StateIdle:              {StateResearching},
	StateResearching:       {StatePlanning},
	StatePlanning:          {StateComparativeReview},
	StateComparativeReview: {StateContentGeneration, StatePlanning},
	StateContentGeneration: {StateCriticReview},
	StateCriticReview:      {StateDeckReview},
	StateDeckReview:        {StateFinalizing},
	StateFinalizing:        {StateDone},
	StateError:             {},
	StateDone:              {},
}

// CanTransition reports whether from -> to is a legal step. Error is
// reachable from everywhere.
func CanTransition(from, to State) bool {
	if to == StateError {
		return true
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a state change, returning a descriptive error for an
// illegal step
func Transition(from, to State) (State, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("illegal transition %s -> %s", from, to)
	}
	return to, nil
}

// IsGate reports whether the state parks the pipeline awaiting a user signal
func IsGate(s State) bool {
	return s == StateComparativeReview || s == StateDeckReview
}

// IsTerminal reports whether no further transitions are possible except Error
func IsTerminal(s State) bool {
	return s == StateDone || s == StateError
}
