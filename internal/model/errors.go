package model

import "fmt"

// ResearchUnavailableError indicates the search capability exhausted its
// retry budget. Recoverable by re-invoking the stage.
type ResearchUnavailableError struct {
	Query    string
	Attempts int
	Err      error
}

func (e *ResearchUnavailableError) Error() string {
	return fmt.Sprintf("research unavailable after %d attempts for %q: %v", e.Attempts, e.Query, e.Err)
}

func (e *ResearchUnavailableError) Unwrap() error { return e.Err }

// PlanningFailedError indicates storyline generation failed. Recoverable by
// retrying with the same framework pair or re-selecting frameworks.
type PlanningFailedError struct {
	Framework string
	Reason    string
}

func (e *PlanningFailedError) Error() string {
	return fmt.Sprintf("planning failed for framework %q: %s", e.Framework, e.Reason)
}

// RenderFailedError wraps a failure in the external deck renderer. Deck state
// is preserved for retry.
type RenderFailedError struct {
	DeckID string
	Err    error
}

func (e *RenderFailedError) Error() string {
	return fmt.Sprintf("render failed for deck %s: %v", e.DeckID, e.Err)
}

func (e *RenderFailedError) Unwrap() error { return e.Err }
