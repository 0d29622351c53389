package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deckforge/internal/model"
)

// Snapshot is the serialized pipeline state: enough to inspect a parked or
// failed run and to resume from either user gate after a process restart.
type Snapshot struct {
	State     State                       `json:"state"`
	Topic     string                      `json:"topic"`
	Audience  string                      `json:"audience,omitempty"`
	Deck      *model.Deck                 `json:"deck,omitempty"`
	Summary   string                      `json:"summary,omitempty"`
	Findings  []model.Finding             `json:"findings,omitempty"`
	Outlines  []model.Outline             `json:"outlines,omitempty"`
	Scores    []model.FrameworkScore      `json:"scores,omitempty"`
	Conflicts []model.ConsistencyConflict `json:"conflicts,omitempty"`
	Errors    []string                    `json:"errors,omitempty"`
	SavedAt   time.Time                   `json:"saved_at"`
}

// Snapshot captures the current pipeline state
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		State:     o.state,
		Topic:     o.topic,
		Audience:  o.audience,
		Deck:      o.deck.Clone(),
		Summary:   o.summary,
		Findings:  append([]model.Finding(nil), o.topicFindings...),
		Conflicts: append([]model.ConsistencyConflict(nil), o.conflicts...),
		Errors:    append([]string(nil), o.errs...),
		SavedAt:   time.Now().UTC(),
	}
	if o.state == StateComparativeReview {
		snap.Outlines = []model.Outline{o.outlines[0], o.outlines[1]}
		snap.Scores = []model.FrameworkScore{o.scores[0], o.scores[1]}
	}
	return snap
}

// Restore rehydrates a parked pipeline from a snapshot. Only gate states and
// terminal states are restorable; a snapshot taken mid-stage has no consistent
// resume point.
func (o *Orchestrator) Restore(snap Snapshot) error {
	if !IsGate(snap.State) && !IsTerminal(snap.State) && snap.State != StateIdle {
		return fmt.Errorf("cannot restore mid-stage state %s", snap.State)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = snap.State
	o.topic = snap.Topic
	o.audience = snap.Audience
	o.deck = snap.Deck
	o.summary = snap.Summary
	o.topicFindings = snap.Findings
	o.conflicts = snap.Conflicts
	o.errs = snap.Errors
	if len(snap.Outlines) == 2 {
		o.outlines = [2]model.Outline{snap.Outlines[0], snap.Outlines[1]}
	}
	if len(snap.Scores) == 2 {
		o.scores = [2]model.FrameworkScore{snap.Scores[0], snap.Scores[1]}
	}

	// Gate resumption needs the critic's view of the restored deck
	if snap.State == StateDeckReview && o.deck != nil {
		o.conflicts = o.critic.CheckDeck(o.deck)
		audit := o.critic.AuditDeck(o.deck, o.conflicts)
		o.audit = &audit
	}

	return nil
}

// SaveSnapshot writes the snapshot as JSON under dir, named by topic-safe slug
func (o *Orchestrator) SaveSnapshot(dir string) (string, error) {
	snap := o.Snapshot()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := "pipeline.json"
	if snap.Deck != nil {
		name = snap.Deck.ID + ".json"
	}
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot file written by SaveSnapshot
func LoadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot

	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return snap, nil
}
