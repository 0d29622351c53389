package model

// ViolationType classifies a critic finding
type ViolationType string

const (
	ViolationGrounding   ViolationType = "grounding"   // Number not traceable to a grounded finding
	ViolationAggregate   ViolationType = "aggregate"   // Chart aggregate disagrees with prose restatement
	ViolationConsistency ViolationType = "consistency" // Cross-slide quantity conflict
)

// Violation is structured validation data attached to a slide by the critic.
// Violations are values, never exceptions: the deck stays inspectable after
// any validation failure.
type Violation struct {
	Type    ViolationType `json:"type"`
	SlideID int           `json:"slide_id"`
	Value   float64       `json:"value"`             // The offending value
	Raw     string        `json:"raw,omitempty"`     // The offending text as it appears on the slide
	Detail  string        `json:"detail"`            // Human-readable explanation
	Nearest *Finding      `json:"nearest,omitempty"` // Closest matching finding, for operator review
}

// ConsistencyConflict names a group of slides asserting different values for
// the same canonical quantity. Not auto-recoverable: requires data correction
// or explicit user override.
type ConsistencyConflict struct {
	Name     string          `json:"name"` // Canonical quantity name
	Unit     string          `json:"unit,omitempty"`
	SlideIDs []int           `json:"slide_ids"`
	Values   []NamedQuantity `json:"values"`
}

// Decision is the critic's verdict for a slide
type Decision string

const (
	DecisionAccept Decision = "accept" // status -> approved
	DecisionRevise Decision = "revise" // status stays generated, bounded re-synthesis
	DecisionReject Decision = "reject" // unresolvable, slide surfaced as unverified
)

// Verdict pairs a decision with its supporting violations
type Verdict struct {
	Decision   Decision    `json:"decision"`
	Violations []Violation `json:"violations,omitempty"`
}
