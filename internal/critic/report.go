package critic

import (
	"fmt"

	"deckforge/internal/model"
)

// Audit is a transparent deck-level grounding summary shown at deck review.
// Every point in the index is explainable from the signals.
type Audit struct {
	Index      int      `json:"index"`      // 0-100 grounding index
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Conflict   bool     `json:"conflict"`   // Unresolved cross-slide conflicts exist
	Signals    []Signal `json:"signals"`
}

// Signal is one diagnostic with its transparent inputs
type Signal struct {
	Type        string                 `json:"type"`
	Severity    string                 `json:"severity"` // info, warning, critical
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// AuditDeck computes the grounding audit for a settled deck
func (c *Critic) AuditDeck(deck *model.Deck, conflicts []model.ConsistencyConflict) Audit {
	var approved, unverified, cited int
	for _, s := range deck.Slides {
		switch s.Status {
		case model.StatusApproved:
			approved++
		case model.StatusUnverified:
			unverified++
		}
		if len(s.Citations) > 0 {
			cited++
		}
	}
	total := len(deck.Slides)

	var signals []Signal
	index := 0

	// Approval coverage: up to 50 points
	if total > 0 {
		coverage := float64(approved) / float64(total)
		index += int(coverage * 50)
		severity := "info"
		if coverage < 0.5 {
			severity = "warning"
		}
		signals = append(signals, Signal{
			Type:        "approval_coverage",
			Severity:    severity,
			Description: fmt.Sprintf("%d of %d slides approved", approved, total),
			Data:        map[string]interface{}{"approved": approved, "total": total, "points": "coverage * 50"},
		})
	}

	// Citation density: up to 30 points
	if total > 0 {
		density := float64(cited) / float64(total)
		index += int(density * 30)
		signals = append(signals, Signal{
			Type:        "citation_density",
			Severity:    "info",
			Description: fmt.Sprintf("%d of %d slides carry citations", cited, total),
			Data:        map[string]interface{}{"cited": cited, "total": total, "points": "density * 30"},
		})
	}

	// Unverified slides: warning only, they already cost coverage points
	if unverified > 0 {
		signals = append(signals, Signal{
			Type:        "unverified_slides",
			Severity:    "critical",
			Description: fmt.Sprintf("%d slides could not be verified and need manual review", unverified),
			Data:        map[string]interface{}{"unverified": unverified},
		})
	} else {
		index += 20
		signals = append(signals, Signal{
			Type:        "unverified_slides",
			Severity:    "info",
			Description: "every slide passed verification",
			Data:        map[string]interface{}{"points": 20},
		})
	}

	// Cross-slide conflicts: hard penalty
	if len(conflicts) > 0 {
		index -= 30 * len(conflicts)
		signals = append(signals, Signal{
			Type:        "consistency_conflict",
			Severity:    "critical",
			Description: fmt.Sprintf("%d unresolved cross-slide conflicts", len(conflicts)),
			Data:        map[string]interface{}{"conflicts": len(conflicts), "points": "-30 per conflict"},
		})
	}

	if index < 0 {
		index = 0
	}
	if index > 100 {
		index = 100
	}

	confidence := "low"
	switch {
	case index >= 75:
		confidence = "high"
	case index >= 45:
		confidence = "medium"
	}

	return Audit{
		Index:      index,
		Confidence: confidence,
		Conflict:   len(conflicts) > 0,
		Signals:    signals,
	}
}
