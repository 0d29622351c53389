package critic

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"deckforge/internal/extract"
	"deckforge/internal/model"
)

// Critic validates slide content against its citations and against the rest
// of the deck. Violations are structured data handed back to the
// orchestrator, never exceptions: the deck stays inspectable after any
// failure.
type Critic struct {
	floor     float64
	tolerance float64
	log       *zap.Logger
}

// NewCritic creates a critic with the given confidence floor and relative
// numeric tolerance
func NewCritic(cfg model.CriticConfig, confidenceFloor float64, log *zap.Logger) *Critic {
	tolerance := cfg.Tolerance
	if tolerance <= 0 {
		tolerance = 0.01
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Critic{floor: confidenceFloor, tolerance: tolerance, log: log}
}

// CheckSlide runs the local grounding check: every number in the slide's
// bullets and chart data must trace to a grounded finding within tolerance,
// and chart aggregates must agree with any prose restatement.
//
// Decision rules:
//   - no violations            -> accept
//   - ungroundable numbers     -> reject (no grounded finding carries the value)
//   - everything else          -> revise
func (c *Critic) CheckSlide(slide model.SlidePlan, findings []model.Finding) model.Verdict {
	var violations []model.Violation
	rejectable := false

	grounded := groundedFindings(findings, c.floor)

	for _, bullet := range slide.ContentBullets {
		for _, num := range extract.Numbers(bullet) {
			if v, ok := c.traceNumber(slide.ID, num, bullet, grounded, findings); !ok {
				violations = append(violations, v)
				if v.Nearest == nil {
					rejectable = true
				}
			}
		}
	}

	if slide.ChartData != nil {
		for _, series := range slide.ChartData.Series {
			for i, val := range series.Data {
				num := extract.Number{Value: val, Raw: fmt.Sprintf("%s[%d]", series.Label, i)}
				if v, ok := c.traceNumber(slide.ID, num, "chart:"+series.Label, grounded, findings); !ok {
					violations = append(violations, v)
					if v.Nearest == nil {
						rejectable = true
					}
				}
			}
		}
		violations = append(violations, c.checkAggregates(slide)...)
	}

	verdict := model.Verdict{Violations: violations}
	switch {
	case len(violations) == 0:
		verdict.Decision = model.DecisionAccept
	case rejectable:
		verdict.Decision = model.DecisionReject
	default:
		verdict.Decision = model.DecisionRevise
	}

	c.log.Debug("slide checked",
		zap.Int("slide_id", slide.ID),
		zap.String("decision", string(verdict.Decision)),
		zap.Int("violations", len(violations)))

	return verdict
}

// traceNumber looks for a grounded finding whose content carries the value
// within tolerance. Returns the violation to attach when no match exists,
// with the nearest finding (if any finding at all mentions a close value)
// for operator review.
func (c *Critic) traceNumber(slideID int, num extract.Number, where string, grounded, all []model.Finding) (model.Violation, bool) {
	for _, f := range grounded {
		if findingCarries(f, num, c.tolerance) {
			return model.Violation{}, true
		}
	}

	violation := model.Violation{
		Type:    model.ViolationGrounding,
		SlideID: slideID,
		Value:   num.Value,
		Raw:     num.Raw,
		Detail:  fmt.Sprintf("value %s in %q has no grounded source", num.Raw, truncate(where, 80)),
	}

	// Nearest match among all findings, including low-confidence ones, so a
	// human can see what the claim probably came from.
	if nearest := nearestFinding(all, num); nearest != nil {
		violation.Nearest = nearest
		violation.Detail = fmt.Sprintf(
			"value %s in %q is only backed by a low-confidence or uncited finding",
			num.Raw, truncate(where, 80))
	}

	return violation, false
}

// checkAggregates compares each chart series sum against prose restatements
// of a total. A bullet that says "total" with a number must agree with some
// series sum within tolerance.
func (c *Critic) checkAggregates(slide model.SlidePlan) []model.Violation {
	var sums []float64
	for _, series := range slide.ChartData.Series {
		var sum float64
		for _, v := range series.Data {
			sum += v
		}
		sums = append(sums, sum)
	}

	var violations []model.Violation
	for _, bullet := range slide.ContentBullets {
		if !strings.Contains(strings.ToLower(bullet), "total") {
			continue
		}
		for _, num := range extract.Numbers(bullet) {
			matched := false
			for _, sum := range sums {
				if extract.WithinTolerance(num.Value, sum, c.tolerance) {
					matched = true
					break
				}
			}
			if !matched {
				violations = append(violations, model.Violation{
					Type:    model.ViolationAggregate,
					SlideID: slide.ID,
					Value:   num.Value,
					Raw:     num.Raw,
					Detail: fmt.Sprintf("prose total %s does not match any chart series sum %v",
						num.Raw, sums),
				})
			}
		}
	}
	return violations
}

func groundedFindings(findings []model.Finding, floor float64) []model.Finding {
	var out []model.Finding
	for _, f := range findings {
		if f.Grounded(floor) {
			out = append(out, f)
		}
	}
	return out
}

// findingCarries reports whether a finding's content mentions the value
// within tolerance
func findingCarries(f model.Finding, num extract.Number, tolerance float64) bool {
	for _, candidate := range extract.Numbers(f.Content) {
		if extract.WithinTolerance(candidate.Value, num.Value, tolerance) {
			return true
		}
	}
	return false
}

// nearestFinding returns the finding whose closest number has the smallest
// relative distance to the value, or nil when nothing numeric exists
func nearestFinding(findings []model.Finding, num extract.Number) *model.Finding {
	var best *model.Finding
	bestDist := -1.0

	for i := range findings {
		for _, candidate := range extract.Numbers(findings[i].Content) {
			dist := relativeDistance(candidate.Value, num.Value)
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				best = &findings[i]
			}
		}
	}

	if best == nil {
		return nil
	}
	found := *best
	return &found
}

func relativeDistance(a, b float64) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	ref := a
	if ref < 0 {
		ref = -ref
	}
	if bAbs := abs(b); bAbs > ref {
		ref = bAbs
	}
	if ref == 0 {
		return 0
	}
	return diff / ref
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
