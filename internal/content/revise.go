package content

import (
	"strings"

	"deckforge/internal/model"
)

// Revise applies the critic's verdict by removing unsupported content rather
// than inventing replacements: bullets carrying an untraceable number are
// dropped, and a chart with any untraceable point is demoted to bullets.
// What remains was already traceable, so revision converges.
func Revise(slide model.SlidePlan, verdict model.Verdict) model.SlidePlan {
	out := slide.Clone()

	var badRaws []string
	chartHit := false
	for _, v := range verdict.Violations {
		if v.Type == model.ViolationGrounding && strings.Contains(v.Raw, "[") {
			chartHit = true
			continue // Chart point, not a bullet fragment
		}
		if v.Raw != "" {
			badRaws = append(badRaws, v.Raw)
		}
	}

	var kept []string
	for _, bullet := range out.ContentBullets {
		bad := false
		for _, raw := range badRaws {
			if strings.Contains(bullet, raw) {
				bad = true
				break
			}
		}
		if !bad {
			kept = append(kept, bullet)
		}
	}
	out.ContentBullets = kept

	if chartHit {
		out.ChartData = nil
		out.LayoutType = model.LayoutBullet
		out.VisualType = model.VisualNone
	}

	out.Violations = nil
	return out
}
