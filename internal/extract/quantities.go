package extract

import (
	"regexp"
	"strings"

	"deckforge/internal/model"
)

// labelColonPattern matches "Revenue 2025: $10M" style bullets
var labelColonPattern = regexp.MustCompile(
	`(?m)^([A-Za-z][A-Za-z0-9 /&'-]{1,50}?)\s*:\s*([$€£]?\d[\d,]*(?:\.\d+)?\s*(?:%|(?:percent|trillion|billion|million|thousand|tn|bn|mn|[TtBbMmKk])\b|\b))`,
)

// proseQuantityPattern matches "<label> grew/reached/was/rose to <value>" prose
var proseQuantityPattern = regexp.MustCompile(
	`([A-Z][A-Za-z0-9 /&'-]{1,50}?)\s+(?:grew(?:\s+\d[\d.,]*%?)?\s+to|reached|rose to|was|is|totaled|hit|stands? at)\s+([$€£]?\d[\d,]*(?:\.\d+)?\s*(?:%|(?:percent|trillion|billion|million|thousand|tn|bn|mn|[TtBbMmKk])\b|\b))`,
)

// CanonicalName lowercases and whitespace-collapses a quantity label so the
// same quantity phrased on different slides groups together.
func CanonicalName(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// Quantities extracts named quantities from a slide's bullets and insight for
// cross-slide comparison. Labels are canonicalized; values are scaled.
func Quantities(slide model.SlidePlan) []model.NamedQuantity {
	var out []model.NamedQuantity

	lines := make([]string, 0, len(slide.ContentBullets)+1)
	lines = append(lines, slide.ContentBullets...)
	if slide.KeyInsight != "" {
		lines = append(lines, slide.KeyInsight)
	}

	seen := make(map[string]bool)
	add := func(label, valueText string) {
		nums := Numbers(valueText)
		if len(nums) == 0 {
			return
		}
		name := CanonicalName(label)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, model.NamedQuantity{
			Name:    name,
			Value:   nums[0].Value,
			Unit:    nums[0].Unit,
			SlideID: slide.ID,
		})
	}

	for _, line := range lines {
		for _, m := range labelColonPattern.FindAllStringSubmatch(line, -1) {
			add(m[1], m[2])
		}
		for _, m := range proseQuantityPattern.FindAllStringSubmatch(line, -1) {
			add(m[1], m[2])
		}
	}

	return out
}
