package framework

import (
	"fmt"
	"sort"
	"strings"

	"deckforge/internal/model"
)

// Default pair when the topic yields no clear signal. The fallback is
// explicit, never an accident of scoring.
var fallbackPair = [2]string{"Pyramid", "SCQA"}

// Selector scores the 7 narrative frameworks against a topic and audience
// hint. Pure keyword scoring: identical inputs always yield the same pair.
type Selector struct{}

// NewSelector creates a framework selector
func NewSelector() *Selector {
	return &Selector{}
}

type scored struct {
	framework Framework
	fit       float64
	hits      []string
}

// Select returns exactly 2 frameworks sorted descending by fit score. Ties
// break on the lexicographically earlier canonical name. A topic with no
// keyword signal falls back to the fixed default pair (Pyramid, SCQA).
func (s *Selector) Select(topic, audienceHint string) [2]model.FrameworkScore {
	tokens := tokenize(topic + " " + audienceHint)

	candidates := make([]scored, 0, len(Library))
	for _, f := range Library {
		fit, hits := scoreFramework(f, tokens)
		candidates = append(candidates, scored{framework: f, fit: fit, hits: hits})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].fit != candidates[j].fit {
			return candidates[i].fit > candidates[j].fit
		}
		return candidates[i].framework.Name < candidates[j].framework.Name
	})

	if candidates[0].fit == 0 {
		return s.fallback()
	}

	var out [2]model.FrameworkScore
	for i := 0; i < 2; i++ {
		c := candidates[i]
		out[i] = model.FrameworkScore{
			Name:     c.framework.Name,
			FitScore: c.fit,
			Rationale: fmt.Sprintf("matched %s cues: %s",
				c.framework.Name, strings.Join(c.hits, ", ")),
		}
		if len(c.hits) == 0 {
			out[i].Rationale = fmt.Sprintf("no direct cues; %s is the next best structural fit", c.framework.Name)
		}
	}
	return out
}

func (s *Selector) fallback() [2]model.FrameworkScore {
	var out [2]model.FrameworkScore
	for i, name := range fallbackPair {
		f, _ := ByName(name)
		out[i] = model.FrameworkScore{
			Name:      f.Name,
			FitScore:  0,
			Rationale: "default pair: topic gave no framework signal",
		}
	}
	return out
}

func scoreFramework(f Framework, tokens map[string]bool) (float64, []string) {
	var fit float64
	var hits []string
	for _, kw := range f.BestFor {
		if tokens[kw] {
			fit++
			hits = append(hits, kw)
		}
	}
	return fit, hits
}

func tokenize(text string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()[]")
		if tok != "" {
			out[tok] = true
		}
	}
	return out
}
