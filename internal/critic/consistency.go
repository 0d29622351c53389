package critic

import (
	"sort"

	"go.uber.org/zap"

	"deckforge/internal/extract"
	"deckforge/internal/model"
)

// CheckDeck runs the cross-slide consistency pass: extracts named quantities
// from every slide, groups them by canonical name, and flags any group whose
// values disagree beyond tolerance. Requires a fully-settled deck; the
// orchestrator calls it only after every slide has exited content generation.
func (c *Critic) CheckDeck(deck *model.Deck) []model.ConsistencyConflict {
	groups := make(map[string][]model.NamedQuantity)
	var order []string

	for _, slide := range deck.Slides {
		for _, q := range extract.Quantities(slide) {
			key := q.Name + "|" + q.Unit
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], q)
		}
	}
	sort.Strings(order)

	var conflicts []model.ConsistencyConflict
	for _, key := range order {
		quantities := groups[key]
		if len(quantities) < 2 {
			continue
		}
		if agree(quantities, c.tolerance) {
			continue
		}

		conflict := model.ConsistencyConflict{
			Name:   quantities[0].Name,
			Unit:   quantities[0].Unit,
			Values: quantities,
		}
		for _, q := range quantities {
			conflict.SlideIDs = append(conflict.SlideIDs, q.SlideID)
		}
		conflicts = append(conflicts, conflict)

		c.log.Warn("cross-slide conflict",
			zap.String("quantity", conflict.Name),
			zap.Ints("slides", conflict.SlideIDs))
	}

	return conflicts
}

// agree reports whether all values in the group fall within tolerance of the
// first
func agree(quantities []model.NamedQuantity, tolerance float64) bool {
	base := quantities[0].Value
	for _, q := range quantities[1:] {
		if !extract.WithinTolerance(base, q.Value, tolerance) {
			return false
		}
	}
	return true
}
