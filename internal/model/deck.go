package model

import "time"

// FrameworkScore is the selector's verdict on one narrative framework.
// Transient: produced during planning, not persisted past it.
type FrameworkScore struct {
	Name      string  `json:"name"`
	FitScore  float64 `json:"fit_score"`
	Rationale string  `json:"rationale"`
}

// Outline is a candidate slide-by-slide storyline for one framework
type Outline struct {
	FrameworkName string      `json:"framework_name"`
	Theme         string      `json:"theme,omitempty"`
	Slides        []SlidePlan `json:"slides"`
}

// Deck is the ordered slide sequence plus deck-level metadata. The only
// entity that crosses the core/renderer boundary.
type Deck struct {
	ID        string      `json:"id"`
	Topic     string      `json:"topic"`
	Framework string      `json:"framework"`
	CreatedAt time.Time   `json:"created_at"`
	Slides    []SlidePlan `json:"slides"`
}

// SlideByID returns a pointer to the slide with the given id, or nil
func (d *Deck) SlideByID(id int) *SlidePlan {
	for i := range d.Slides {
		if d.Slides[i].ID == id {
			return &d.Slides[i]
		}
	}
	return nil
}

// AllSlidesSettled reports whether every slide has exited content generation
// (reached generated, approved, or unverified)
func (d *Deck) AllSlidesSettled() bool {
	for _, s := range d.Slides {
		switch s.Status {
		case StatusGenerated, StatusApproved, StatusUnverified:
		default:
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the deck
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	out := &Deck{
		ID:        d.ID,
		Topic:     d.Topic,
		Framework: d.Framework,
		CreatedAt: d.CreatedAt,
	}
	for _, s := range d.Slides {
		out.Slides = append(out.Slides, s.Clone())
	}
	return out
}
