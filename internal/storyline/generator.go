package storyline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deckforge/internal/extract"
	"deckforge/internal/framework"
	"deckforge/internal/model"
)

// Generator produces comparative slide-by-slide outlines, one per selected
// framework, and finalizes the user's pick into the canonical deck.
type Generator struct {
	targetSlides int
	floor        float64
	log          *zap.Logger
}

// NewGenerator creates a storyline generator
func NewGenerator(cfg model.StorylineConfig, confidenceFloor float64, log *zap.Logger) *Generator {
	target := cfg.TargetSlides
	if target < 4 {
		target = 12
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{targetSlides: target, floor: confidenceFloor, log: log}
}

// GenerateComparativeOutlines builds two candidate outlines from the selected
// framework pair. Draft slides carry title, bullets, and visual direction but
// no chart data or citations yet; those come from content synthesis.
// Generation is a single synchronous step per framework; any failure surfaces
// as PlanningFailed.
func (g *Generator) GenerateComparativeOutlines(topic string, findings []model.Finding, pair [2]model.FrameworkScore) (model.Outline, model.Outline, error) {
	if len(findings) == 0 {
		return model.Outline{}, model.Outline{}, &model.PlanningFailedError{
			Framework: pair[0].Name,
			Reason:    "no research findings to plan from",
		}
	}

	var outlines [2]model.Outline
	for i, score := range pair {
		fw, ok := framework.ByName(score.Name)
		if !ok {
			return model.Outline{}, model.Outline{}, &model.PlanningFailedError{
				Framework: score.Name,
				Reason:    "unknown framework",
			}
		}
		outlines[i] = g.buildOutline(topic, fw, findings)
		g.log.Info("outline generated",
			zap.String("framework", fw.Name),
			zap.Int("slides", len(outlines[i].Slides)))
	}

	return outlines[0], outlines[1], nil
}

// FinalizeSelection locks in the chosen outline: assigns stable contiguous
// ids and produces the deck that enters the content loop. Ids are never
// reused, even if slides are later reordered.
func (g *Generator) FinalizeSelection(topic string, chosen model.Outline) *model.Deck {
	deck := &model.Deck{
		ID:        uuid.NewString(),
		Topic:     topic,
		Framework: chosen.FrameworkName,
		CreatedAt: time.Now().UTC(),
	}

	for i, s := range chosen.Slides {
		slide := s.Clone()
		slide.ID = i + 1
		slide.Status = model.StatusPlanned
		deck.Slides = append(deck.Slides, slide)
	}

	g.log.Info("outline finalized",
		zap.String("deck_id", deck.ID),
		zap.String("framework", deck.Framework),
		zap.Int("slides", len(deck.Slides)))

	return deck
}

// buildOutline shapes the framework's sections into a slide sequence: a title
// slide, the framework beats with findings distributed across them, and a
// closing slide. Content slides beyond the section count expand the
// data-leaning beats until the target count is met.
func (g *Generator) buildOutline(topic string, fw framework.Framework, findings []model.Finding) model.Outline {
	outline := model.Outline{
		FrameworkName: fw.Name,
		Theme:         fmt.Sprintf("%s through the %s lens", topic, fw.Name),
	}

	outline.Slides = append(outline.Slides, model.SlidePlan{
		Title:      topic,
		LayoutType: model.LayoutBullet,
		VisualType: model.VisualNone,
		KeyInsight: outline.Theme,
		Status:     model.StatusPlanned,
	})

	sections := expandSections(fw.Sections, g.targetSlides-2)

	for i, sec := range sections {
		finding := findings[i%len(findings)]
		title := sec.Heading
		if strings.Contains(title, "%s") {
			title = fmt.Sprintf(title, topic)
		}

		slide := model.SlidePlan{
			Title:           title,
			KeyInsight:      firstSentence(finding.Content),
			DataSourceQuery: fmt.Sprintf("%s %s key figures and statistics", topic, sec.Role),
			Status:          model.StatusPlanned,
		}

		if sec.DataLean {
			slide.LayoutType = model.LayoutChart
			slide.VisualType = chartStyleFor(sec.Role)
		} else {
			slide.LayoutType = model.LayoutBullet
			slide.VisualType = model.VisualNone
		}

		for _, s := range extract.NumericSentences(finding.Content) {
			slide.ContentBullets = append(slide.ContentBullets, s)
			if len(slide.ContentBullets) >= 3 {
				break
			}
		}

		outline.Slides = append(outline.Slides, slide)
	}

	outline.Slides = append(outline.Slides, model.SlidePlan{
		Title:      "Key Takeaways",
		LayoutType: model.LayoutBullet,
		VisualType: model.VisualNone,
		KeyInsight: fmt.Sprintf("What to remember about %s", topic),
		Status:     model.StatusPlanned,
	})

	return outline
}

// expandSections stretches or trims the framework beats to the slide budget,
// repeating data-leaning sections when more slides are needed
func expandSections(sections []framework.Section, want int) []framework.Section {
	if want <= 0 {
		want = len(sections)
	}
	if len(sections) >= want {
		return sections[:want]
	}

	out := append([]framework.Section(nil), sections...)
	for len(out) < want {
		added := false
		for _, sec := range sections {
			if len(out) >= want {
				break
			}
			if sec.DataLean {
				out = append(out, sec)
				added = true
			}
		}
		if !added {
			break
		}
	}
	return out
}

func chartStyleFor(role string) model.VisualType {
	switch role {
	case "situation", "what_is", "ordinary_world":
		return model.VisualLine
	case "pillar", "argument", "plan":
		return model.VisualBar
	default:
		return model.VisualBar
	}
}

func firstSentence(text string) string {
	sentences := extract.Sentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}
	return sentences[0]
}
