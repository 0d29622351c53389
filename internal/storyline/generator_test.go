package storyline

import (
	"errors"
	"strings"
	"testing"

	"deckforge/internal/model"
)

func testFindings() []model.Finding {
	return []model.Finding{
		{
			Query:      "topic: market size and growth",
			Content:    "SIP inflows reached $2B in Q3. The trend accelerated over six quarters.",
			SourceURLs: []string{"https://www.amfiindia.com/research"},
			Confidence: 0.8,
		},
		{
			Query:      "topic: risks and challenges",
			Content:    "Redemption pressure rose 8% year over year. Regulatory changes are pending.",
			SourceURLs: []string{"https://www.sec.gov/filing"},
			Confidence: 0.7,
		},
	}
}

func testPair() [2]model.FrameworkScore {
	return [2]model.FrameworkScore{
		{Name: "Pyramid", FitScore: 2},
		{Name: "SCQA", FitScore: 2},
	}
}

func TestGenerateComparativeOutlines(t *testing.T) {
	gen := NewGenerator(model.StorylineConfig{TargetSlides: 8}, 0.4, nil)

	a, b, err := gen.GenerateComparativeOutlines("XYZ Fund Q3", testFindings(), testPair())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if a.FrameworkName != "Pyramid" || b.FrameworkName != "SCQA" {
		t.Errorf("Expected (Pyramid, SCQA) outlines, got (%s, %s)", a.FrameworkName, b.FrameworkName)
	}
	if len(a.Slides) == 0 || len(b.Slides) == 0 {
		t.Fatal("Expected slides in both outlines")
	}

	// Title slide opens, takeaways slide closes
	if a.Slides[0].Title != "XYZ Fund Q3" {
		t.Errorf("Expected title slide first, got %q", a.Slides[0].Title)
	}
	if a.Slides[len(a.Slides)-1].Title != "Key Takeaways" {
		t.Errorf("Expected takeaways slide last, got %q", a.Slides[len(a.Slides)-1].Title)
	}

	// Drafts have direction but no synthesized data yet
	for _, slide := range a.Slides {
		if slide.Status != model.StatusPlanned {
			t.Errorf("Slide %q not planned: %s", slide.Title, slide.Status)
		}
		if slide.ChartData != nil {
			t.Errorf("Slide %q has chart data before synthesis", slide.Title)
		}
		if len(slide.Citations) != 0 {
			t.Errorf("Slide %q has citations before synthesis", slide.Title)
		}
	}
}

func TestGenerateComparativeOutlines_ChartSlidesCarryQueries(t *testing.T) {
	gen := NewGenerator(model.StorylineConfig{TargetSlides: 8}, 0.4, nil)

	a, _, err := gen.GenerateComparativeOutlines("XYZ Fund", testFindings(), testPair())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	charts := 0
	for _, slide := range a.Slides {
		if slide.LayoutType != model.LayoutChart {
			continue
		}
		charts++
		if slide.VisualType == model.VisualNone {
			t.Errorf("Chart slide %q has no visual type", slide.Title)
		}
		if !strings.Contains(slide.DataSourceQuery, "XYZ Fund") {
			t.Errorf("Chart slide %q query %q does not target the topic", slide.Title, slide.DataSourceQuery)
		}
	}
	if charts == 0 {
		t.Error("Expected at least one chart slide from data-leaning sections")
	}
}

func TestGenerateComparativeOutlines_NoFindings(t *testing.T) {
	gen := NewGenerator(model.StorylineConfig{TargetSlides: 8}, 0.4, nil)

	_, _, err := gen.GenerateComparativeOutlines("topic", nil, testPair())

	var planningErr *model.PlanningFailedError
	if !errors.As(err, &planningErr) {
		t.Fatalf("Expected PlanningFailedError, got %v", err)
	}
}

func TestGenerateComparativeOutlines_UnknownFramework(t *testing.T) {
	gen := NewGenerator(model.StorylineConfig{TargetSlides: 8}, 0.4, nil)
	pair := [2]model.FrameworkScore{{Name: "Pyramid"}, {Name: "Nonexistent"}}

	_, _, err := gen.GenerateComparativeOutlines("topic", testFindings(), pair)

	var planningErr *model.PlanningFailedError
	if !errors.As(err, &planningErr) {
		t.Fatalf("Expected PlanningFailedError, got %v", err)
	}
	if planningErr.Framework != "Nonexistent" {
		t.Errorf("Expected failing framework recorded, got %q", planningErr.Framework)
	}
}

func TestFinalizeSelection_StableContiguousIDs(t *testing.T) {
	gen := NewGenerator(model.StorylineConfig{TargetSlides: 10}, 0.4, nil)

	a, _, err := gen.GenerateComparativeOutlines("XYZ Fund", testFindings(), testPair())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	deck := gen.FinalizeSelection("XYZ Fund", a)

	if deck.ID == "" {
		t.Error("Expected a deck id")
	}
	if deck.Framework != "Pyramid" {
		t.Errorf("Expected Pyramid deck, got %s", deck.Framework)
	}
	for i, slide := range deck.Slides {
		if slide.ID != i+1 {
			t.Errorf("Slide %d has id %d, expected %d", i, slide.ID, i+1)
		}
		if slide.Status != model.StatusPlanned {
			t.Errorf("Slide %d not planned: %s", slide.ID, slide.Status)
		}
	}

	// Finalizing does not mutate the outline drafts
	for _, slide := range a.Slides {
		if slide.ID != 0 {
			t.Error("Expected outline drafts to keep zero ids")
		}
	}
}

func TestFinalizeSelection_DistinctDeckIDs(t *testing.T) {
	gen := NewGenerator(model.StorylineConfig{TargetSlides: 6}, 0.4, nil)
	a, _, _ := gen.GenerateComparativeOutlines("topic fund", testFindings(), testPair())

	first := gen.FinalizeSelection("topic fund", a)
	second := gen.FinalizeSelection("topic fund", a)

	if first.ID == second.ID {
		t.Error("Expected unique deck ids per finalization")
	}
}
