package content

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"deckforge/internal/cache"
	"deckforge/internal/model"
	"deckforge/internal/research"
	"deckforge/internal/search"
)

// stubProvider returns a fixed grounded result for every query
type stubProvider struct {
	content string
	sources []string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func (s *stubProvider) Search(ctx context.Context, query string) (*search.Result, error) {
	return &search.Result{Content: s.content, Sources: s.sources, Confidence: 0.8}, nil
}

func newTestSynthesizer(provider search.Provider) *Synthesizer {
	cfg := model.ResearchConfig{
		Subtopics:         3,
		ConfidenceFloor:   0.4,
		MaxRetries:        1,
		RetryBaseWait:     time.Millisecond,
		Workers:           2,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}
	engine := research.NewEngine(provider, cache.NewStore(), cfg, nil)
	return NewSynthesizer(engine, nil)
}

func sharedFindings() []model.Finding {
	return []model.Finding{
		{
			Query:      "xyz fund: recent performance",
			Content:    "AUM grew 20% to $5B. Investor sentiment stayed strong.",
			SourceURLs: []string{"https://www.sec.gov/filings/xyz"},
			Confidence: 0.8,
		},
		{
			Query:      "xyz fund: risks",
			Content:    "Outflow risk remains if rates rise.",
			SourceURLs: []string{"https://www.reuters.com/markets"},
			Confidence: 0.6,
		},
	}
}

func plannedSlide() model.SlidePlan {
	return model.SlidePlan{
		ID:              2,
		Title:           "Supporting Evidence",
		LayoutType:      model.LayoutBullet,
		VisualType:      model.VisualNone,
		DataSourceQuery: "xyz fund argument key figures and statistics",
		Status:          model.StatusPlanned,
	}
}

func TestSynthesize_BuildsBulletsAndCitations(t *testing.T) {
	provider := &stubProvider{
		content: "SIP inflows reached $2B in Q3.",
		sources: []string{"https://www.amfiindia.com/data"},
	}
	synth := newTestSynthesizer(provider)

	slide, used, err := synth.Synthesize(context.Background(), plannedSlide(), sharedFindings(), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if slide.Status != model.StatusGenerated {
		t.Errorf("Expected generated status, got %s", slide.Status)
	}
	if len(slide.ContentBullets) == 0 {
		t.Fatal("Expected bullets from numeric sentences")
	}
	if len(slide.Citations) == 0 {
		t.Fatal("Expected citations from contributing findings")
	}
	if len(used) == 0 {
		t.Fatal("Expected contributing findings returned for the critic")
	}

	// Every citation belongs to a finding that contributed text
	sources := make(map[string]bool)
	for _, f := range used {
		for _, src := range f.SourceURLs {
			sources[src] = true
		}
	}
	for _, c := range slide.Citations {
		if !sources[c] {
			t.Errorf("Citation %q not backed by a contributing finding", c)
		}
	}
}

func TestSynthesize_DoesNotMutateInput(t *testing.T) {
	provider := &stubProvider{content: "Inflows hit $1B.", sources: []string{"https://x.test"}}
	synth := newTestSynthesizer(provider)

	input := plannedSlide()
	before := input.Clone()
	shared := sharedFindings()

	if _, _, err := synth.Synthesize(context.Background(), input, shared, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !reflect.DeepEqual(input, before) {
		t.Errorf("Input slide mutated: %+v vs %+v", input, before)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	provider := &stubProvider{
		content: "Expense ratio was 0.5%. Net inflows reached $300M.",
		sources: []string{"https://www.sebi.gov.in/reports"},
	}
	synth := newTestSynthesizer(provider)
	shared := sharedFindings()

	first, _, err := synth.Synthesize(context.Background(), plannedSlide(), shared, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, _, err := synth.Synthesize(context.Background(), plannedSlide(), shared, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Re-synthesis differed:\n%+v\n%+v", first, second)
	}
}

func TestSynthesize_ChartSlideGetsDataOrDemotes(t *testing.T) {
	// Two named quantities: chart survives
	provider := &stubProvider{
		content: "Revenue 2024: $8M. Revenue 2025: $10M.",
		sources: []string{"https://www.sec.gov/10k"},
	}
	synth := newTestSynthesizer(provider)

	chartPlan := plannedSlide()
	chartPlan.LayoutType = model.LayoutChart
	chartPlan.VisualType = model.VisualBar

	slide, _, err := synth.Synthesize(context.Background(), chartPlan, nil, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if slide.ChartData == nil {
		t.Fatal("Expected chart data from two named quantities")
	}
	if len(slide.ChartData.Labels) != 2 {
		t.Errorf("Expected 2 chart labels, got %v", slide.ChartData.Labels)
	}

	// No named quantities: chart demotes to bullets, no invented numbers
	sparse := &stubProvider{
		content: "The outlook is broadly positive.",
		sources: []string{"https://www.reuters.com/view"},
	}
	synth = newTestSynthesizer(sparse)

	slide, _, err = synth.Synthesize(context.Background(), chartPlan, nil, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if slide.ChartData != nil {
		t.Error("Expected no chart data without named quantities")
	}
	if slide.LayoutType != model.LayoutBullet || slide.VisualType != model.VisualNone {
		t.Errorf("Expected demotion to bullet layout, got %s/%s", slide.LayoutType, slide.VisualType)
	}
}

func TestSynthesize_TargetedQueryRunsDespiteDraftNumbers(t *testing.T) {
	recorder := &queryRecorder{stubProvider: stubProvider{
		content: "Revenue 2025: $10M.",
		sources: []string{"https://www.sec.gov/quarterly"},
	}}
	synth := newTestSynthesizer(recorder)

	// The planning draft already carries a numeric bullet; the slide's own
	// data query must still be issued or its data points never materialize.
	plan := plannedSlide()
	plan.ContentBullets = []string{"Inflows reached $2B in Q3."}

	if _, _, err := synth.Synthesize(context.Background(), plan, sharedFindings(), ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	issued := false
	for _, q := range recorder.queries {
		if q == plan.DataSourceQuery {
			issued = true
		}
	}
	if !issued {
		t.Errorf("Expected data query %q issued, got %v", plan.DataSourceQuery, recorder.queries)
	}
}

func TestSynthesize_NotesExtendTargetedQuery(t *testing.T) {
	recorder := &queryRecorder{stubProvider: stubProvider{
		content: "Corrected figure: $11M.",
		sources: []string{"https://www.sec.gov/amended"},
	}}
	synth := newTestSynthesizer(recorder)

	_, _, err := synth.Synthesize(context.Background(), plannedSlide(), nil, "use the amended filing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(recorder.queries) == 0 {
		t.Fatal("Expected a targeted query")
	}
	for _, q := range recorder.queries {
		if !strings.Contains(q, "use the amended filing") {
			t.Errorf("Expected notes in targeted query, got %q", q)
		}
	}
}

type queryRecorder struct {
	stubProvider
	queries []string
}

func (r *queryRecorder) Search(ctx context.Context, query string) (*search.Result, error) {
	r.queries = append(r.queries, query)
	return r.stubProvider.Search(ctx, query)
}
