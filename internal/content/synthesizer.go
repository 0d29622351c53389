package content

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"deckforge/internal/extract"
	"deckforge/internal/model"
	"deckforge/internal/research"
)

const maxBullets = 5

// Synthesizer fills a planned slide with researched content: bullets, key
// insight, chart data, and the citations backing every number. Synthesis is a
// pure function of the findings it is given plus the targeted research it
// fetches, so re-running it with unchanged findings reproduces the slide
// bitwise.
type Synthesizer struct {
	engine *research.Engine
	floor  float64
	log    *zap.Logger
}

// NewSynthesizer creates a content synthesizer
func NewSynthesizer(engine *research.Engine, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{
		engine: engine,
		floor:  engine.ConfidenceFloor(),
		log:    log,
	}
}

// Synthesize returns a new version of the slide with content merged from the
// shared deck findings and targeted research. The input is never mutated, so
// retries and before/after comparisons stay safe. Notes, when present, extend
// the targeted query (user-requested revision).
func (s *Synthesizer) Synthesize(ctx context.Context, slide model.SlidePlan, shared []model.Finding, notes string) (model.SlidePlan, []model.Finding, error) {
	out := slide.Clone()
	out.Violations = nil

	findings := append([]model.Finding(nil), shared...)

	// The slide's own data query always runs. The fact store dedupes repeat
	// queries, and bullets inherited from the planning draft are no
	// substitute for the data points the query targets.
	if strings.TrimSpace(out.DataSourceQuery) != "" {
		query := out
		if notes != "" {
			query.DataSourceQuery = strings.TrimSpace(out.DataSourceQuery + " " + notes)
		}
		targeted, err := s.engine.ResearchSlide(ctx, query)
		if err != nil {
			return slide, nil, err
		}
		findings = append(findings, targeted...)
	}
	out.Status = model.StatusResearched

	// Grounded findings first, highest confidence first; order is stable so
	// synthesis stays deterministic.
	sort.SliceStable(findings, func(i, j int) bool {
		gi, gj := findings[i].Grounded(s.floor), findings[j].Grounded(s.floor)
		if gi != gj {
			return gi
		}
		return findings[i].Confidence > findings[j].Confidence
	})

	used := s.merge(&out, findings)
	out.Status = model.StatusGenerated

	s.log.Debug("slide synthesized",
		zap.Int("slide_id", out.ID),
		zap.Int("bullets", len(out.ContentBullets)),
		zap.Int("citations", len(out.Citations)))

	return out, used, nil
}

// merge rebuilds the slide's content from findings and records provenance.
// Only findings that actually contribute text end up in citations.
func (s *Synthesizer) merge(slide *model.SlidePlan, findings []model.Finding) []model.Finding {
	slide.ContentBullets = nil
	slide.Citations = nil

	var used []model.Finding
	seenBullet := make(map[string]bool)
	seenSource := make(map[string]bool)

	contribute := func(f model.Finding) {
		for _, u := range used {
			if u.Query == f.Query {
				return
			}
		}
		used = append(used, f)
		for _, src := range f.SourceURLs {
			if !seenSource[src] {
				seenSource[src] = true
				slide.Citations = append(slide.Citations, src)
			}
		}
	}

	for _, f := range findings {
		if len(slide.ContentBullets) >= maxBullets {
			break
		}
		for _, sentence := range extract.NumericSentences(f.Content) {
			if len(slide.ContentBullets) >= maxBullets {
				break
			}
			if seenBullet[sentence] {
				continue
			}
			seenBullet[sentence] = true
			slide.ContentBullets = append(slide.ContentBullets, sentence)
			contribute(f)
		}
	}

	// No numeric material anywhere: fall back to plain sentences so the
	// slide is not empty. The critic will not find numbers to flag.
	if len(slide.ContentBullets) == 0 {
		for _, f := range findings {
			for _, sentence := range extract.Sentences(f.Content) {
				if len(slide.ContentBullets) >= 3 {
					break
				}
				if seenBullet[sentence] {
					continue
				}
				seenBullet[sentence] = true
				slide.ContentBullets = append(slide.ContentBullets, sentence)
				contribute(f)
			}
			if len(slide.ContentBullets) >= 3 {
				break
			}
		}
	}

	if len(used) > 0 {
		slide.KeyInsight = firstSentence(used[0].Content)
	}

	if slide.LayoutType == model.LayoutChart {
		slide.ChartData = buildChartData(slide.Title, used)
		if slide.ChartData == nil {
			// Nothing chartable in the research: degrade to bullets rather
			// than invent numbers.
			slide.LayoutType = model.LayoutBullet
			slide.VisualType = model.VisualNone
		}
	}

	return used
}

// buildChartData assembles a single-series chart from the named quantities
// found in the contributing research. Returns nil when fewer than two
// quantities exist; a one-bar chart says nothing.
func buildChartData(title string, findings []model.Finding) *model.ChartData {
	var labels []string
	var values []float64
	seen := make(map[string]bool)

	for _, f := range findings {
		carrier := model.SlidePlan{ContentBullets: extract.NumericSentences(f.Content)}
		for _, q := range extract.Quantities(carrier) {
			if seen[q.Name] {
				continue
			}
			seen[q.Name] = true
			labels = append(labels, q.Name)
			values = append(values, q.Value)
			if len(labels) >= 6 {
				break
			}
		}
		if len(labels) >= 6 {
			break
		}
	}

	if len(labels) < 2 {
		return nil
	}

	return &model.ChartData{
		Title:  title,
		Labels: labels,
		Series: []model.ChartSeries{
			{Label: "Reported figures", Data: values},
		},
	}
}

func firstSentence(text string) string {
	sentences := extract.Sentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}
	return sentences[0]
}
