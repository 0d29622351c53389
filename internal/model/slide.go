package model

// SlideStatus tracks a slide's progress through content generation and review
type SlideStatus string

const (
	StatusPlanned    SlideStatus = "planned"    // Created by the storyline generator
	StatusResearched SlideStatus = "researched" // Targeted research attached
	StatusGenerated  SlideStatus = "generated"  // Content synthesized, awaiting critic
	StatusApproved   SlideStatus = "approved"   // Passed both critic checks, immutable
	StatusUnverified SlideStatus = "unverified" // Dead end: grounding impossible without manual override
)

// LayoutType describes the slide's structural layout
type LayoutType string

const (
	LayoutBullet LayoutType = "bullet"
	LayoutChart  LayoutType = "chart"
	LayoutTable  LayoutType = "table"
	LayoutSplit  LayoutType = "split"
)

// VisualType describes the chart style for chart layouts
type VisualType string

const (
	VisualBar  VisualType = "bar"
	VisualLine VisualType = "line"
	VisualPie  VisualType = "pie"
	VisualNone VisualType = "none"
)

// ChartSeries is a single data series within a chart
type ChartSeries struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is the structured table backing a chart slide
type ChartData struct {
	Title      string        `json:"title"`
	Labels     []string      `json:"labels"`
	Series     []ChartSeries `json:"series"`
	XAxisLabel string        `json:"x_axis_label,omitempty"`
	YAxisLabel string        `json:"y_axis_label,omitempty"`
}

// Clone returns a deep copy of the chart data
func (c *ChartData) Clone() *ChartData {
	if c == nil {
		return nil
	}
	out := &ChartData{
		Title:      c.Title,
		Labels:     append([]string(nil), c.Labels...),
		XAxisLabel: c.XAxisLabel,
		YAxisLabel: c.YAxisLabel,
	}
	for _, s := range c.Series {
		out.Series = append(out.Series, ChartSeries{
			Label: s.Label,
			Data:  append([]float64(nil), s.Data...),
		})
	}
	return out
}

// SlidePlan is the per-slide unit of planning, generation, and validation state.
// Created by the storyline generator, refined by content synthesis, judged by the
// critic. Ids are stable once assigned and never reused on reorder.
type SlidePlan struct {
	ID              int         `json:"id"`
	Title           string      `json:"title"`
	LayoutType      LayoutType  `json:"layout_type"`
	VisualType      VisualType  `json:"visual_type"`
	KeyInsight      string      `json:"key_insight,omitempty"`
	ContentBullets  []string    `json:"content_bullets,omitempty"`
	ChartData       *ChartData  `json:"chart_data,omitempty"`
	DataSourceQuery string      `json:"data_source_query,omitempty"`
	Citations       []string    `json:"citations,omitempty"` // Source URLs backing every number on the slide
	Status          SlideStatus `json:"status"`
	Violations      []Violation `json:"violations,omitempty"` // Attached by the critic on revise/reject
}

// Clone returns a deep copy so synthesis can return a new version without
// mutating the input (retries and comparisons stay safe).
func (s SlidePlan) Clone() SlidePlan {
	out := s
	out.ContentBullets = append([]string(nil), s.ContentBullets...)
	out.Citations = append([]string(nil), s.Citations...)
	out.Violations = append([]Violation(nil), s.Violations...)
	out.ChartData = s.ChartData.Clone()
	return out
}
