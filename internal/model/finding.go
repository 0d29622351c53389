package model

// Finding represents a single grounded research result
type Finding struct {
	Query      string   `json:"query"`                 // Normalized search query that produced it
	Content    string   `json:"content"`               // Research text returned by the provider
	SourceURLs []string `json:"source_urls,omitempty"` // Citable sources backing the content
	Confidence float64  `json:"confidence"`            // [0,1] grounding confidence
}

// Grounded reports whether the finding carries enough backing to support
// numeric claims: at least one source URL and confidence at or above the floor.
func (f Finding) Grounded(floor float64) bool {
	return len(f.SourceURLs) > 0 && f.Confidence >= floor
}

// NamedQuantity is a canonicalized (label, value, unit) extracted from slide
// content for cross-slide comparison. Derived data, recomputed on every pass.
type NamedQuantity struct {
	Name    string  `json:"name"`  // Canonical label, e.g. "revenue 2025"
	Value   float64 `json:"value"` // Scaled numeric value
	Unit    string  `json:"unit,omitempty"`
	SlideID int     `json:"slide_id"`
}
