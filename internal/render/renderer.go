package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deckforge/internal/model"
)

// DeckRenderer consumes a finalized deck and produces an output artifact.
// The core is agnostic to the artifact format.
type DeckRenderer interface {
	Render(deck *model.Deck) (string, error)
}

// JSONRenderer writes the deck as a JSON artifact
type JSONRenderer struct {
	Dir string
}

// Render writes <dir>/<deck-id>.json and returns the path
func (r *JSONRenderer) Render(deck *model.Deck) (string, error) {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", &model.RenderFailedError{DeckID: deck.ID, Err: err}
	}

	path := filepath.Join(r.Dir, deck.ID+".json")
	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return "", &model.RenderFailedError{DeckID: deck.ID, Err: err}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &model.RenderFailedError{DeckID: deck.ID, Err: err}
	}

	return path, nil
}

// MarkdownRenderer writes the deck as a reviewable Markdown artifact with
// per-slide status, content, and citations
type MarkdownRenderer struct {
	Dir string
}

// Render writes <dir>/<deck-id>.md and returns the path
func (r *MarkdownRenderer) Render(deck *model.Deck) (string, error) {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", &model.RenderFailedError{DeckID: deck.ID, Err: err}
	}

	path := filepath.Join(r.Dir, deck.ID+".md")
	if err := os.WriteFile(path, []byte(renderMarkdown(deck)), 0644); err != nil {
		return "", &model.RenderFailedError{DeckID: deck.ID, Err: err}
	}

	return path, nil
}

func renderMarkdown(deck *model.Deck) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", deck.Topic)
	fmt.Fprintf(&b, "Framework: %s  \n", deck.Framework)
	fmt.Fprintf(&b, "Generated: %s  \n", deck.CreatedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Slides: %d\n\n", len(deck.Slides))

	for _, slide := range deck.Slides {
		fmt.Fprintf(&b, "---\n\n## Slide %d: %s\n\n", slide.ID, slide.Title)
		fmt.Fprintf(&b, "Status: %s | Layout: %s", slide.Status, slide.LayoutType)
		if slide.VisualType != model.VisualNone {
			fmt.Fprintf(&b, " (%s)", slide.VisualType)
		}
		b.WriteString("\n\n")

		if slide.KeyInsight != "" {
			fmt.Fprintf(&b, "**%s**\n\n", slide.KeyInsight)
		}

		for _, bullet := range slide.ContentBullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
		if len(slide.ContentBullets) > 0 {
			b.WriteString("\n")
		}

		if slide.ChartData != nil {
			fmt.Fprintf(&b, "### %s\n\n", slide.ChartData.Title)
			fmt.Fprintf(&b, "| %s |", strings.Join(slide.ChartData.Labels, " | "))
			b.WriteString("\n|")
			b.WriteString(strings.Repeat(" --- |", len(slide.ChartData.Labels)))
			b.WriteString("\n")
			for _, series := range slide.ChartData.Series {
				b.WriteString("|")
				for _, v := range series.Data {
					fmt.Fprintf(&b, " %g |", v)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}

		if len(slide.Citations) > 0 {
			b.WriteString("Sources:\n")
			for _, src := range slide.Citations {
				fmt.Fprintf(&b, "- %s\n", src)
			}
			b.WriteString("\n")
		}

		if len(slide.Violations) > 0 {
			b.WriteString("Open issues:\n")
			for _, v := range slide.Violations {
				fmt.Fprintf(&b, "- [%s] %s\n", v.Type, v.Detail)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// MultiRenderer renders through several renderers and returns the first
// artifact path
type MultiRenderer struct {
	Renderers []DeckRenderer
}

// Render runs every configured renderer; the first failure aborts
func (r *MultiRenderer) Render(deck *model.Deck) (string, error) {
	var first string
	for _, renderer := range r.Renderers {
		path, err := renderer.Render(deck)
		if err != nil {
			return "", err
		}
		if first == "" {
			first = path
		}
	}
	return first, nil
}
