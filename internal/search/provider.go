package search

import (
	"context"
	"fmt"
	"strings"

	"deckforge/internal/model"
)

// Result is the raw output of one grounded search call
type Result struct {
	Content    string   // Research text
	Sources    []string // Citable source URLs
	Confidence float64  // [0,1] grounding confidence
}

// Provider is the only network-facing dependency of the research engine: a
// grounded search capability whose answers come with citable source URLs.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Search executes a single grounded query
	Search(ctx context.Context, query string) (*Result, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// NewProvider creates a grounded-search provider based on configuration
func NewProvider(config model.LLMConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, fmt.Errorf("no search provider configured")

	default:
		return nil, fmt.Errorf("unknown search provider: %s (supported: openai)", config.Provider)
	}
}
