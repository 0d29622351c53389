package search

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"deckforge/internal/model"
	"deckforge/internal/util"
)

const searchSystemInstruction = "You are a financial research analyst. Provide factual, data-driven " +
	"answers with specific numbers, dates, and statistics. Always cite your sources as full URLs. " +
	"Be precise and concise."

// OpenAIProvider implements grounded search over OpenAI's web-search-enabled
// chat completions
type OpenAIProvider struct {
	client *openai.Client
	config model.LLMConfig
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config model.LLMConfig) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	clientConfig.HTTPClient = util.NewHTTPClient(timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy)

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Search executes a single grounded query via the Chat Completions API
func (p *OpenAIProvider) Search(ctx context.Context, query string) (*Result, error) {
	mdl := p.config.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1500
	}

	chatReq := openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: searchSystemInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: query,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2, // Factual research, keep output focused
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	sources := extractURLs(content)

	return &Result{
		Content:    content,
		Sources:    sources,
		Confidence: EstimateConfidence(content, sources),
	}, nil
}

// EstimateConfidence scores a search result in [0,1] from observable quality
// signals: source count, source authority, and numeric density of the text.
func EstimateConfidence(content string, sources []string) float64 {
	if strings.TrimSpace(content) == "" {
		return 0
	}

	confidence := 0.2

	switch {
	case len(sources) >= 3:
		confidence += 0.3
	case len(sources) > 0:
		confidence += 0.2
	}

	for _, src := range sources {
		switch ClassifySource(src) {
		case TierPrimary:
			confidence += 0.15
		case TierSecondary:
			confidence += 0.08
		}
		if confidence >= 0.75 {
			break
		}
	}

	if digitPattern.MatchString(content) {
		confidence += 0.2
	}

	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

var digitPattern = regexp.MustCompile(`\d`)

// extractURLs extracts all URLs from text
func extractURLs(text string) []string {
	urlPattern := regexp.MustCompile(`https?://[^\s\)\]]+`)
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, u := range matches {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}

	return unique
}
