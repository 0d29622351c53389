package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"deckforge/internal/cache"
	"deckforge/internal/model"
	"deckforge/internal/search"
)

const (
	minSubtopics = 3
	maxSubtopics = 6
)

// subtopicAspects are the angles a financial topic is decomposed into. The
// first N (configured subtopic count) become one grounded query each.
var subtopicAspects = []string{
	"market size and growth",
	"recent performance and key financial results",
	"key players and competitive landscape",
	"risks and challenges",
	"future outlook and forecasts",
	"regulatory and industry trends",
}

// Engine issues grounded queries against the search capability and normalizes
// results into findings. Every query routes through the fact store, so a
// repeated query returns the cached finding instead of a new network call.
type Engine struct {
	provider  search.Provider
	store     *cache.Store
	limiter   *rate.Limiter
	retry     RetryPolicy
	floor     float64
	subtopics int
	workers   int
	log       *zap.Logger
}

// NewEngine creates a research engine
func NewEngine(provider search.Provider, store *cache.Store, cfg model.ResearchConfig, log *zap.Logger) *Engine {
	subtopics := cfg.Subtopics
	if subtopics < minSubtopics {
		subtopics = minSubtopics
	}
	if subtopics > maxSubtopics {
		subtopics = maxSubtopics
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 3
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 4
	}

	policy := RetryPolicy{MaxAttempts: cfg.MaxRetries, BaseWait: cfg.RetryBaseWait}
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		provider:  provider,
		store:     store,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		retry:     policy,
		floor:     cfg.ConfidenceFloor,
		subtopics: subtopics,
		workers:   workers,
		log:       log,
	}
}

// ConfidenceFloor returns the configured low-confidence floor
func (e *Engine) ConfidenceFloor() float64 {
	return e.floor
}

// ResearchTopic decomposes the topic into subtopics and issues one grounded
// query per subtopic concurrently. All findings are returned, including
// low-confidence ones; the critic treats those as insufficient grounding.
func (e *Engine) ResearchTopic(ctx context.Context, topic string) ([]model.Finding, error) {
	queries := e.decompose(topic)
	e.log.Info("researching topic",
		zap.String("topic", topic),
		zap.Int("subtopics", len(queries)))

	findings := make([]model.Finding, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, q := range queries {
		g.Go(func() error {
			f, err := e.fetch(gctx, q)
			if err != nil {
				return err
			}
			findings[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return findings, nil
}

// ResearchSlide issues a single targeted query built from the slide's
// data-source query, used when a slide is missing a specific data point
func (e *Engine) ResearchSlide(ctx context.Context, slide model.SlidePlan) ([]model.Finding, error) {
	if strings.TrimSpace(slide.DataSourceQuery) == "" {
		return nil, nil
	}

	f, err := e.fetch(ctx, slide.DataSourceQuery)
	if err != nil {
		return nil, err
	}
	return []model.Finding{f}, nil
}

// Synthesize concatenates the grounded findings into a deterministic summary
// string used as shared context downstream
func Synthesize(topic string, findings []model.Finding, floor float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research summary: %s\n", topic)
	for _, f := range findings {
		if !f.Grounded(floor) {
			continue
		}
		fmt.Fprintf(&b, "- [%s] %s\n", f.Query, f.Content)
	}
	return b.String()
}

// decompose builds one query per subtopic aspect
func (e *Engine) decompose(topic string) []string {
	queries := make([]string, 0, e.subtopics)
	for _, aspect := range subtopicAspects[:e.subtopics] {
		queries = append(queries, fmt.Sprintf("%s: %s", topic, aspect))
	}
	return queries
}

// fetch routes one query through the fact store, retrying transient provider
// failures with exponential backoff. Exhausting the retry budget surfaces a
// ResearchUnavailable error rather than silently returning an empty finding.
func (e *Engine) fetch(ctx context.Context, query string) (model.Finding, error) {
	return e.store.LookupOrFetch(ctx, query, func(ctx context.Context) (model.Finding, error) {
		var lastErr error

		for attempt := 0; attempt < e.retry.MaxAttempts; attempt++ {
			if err := e.limiter.Wait(ctx); err != nil {
				return model.Finding{}, err
			}

			result, err := e.provider.Search(ctx, query)
			if err == nil {
				return model.Finding{
					Query:      query,
					Content:    result.Content,
					SourceURLs: result.Sources,
					Confidence: result.Confidence,
				}, nil
			}

			lastErr = err
			if !isRetryable(err) || ctx.Err() != nil {
				break
			}

			e.log.Warn("search attempt failed, retrying",
				zap.String("query", query),
				zap.Int("attempt", attempt+1),
				zap.Error(err))

			if attempt < e.retry.MaxAttempts-1 {
				if err := sleepFunc(ctx, e.retry.Backoff(attempt)); err != nil {
					return model.Finding{}, err
				}
			}
		}

		return model.Finding{}, &model.ResearchUnavailableError{
			Query:    query,
			Attempts: e.retry.MaxAttempts,
			Err:      lastErr,
		}
	})
}
