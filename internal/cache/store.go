package cache

import (
	"context"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"deckforge/internal/model"
)

// Fetcher produces a finding for a query that is not yet cached
type Fetcher func(ctx context.Context) (model.Finding, error)

// Store is the research fact store: the single source of truth for every
// grounded finding used downstream. Findings are immutable once inserted and
// keyed by normalized query. Nothing is evicted within a pipeline run; a fresh
// run starts with an empty store.
type Store struct {
	findings *gocache.Cache
	group    singleflight.Group
}

// NewStore creates an empty fact store
func NewStore() *Store {
	return &Store{
		findings: gocache.New(gocache.NoExpiration, 0),
	}
}

// NormalizeQuery case-folds and whitespace-collapses a query so textually
// equivalent searches share one cache entry
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// LookupOrFetch returns the cached finding for the normalized query, or runs
// fetch to produce it. At most one fetch is in flight per normalized query:
// concurrent callers await the in-flight result instead of duplicating the
// network call. A failed fetch does not poison the key; the next caller retries.
func (s *Store) LookupOrFetch(ctx context.Context, query string, fetch Fetcher) (model.Finding, error) {
	key := NormalizeQuery(query)

	if cached, found := s.findings.Get(key); found {
		return cached.(model.Finding), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Re-check: a concurrent caller may have populated the key while
		// this goroutine waited its turn in the group.
		if cached, found := s.findings.Get(key); found {
			return cached.(model.Finding), nil
		}

		finding, err := fetch(ctx)
		if err != nil {
			return model.Finding{}, err
		}
		finding.Query = key
		s.findings.Set(key, finding, gocache.NoExpiration)
		return finding, nil
	})
	if err != nil {
		return model.Finding{}, err
	}
	return v.(model.Finding), nil
}

// Lookup returns the cached finding without fetching
func (s *Store) Lookup(query string) (model.Finding, bool) {
	if cached, found := s.findings.Get(NormalizeQuery(query)); found {
		return cached.(model.Finding), true
	}
	return model.Finding{}, false
}

// Len returns the number of cached findings
func (s *Store) Len() int {
	return s.findings.ItemCount()
}
