package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"deckforge/internal/model"
)

func TestNormalizeQuery(t *testing.T) {
	cases := []struct{ in, want string }{
		{"SIP Inflows Q3", "sip inflows q3"},
		{"  sip   inflows\tQ3 ", "sip inflows q3"},
		{"sip inflows q3", "sip inflows q3"},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStore_LookupOrFetch_CachesByNormalizedQuery(t *testing.T) {
	store := NewStore()
	calls := 0

	fetch := func(ctx context.Context) (model.Finding, error) {
		calls++
		return model.Finding{Content: "result", Confidence: 0.8}, nil
	}

	first, err := store.LookupOrFetch(context.Background(), "SIP Inflows Q3", fetch)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Textually different, semantically identical query hits the cache
	second, err := store.LookupOrFetch(context.Background(), "  sip   inflows q3", fetch)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if calls != 1 {
		t.Errorf("Expected exactly 1 fetch, got %d", calls)
	}
	if first.Content != second.Content {
		t.Errorf("Expected identical cached finding, got %q vs %q", first.Content, second.Content)
	}
	if first.Query != "sip inflows q3" {
		t.Errorf("Expected finding keyed by normalized query, got %q", first.Query)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 cached finding, got %d", store.Len())
	}
}

func TestStore_LookupOrFetch_SingleFlight(t *testing.T) {
	store := NewStore()
	var calls int32
	release := make(chan struct{})

	fetch := func(ctx context.Context) (model.Finding, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return model.Finding{Content: "shared"}, nil
	}

	var wg sync.WaitGroup
	results := make([]model.Finding, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := store.LookupOrFetch(context.Background(), "same query", fetch)
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			results[i] = f
		}()
	}

	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 in-flight fetch for concurrent callers, got %d", got)
	}
	for i, f := range results {
		if f.Content != "shared" {
			t.Errorf("Caller %d got %q, want shared result", i, f.Content)
		}
	}
}

func TestStore_FailedFetchDoesNotPoison(t *testing.T) {
	store := NewStore()
	calls := 0

	failing := func(ctx context.Context) (model.Finding, error) {
		calls++
		return model.Finding{}, errors.New("provider down")
	}
	working := func(ctx context.Context) (model.Finding, error) {
		calls++
		return model.Finding{Content: "recovered"}, nil
	}

	if _, err := store.LookupOrFetch(context.Background(), "q", failing); err == nil {
		t.Fatal("Expected fetch error")
	}
	if store.Len() != 0 {
		t.Errorf("Expected failed fetch not cached, store has %d entries", store.Len())
	}

	f, err := store.LookupOrFetch(context.Background(), "q", working)
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if f.Content != "recovered" {
		t.Errorf("Expected recovered finding, got %q", f.Content)
	}
	if calls != 2 {
		t.Errorf("Expected 2 fetches total, got %d", calls)
	}
}

func TestStore_Lookup(t *testing.T) {
	store := NewStore()

	if _, found := store.Lookup("missing"); found {
		t.Error("Expected miss on empty store")
	}

	_, _ = store.LookupOrFetch(context.Background(), "Present Query", func(ctx context.Context) (model.Finding, error) {
		return model.Finding{Content: "here"}, nil
	})

	f, found := store.Lookup("present query")
	if !found {
		t.Fatal("Expected hit for normalized lookup")
	}
	if f.Content != "here" {
		t.Errorf("Expected cached content, got %q", f.Content)
	}
}
