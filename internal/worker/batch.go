package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"deckforge/internal/model"
)

// DeckBuilder generates a full deck for a topic without human gates
type DeckBuilder interface {
	BuildDeck(ctx context.Context, topic string) (*model.Deck, error)
}

// TopicResult is the outcome of one batch topic
type TopicResult struct {
	Topic string
	Deck  *model.Deck
	Err   error
}

// BatchProcessor generates decks for multiple topics concurrently in
// full-auto mode (outline A auto-selected, deck auto-approved)
type BatchProcessor struct {
	builder     func() DeckBuilder // Each topic gets its own builder: pipeline state is per-deck
	concurrency int
}

// NewBatchProcessor creates a batch processor. builder is called once per
// topic because orchestrator state and the research cache are scoped to a
// single deck generation.
func NewBatchProcessor(builder func() DeckBuilder, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{builder: builder, concurrency: concurrency}
}

// ProcessTopics generates decks for all topics concurrently
func (b *BatchProcessor) ProcessTopics(ctx context.Context, topics []string) []TopicResult {
	if len(topics) == 0 {
		return []TopicResult{}
	}

	results := make([]TopicResult, len(topics))
	semaphore := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for i, topic := range topics {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[i] = TopicResult{Topic: topic, Err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			deck, err := b.builder().BuildDeck(ctx, topic)
			results[i] = TopicResult{Topic: topic, Deck: deck, Err: err}
		}()
	}

	wg.Wait()
	return results
}

// ProcessFile reads topics from a file and generates a deck for each
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]TopicResult, error) {
	topics, err := ReadTopicsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}

	return b.ProcessTopics(ctx, topics), nil
}

// ReadTopicsFromFile reads topics from a file (one per line), skipping blank
// lines, comments, and duplicates
func ReadTopicsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var topics []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			topics = append(topics, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return topics, nil
}
