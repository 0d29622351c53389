package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"deckforge/internal/model"
)

type fakeBuilder struct {
	failTopic string
}

func (f *fakeBuilder) BuildDeck(ctx context.Context, topic string) (*model.Deck, error) {
	if topic == f.failTopic {
		return nil, errors.New("pipeline failed")
	}
	return &model.Deck{ID: "deck-" + topic, Topic: topic}, nil
}

func TestBatchProcessor_ProcessTopics(t *testing.T) {
	var built int32
	processor := NewBatchProcessor(func() DeckBuilder {
		atomic.AddInt32(&built, 1)
		return &fakeBuilder{}
	}, 2)

	topics := []string{"fund a", "fund b", "fund c"}
	results := processor.ProcessTopics(context.Background(), topics)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Topic != topics[i] {
			t.Errorf("Result %d out of order: %q", i, r.Topic)
		}
		if r.Err != nil {
			t.Errorf("Topic %q failed: %v", r.Topic, r.Err)
		}
		if r.Deck == nil || r.Deck.Topic != topics[i] {
			t.Errorf("Topic %q got wrong deck: %+v", topics[i], r.Deck)
		}
	}

	// One fresh builder per topic: pipeline state is per-deck
	if got := atomic.LoadInt32(&built); got != 3 {
		t.Errorf("Expected 3 builders, got %d", got)
	}
}

func TestBatchProcessor_FailuresDoNotStopTheBatch(t *testing.T) {
	processor := NewBatchProcessor(func() DeckBuilder {
		return &fakeBuilder{failTopic: "first"}
	}, 1)

	results := processor.ProcessTopics(context.Background(), []string{"first", "second"})

	if results[0].Err == nil {
		t.Error("Expected first topic to fail")
	}
	if results[1].Err != nil {
		t.Errorf("Expected second topic to succeed, got %v", results[1].Err)
	}
}

func TestBatchProcessor_EmptyTopics(t *testing.T) {
	processor := NewBatchProcessor(func() DeckBuilder { return &fakeBuilder{} }, 2)

	results := processor.ProcessTopics(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestReadTopicsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	content := `# quarterly decks
XYZ Mutual Fund Q3

ABC Pension Fund
XYZ Mutual Fund Q3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Write fixture: %v", err)
	}

	topics, err := ReadTopicsFromFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"XYZ Mutual Fund Q3", "ABC Pension Fund"}
	if len(topics) != len(want) {
		t.Fatalf("Expected %d topics, got %v", len(want), topics)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("Topic %d = %q, want %q", i, topics[i], want[i])
		}
	}
}

func TestReadTopicsFromFile_Missing(t *testing.T) {
	if _, err := ReadTopicsFromFile("/nonexistent/topics.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	if err := os.WriteFile(path, []byte("only topic\n"), 0644); err != nil {
		t.Fatalf("Write fixture: %v", err)
	}

	processor := NewBatchProcessor(func() DeckBuilder { return &fakeBuilder{} }, 1)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 1 || results[0].Deck == nil {
		t.Errorf("Expected one successful result, got %v", results)
	}
}
