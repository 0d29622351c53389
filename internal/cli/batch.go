package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"deckforge/internal/orchestrator"
	"deckforge/internal/search"
	"deckforge/internal/worker"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <topics-file>",
	Short: "Generate decks for multiple topics from a file",
	Long: `Batch reads topics from a file (one per line, # for comments) and
generates a deck for each in full-auto mode: outline A is selected and the
deck is approved without prompting. Topics that fail critic review or hit
unavailable research are reported individually without stopping the batch.

Example:
  deckforge batch topics.txt --concurrency 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "concurrent deck generations")
	batchCmd.Flags().StringVar(&audience, "audience", "", "target audience for framework selection (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 60*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&outDir, "out", "decks", "artifact output directory")
	batchCmd.Flags().StringVar(&llmProvider, "provider", "openai", "grounded search provider")
	batchCmd.Flags().StringVar(&llmModel, "model", "", "provider model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	provider, err := search.NewProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("search provider: %w", err)
	}

	// Each topic gets a fresh orchestrator: pipeline state is per-deck
	builder := func() worker.DeckBuilder {
		return orchestrator.New(cfg, provider, newRenderer(cfg), logger)
	}

	processor := worker.NewBatchProcessor(builder, batchConcurrency)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Topic, result.Err)
			continue
		}
		fmt.Printf("✓ %s: %d slides (deck %s)\n", result.Topic, len(result.Deck.Slides), result.Deck.ID)
	}

	fmt.Printf("\nBatch complete: %d succeeded, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d topics failed", failed, len(results))
	}
	return nil
}
