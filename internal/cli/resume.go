package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"deckforge/internal/orchestrator"
	"deckforge/internal/search"
)

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume <snapshot>",
	Short: "Resume a parked pipeline from a snapshot file",
	Long: `Resume rehydrates a pipeline from a snapshot written by generate, either
when the user parked it with 'q' at a review gate or when critic review
failed, and continues from the gate it stopped at: outline selection or
deck approval.

Example:
  deckforge resume .deckforge/deck-1a2b3c.json`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	rootCmd.AddCommand(resumeCmd)

	resumeCmd.Flags().BoolVar(&autoMode, "auto", false, "answer the remaining gates automatically")
	resumeCmd.Flags().StringVar(&outDir, "out", "decks", "artifact output directory")
	resumeCmd.Flags().StringVar(&llmProvider, "provider", "openai", "grounded search provider")
	resumeCmd.Flags().StringVar(&llmModel, "model", "", "provider model name")
	resumeCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall pipeline timeout")
}

func runResume(cmd *cobra.Command, args []string) error {
	snap, err := orchestrator.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
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

	orch := orchestrator.New(cfg, provider, newRenderer(cfg), logger)
	if err := orch.Restore(snap); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Pipeline restored: %q parked at %s since %s\n",
		snap.Topic, snap.State, snap.SavedAt.Format(time.RFC3339))

	switch snap.State {
	case orchestrator.StateComparativeReview:
		return runFromOutlineGate(ctx, cfg, orch)
	case orchestrator.StateDeckReview:
		return runFromDeckGate(ctx, cfg, orch)
	default:
		return fmt.Errorf("snapshot state %s has no resume point", snap.State)
	}
}
