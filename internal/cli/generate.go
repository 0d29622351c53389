package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"deckforge/internal/model"
	"deckforge/internal/orchestrator"
	"deckforge/internal/render"
	"deckforge/internal/search"
)

var (
	audience    string
	slideCount  int
	subtopics   int
	autoMode    bool
	outDir      string
	llmProvider string
	llmModel    string
	timeout     time.Duration
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a fact-checked slide deck for a topic",
	Long: `Generate runs the full pipeline for a single topic:
- Decompose the topic and run grounded research
- Select the 2 best narrative frameworks and draft comparative outlines
- Synthesize per-slide content with targeted deep research
- Validate every number against its citations and across slides
- Render the approved deck

The pipeline parks twice for review: outline selection and deck approval.
Use --auto to answer both gates automatically (outline A, immediate approval).
Answering 'q' at either gate parks the pipeline in a snapshot that the
resume command can pick up later.

Example:
  deckforge generate "Q3 SIP inflows for XYZ Mutual Fund"
  deckforge generate "European bond market outlook" --audience "retail investors" --auto`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&audience, "audience", "", "target audience for framework selection (default from config)")
	generateCmd.Flags().IntVar(&slideCount, "slides", 12, "target slide count")
	generateCmd.Flags().IntVar(&subtopics, "subtopics", 5, "research subtopic count (3-6)")
	generateCmd.Flags().BoolVar(&autoMode, "auto", false, "answer both review gates automatically")
	generateCmd.Flags().StringVar(&outDir, "out", "decks", "artifact output directory")
	generateCmd.Flags().StringVar(&llmProvider, "provider", "openai", "grounded search provider")
	generateCmd.Flags().StringVar(&llmModel, "model", "", "provider model name")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall pipeline timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic := args[0]
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

	// Phase 1: research
	findings, err := orch.RunResearch(ctx, topic)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Research complete: %d findings\n", len(findings))
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "\n%s\n\n", orch.ResearchSummary())
	}

	// Phase 2: planning
	if err := orch.RunPlanning(ctx, cfg.Storyline.Audience); err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	scores := orch.FrameworkScores()
	fmt.Fprintf(os.Stderr, "✓ Frameworks: %s vs %s\n", scores[0].Name, scores[1].Name)
	fmt.Fprintf(os.Stderr, "  %s\n", scores[0].Rationale)

	// Gate 1 onward is shared with resume
	return runFromOutlineGate(ctx, cfg, orch)
}

// newRenderer builds the artifact renderer stack for the configured output dir
func newRenderer(cfg *model.Config) *render.MultiRenderer {
	return &render.MultiRenderer{Renderers: []render.DeckRenderer{
		&render.MarkdownRenderer{Dir: cfg.Output.Dir},
		&render.JSONRenderer{Dir: cfg.Output.Dir},
	}}
}

// runFromOutlineGate drives the pipeline from the comparative-review gate to
// completion: outline choice, content generation, the critic barrier, deck
// review, and rendering
func runFromOutlineGate(ctx context.Context, cfg *model.Config, orch *orchestrator.Orchestrator) error {
	choice := 0
	if !autoMode {
		printOutlines(orch)
		c, quit, err := promptOutlineChoice()
		if err != nil {
			return err
		}
		if quit {
			return parkPipeline(orch, cfg)
		}
		choice = c
	}
	if err := orch.SelectOutline(choice); err != nil {
		return err
	}

	// Phase 3: content generation + per-slide critic
	if err := orch.RunContentGeneration(ctx); err != nil {
		return fmt.Errorf("content generation failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Content generated\n")

	// Phase 4: cross-slide critic barrier
	if err := orch.RunCriticReview(ctx); err != nil {
		printConflicts(orch)
		if path, snapErr := orch.SaveSnapshot(cfg.Output.SnapshotDir); snapErr == nil {
			fmt.Fprintf(os.Stderr, "Pipeline snapshot saved: %s\n", path)
		}
		return fmt.Errorf("critic review failed: %w", err)
	}

	return runFromDeckGate(ctx, cfg, orch)
}

// runFromDeckGate drives the pipeline from the deck-review gate through
// rendering
func runFromDeckGate(ctx context.Context, cfg *model.Config, orch *orchestrator.Orchestrator) error {
	printAudit(orch)

	if !autoMode {
		approved, err := deckReviewLoop(ctx, orch)
		if err != nil {
			return err
		}
		if !approved {
			return parkPipeline(orch, cfg)
		}
	}

	path, err := orch.Finalize(ctx)
	if err != nil {
		return fmt.Errorf("finalize failed: %w", err)
	}

	fmt.Printf("✓ Deck written: %s\n", path)
	return nil
}

// parkPipeline snapshots a gate-parked pipeline so resume can pick it up
func parkPipeline(orch *orchestrator.Orchestrator, cfg *model.Config) error {
	path, err := orch.SaveSnapshot(cfg.Output.SnapshotDir)
	if err != nil {
		return fmt.Errorf("park pipeline: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Pipeline parked: %s\n", path)
	fmt.Fprintf(os.Stderr, "Resume with: deckforge resume %s\n", path)
	return nil
}

// buildConfig merges defaults, config file, env, and flags, in that order of
// precedence. The API key comes from the environment only, never from file.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring malformed config: %v\n", err)
	}

	if slideCount > 0 {
		cfg.Storyline.TargetSlides = slideCount
	}
	if subtopics > 0 {
		cfg.Research.Subtopics = subtopics
	}
	if audience != "" {
		cfg.Storyline.Audience = audience
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	cfg.Output.Verbose = verbose
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")

	return cfg
}

func printOutlines(orch *orchestrator.Orchestrator) {
	outlines := orch.Outlines()
	for i, outline := range outlines {
		label := "A"
		if i == 1 {
			label = "B"
		}
		fmt.Printf("\n═══ Outline %s: %s ═══\n", label, outline.FrameworkName)
		for j, slide := range outline.Slides {
			marker := " "
			if slide.LayoutType == model.LayoutChart {
				marker = "▤"
			}
			fmt.Printf("  %2d. %s %s\n", j+1, marker, slide.Title)
		}
	}
	fmt.Println()
}

func promptOutlineChoice() (int, bool, error) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Select outline [a/b, q = park]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, false, fmt.Errorf("read selection: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a":
			return 0, false, nil
		case "b":
			return 1, false, nil
		case "q":
			return 0, true, nil
		}
		fmt.Println("Please answer 'a', 'b', or 'q'.")
	}
}

func printConflicts(orch *orchestrator.Orchestrator) {
	conflicts := orch.Conflicts()
	if len(conflicts) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\nCross-slide conflicts:\n")
	for _, c := range conflicts {
		fmt.Fprintf(os.Stderr, "  %q disagrees across slides %v:\n", c.Name, c.SlideIDs)
		for _, q := range c.Values {
			fmt.Fprintf(os.Stderr, "    slide %d: %g %s\n", q.SlideID, q.Value, q.Unit)
		}
	}
}

func printAudit(orch *orchestrator.Orchestrator) {
	audit := orch.Audit()
	if audit == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "✓ Grounding audit: %d/100 (%s confidence)\n", audit.Index, audit.Confidence)
	for _, signal := range audit.Signals {
		if signal.Severity != "info" {
			fmt.Fprintf(os.Stderr, "  ! %s\n", signal.Description)
		}
	}
}

// deckReviewLoop parks at the deck-review gate: the user can approve, request
// a per-slide revision with notes, or park the pipeline for later. Returns
// false when the user chose to park.
func deckReviewLoop(ctx context.Context, orch *orchestrator.Orchestrator) (bool, error) {
	reader := bufio.NewReader(os.Stdin)

	for {
		printUnverified(orch)
		fmt.Print("Approve deck? [y = approve / r <slide> <notes> = revise / q = park]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("read approval: %w", err)
		}
		line = strings.TrimSpace(line)

		switch {
		case strings.EqualFold(line, "y"):
			return true, nil
		case strings.EqualFold(line, "q"):
			return false, nil
		case strings.HasPrefix(strings.ToLower(line), "r "):
			fields := strings.SplitN(line, " ", 3)
			if len(fields) < 2 {
				fmt.Println("Usage: r <slide-id> [notes]")
				continue
			}
			slideID, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("Slide id must be a number.")
				continue
			}
			notes := ""
			if len(fields) == 3 {
				notes = fields[2]
			}
			if err := orch.RequestRevision(ctx, slideID, notes); err != nil {
				fmt.Fprintf(os.Stderr, "Revision failed: %v\n", err)
				continue
			}
			fmt.Fprintf(os.Stderr, "✓ Slide %d revised\n", slideID)
			printAudit(orch)
		default:
			fmt.Println("Please answer 'y', 'r <slide> <notes>', or 'q'.")
		}
	}
}

func printUnverified(orch *orchestrator.Orchestrator) {
	deck := orch.Deck()
	if deck == nil {
		return
	}
	for _, slide := range deck.Slides {
		if slide.Status == model.StatusApproved {
			continue
		}
		fmt.Fprintf(os.Stderr, "  ! Slide %d (%s) is %s\n", slide.ID, slide.Title, slide.Status)
		for _, v := range slide.Violations {
			fmt.Fprintf(os.Stderr, "      - %s\n", v.Detail)
		}
	}
}
