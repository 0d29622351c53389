package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"deckforge/internal/cache"
	"deckforge/internal/content"
	"deckforge/internal/critic"
	"deckforge/internal/framework"
	"deckforge/internal/model"
	"deckforge/internal/render"
	"deckforge/internal/research"
	"deckforge/internal/search"
	"deckforge/internal/storyline"
	"deckforge/internal/worker"
)

// Orchestrator drives the research-to-slide pipeline through its stages in
// order, parks at the two user gates, and owns every slide status mutation.
// One orchestrator generates one deck; the research cache lives and dies with
// it.
type Orchestrator struct {
	cfg       *model.Config
	store     *cache.Store
	engine    *research.Engine
	selector  *framework.Selector
	storyline *storyline.Generator
	synth     *content.Synthesizer
	critic    *critic.Critic
	renderer  render.DeckRenderer
	log       *zap.Logger

	mu            sync.Mutex
	state         State
	topic         string
	audience      string
	topicFindings []model.Finding
	summary       string
	scores        [2]model.FrameworkScore
	outlines      [2]model.Outline
	deck          *model.Deck
	slideFindings map[int][]model.Finding // Research backing each slide, for the critic
	conflicts     []model.ConsistencyConflict
	audit         *critic.Audit
	errs          []string
	artifact      string
}

// New wires the pipeline components for a single deck generation
func New(cfg *model.Config, provider search.Provider, renderer render.DeckRenderer, log *zap.Logger) *Orchestrator {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	store := cache.NewStore()
	engine := research.NewEngine(provider, store, cfg.Research, log)

	return &Orchestrator{
		cfg:           cfg,
		store:         store,
		engine:        engine,
		selector:      framework.NewSelector(),
		storyline:     storyline.NewGenerator(cfg.Storyline, cfg.Research.ConfidenceFloor, log),
		synth:         content.NewSynthesizer(engine, log),
		critic:        critic.NewCritic(cfg.Critic, cfg.Research.ConfidenceFloor, log),
		renderer:      renderer,
		log:           log,
		state:         StateIdle,
		slideFindings: make(map[int][]model.Finding),
	}
}

// State returns the current pipeline state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Deck returns a deep copy of the current deck, or nil before planning
func (o *Orchestrator) Deck() *model.Deck {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.deck.Clone()
}

// Conflicts returns unresolved cross-slide conflicts from the last critic pass
func (o *Orchestrator) Conflicts() []model.ConsistencyConflict {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]model.ConsistencyConflict(nil), o.conflicts...)
}

// Audit returns the deck-level grounding audit, or nil before critic review
func (o *Orchestrator) Audit() *critic.Audit {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.audit
}

// Outlines returns the two candidate outlines while parked in comparative review
func (o *Orchestrator) Outlines() [2]model.Outline {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outlines
}

// FrameworkScores returns the selected framework pair with rationale
func (o *Orchestrator) FrameworkScores() [2]model.FrameworkScore {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scores
}

// Artifact returns the rendered artifact path after Done
func (o *Orchestrator) Artifact() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.artifact
}

// setState performs a validated transition under the lock
func (o *Orchestrator) setState(to State) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, err := Transition(o.state, to)
	if err != nil {
		return err
	}
	o.log.Info("pipeline state", zap.String("from", string(o.state)), zap.String("to", string(next)))
	o.state = next
	return nil
}

// fail moves the pipeline to Error, preserving the last consistent deck
// snapshot for inspection. Cancellation is not failure: a context error
// restores the state the stage was entered from.
func (o *Orchestrator) fail(entry State, stage string, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		o.log.Warn("stage cancelled", zap.String("stage", stage), zap.Error(err))
		o.state = entry
		return err
	}

	o.log.Error("stage failed", zap.String("stage", stage), zap.Error(err))
	o.state = StateError
	o.errs = append(o.errs, fmt.Sprintf("%s: %v", stage, err))
	return err
}

// RunResearch executes the research phase: topic decomposition and concurrent
// grounded queries
func (o *Orchestrator) RunResearch(ctx context.Context, topic string) ([]model.Finding, error) {
	entry := o.State()
	if err := o.setState(StateResearching); err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.topic = topic
	o.mu.Unlock()

	findings, err := o.engine.ResearchTopic(ctx, topic)
	if err != nil {
		return nil, o.fail(entry, "research", err)
	}

	o.mu.Lock()
	o.topicFindings = findings
	o.summary = research.Synthesize(topic, findings, o.engine.ConfidenceFloor())
	o.mu.Unlock()

	o.log.Info("research complete", zap.Int("findings", len(findings)))
	return findings, nil
}

// ResearchSummary returns the deterministic summary of the grounded topic
// findings, empty before research
func (o *Orchestrator) ResearchSummary() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.summary
}

// RunPlanning selects the framework pair and generates the two comparative
// outlines, then parks at the comparative review gate
func (o *Orchestrator) RunPlanning(ctx context.Context, audience string) error {
	o.mu.Lock()
	if len(o.topicFindings) == 0 {
		o.mu.Unlock()
		return fmt.Errorf("cannot plan without research findings")
	}
	topic := o.topic
	findings := append([]model.Finding(nil), o.topicFindings...)
	o.audience = audience
	o.mu.Unlock()

	entry := o.State()
	if err := o.setState(StatePlanning); err != nil {
		return err
	}

	scores := o.selector.Select(topic, audience)
	o.log.Info("frameworks selected",
		zap.String("first", scores[0].Name),
		zap.String("second", scores[1].Name),
		zap.String("rationale", scores[0].Rationale))

	a, b, err := o.storyline.GenerateComparativeOutlines(topic, findings, scores)
	if err != nil {
		return o.fail(entry, "planning", err)
	}

	o.mu.Lock()
	o.scores = scores
	o.outlines = [2]model.Outline{a, b}
	o.mu.Unlock()

	return o.setState(StateComparativeReview)
}

// SelectOutline is the comparative-review gate signal: the user picks outline
// 0 or 1, which finalizes the canonical deck. The pipeline stays parked until
// RunContentGeneration is invoked.
func (o *Orchestrator) SelectOutline(index int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateComparativeReview {
		return fmt.Errorf("outline selection requires %s state, currently %s", StateComparativeReview, o.state)
	}
	if index != 0 && index != 1 {
		return fmt.Errorf("outline index must be 0 or 1, got %d", index)
	}

	o.deck = o.storyline.FinalizeSelection(o.topic, o.outlines[index])
	return nil
}

// RunContentGeneration synthesizes every slide concurrently, applies the
// per-slide critic check with the bounded revision budget, and settles each
// slide as approved, generated-with-violations, or unverified
func (o *Orchestrator) RunContentGeneration(ctx context.Context) error {
	o.mu.Lock()
	if o.deck == nil {
		o.mu.Unlock()
		return fmt.Errorf("no outline selected")
	}
	deck := o.deck
	shared := append([]model.Finding(nil), o.topicFindings...)
	o.mu.Unlock()

	entry := o.State()
	if err := o.setState(StateContentGeneration); err != nil {
		return err
	}

	pool := worker.NewPool(ctx, o.cfg.Research.Workers, len(deck.Slides))
	pool.Start()

	for _, plan := range deck.Slides {
		pool.Submit(worker.SlideJob{
			Plan: plan,
			Do: func(jobCtx context.Context, p model.SlidePlan) worker.SlideResult {
				slide, findings, err := o.generateSlide(jobCtx, p, shared)
				return worker.SlideResult{Slide: slide, Findings: findings, Err: err}
			},
		})
	}

	results := pool.Wait()

	o.mu.Lock()
	var jobErr error
	for _, result := range results {
		if result.Err != nil {
			if jobErr == nil {
				jobErr = result.Err
			}
			continue
		}
		slide := o.deck.SlideByID(result.Slide.ID)
		if slide == nil {
			continue
		}
		*slide = result.Slide
		o.slideFindings[result.Slide.ID] = result.Findings
	}
	settled := o.deck.AllSlidesSettled()
	o.mu.Unlock()

	if jobErr != nil {
		return o.fail(entry, "content generation", jobErr)
	}
	if err := ctx.Err(); err != nil {
		return o.fail(entry, "content generation", err)
	}
	if !settled {
		return o.fail(entry, "content generation", fmt.Errorf("not all slides settled"))
	}
	return nil
}

// generateSlide runs synthesis plus the local critic loop for one slide.
// Research failure does not abort the deck: the slide lands in unverified
// with the failure recorded, visible at deck review.
func (o *Orchestrator) generateSlide(ctx context.Context, plan model.SlidePlan, shared []model.Finding) (model.SlidePlan, []model.Finding, error) {
	slide, findings, err := o.synth.Synthesize(ctx, plan, shared, "")
	if err != nil {
		var unavailable *model.ResearchUnavailableError
		if errors.As(err, &unavailable) {
			out := plan.Clone()
			out.Status = model.StatusUnverified
			out.Violations = []model.Violation{{
				Type:    model.ViolationGrounding,
				SlideID: out.ID,
				Detail:  fmt.Sprintf("targeted research unavailable: %v", unavailable),
			}}
			return out, nil, nil
		}
		return plan, nil, err
	}

	verdict := o.critic.CheckSlide(slide, findings)
	for revision := 0; verdict.Decision == model.DecisionRevise && revision < o.cfg.Critic.MaxRevisions; revision++ {
		slide = content.Revise(slide, verdict)
		verdict = o.critic.CheckSlide(slide, findings)
	}

	switch verdict.Decision {
	case model.DecisionAccept:
		slide.Status = model.StatusApproved
		slide.Violations = nil
	case model.DecisionReject:
		slide.Status = model.StatusUnverified
		slide.Violations = verdict.Violations
	default:
		// Revision budget exhausted: leave generated with violations
		// attached for human resolution at deck review.
		slide.Status = model.StatusGenerated
		slide.Violations = verdict.Violations
	}

	return slide, findings, nil
}

// RunCriticReview runs the cross-slide consistency barrier over the settled
// deck. Unresolved conflicts are terminal for automatic progression: the
// pipeline moves to Error with the structured conflict report rather than
// looping.
func (o *Orchestrator) RunCriticReview(ctx context.Context) error {
	entry := o.State()
	if err := o.setState(StateCriticReview); err != nil {
		return err
	}

	o.mu.Lock()
	deck := o.deck
	o.mu.Unlock()

	if !deck.AllSlidesSettled() {
		return o.fail(entry, "critic review", fmt.Errorf("deck not fully settled"))
	}

	conflicts := o.critic.CheckDeck(deck)
	audit := o.critic.AuditDeck(deck, conflicts)

	o.mu.Lock()
	o.conflicts = conflicts
	o.audit = &audit
	o.mu.Unlock()

	if len(conflicts) > 0 {
		return o.fail(entry, "critic review",
			fmt.Errorf("%d unresolved cross-slide conflicts", len(conflicts)))
	}

	return o.setState(StateDeckReview)
}

// RequestRevision is a deck-review gate signal: re-synthesize a single slide
// with user notes guiding the targeted research, then re-judge it and refresh
// the deck-level audit
func (o *Orchestrator) RequestRevision(ctx context.Context, slideID int, notes string) error {
	o.mu.Lock()
	if o.state != StateDeckReview {
		o.mu.Unlock()
		return fmt.Errorf("revision requires %s state, currently %s", StateDeckReview, o.state)
	}
	target := o.deck.SlideByID(slideID)
	if target == nil {
		o.mu.Unlock()
		return fmt.Errorf("no slide with id %d", slideID)
	}
	plan := target.Clone()
	plan.Status = model.StatusPlanned
	shared := append([]model.Finding(nil), o.topicFindings...)
	o.mu.Unlock()

	slide, findings, err := o.synth.Synthesize(ctx, plan, shared, notes)
	if err != nil {
		return err
	}

	verdict := o.critic.CheckSlide(slide, findings)
	switch verdict.Decision {
	case model.DecisionAccept:
		slide.Status = model.StatusApproved
	case model.DecisionReject:
		slide.Status = model.StatusUnverified
		slide.Violations = verdict.Violations
	default:
		slide.Status = model.StatusGenerated
		slide.Violations = verdict.Violations
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if current := o.deck.SlideByID(slideID); current != nil {
		*current = slide
	}
	o.slideFindings[slideID] = findings
	o.conflicts = o.critic.CheckDeck(o.deck)
	audit := o.critic.AuditDeck(o.deck, o.conflicts)
	o.audit = &audit

	return nil
}

// ApproveDeck is the deck-review gate signal accepting the deck, including
// any unverified slides the user chooses to carry. Blocked while cross-slide
// conflicts remain unresolved.
func (o *Orchestrator) ApproveDeck() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateDeckReview {
		return fmt.Errorf("approval requires %s state, currently %s", StateDeckReview, o.state)
	}
	if len(o.conflicts) > 0 {
		return fmt.Errorf("cannot approve: %d unresolved cross-slide conflicts", len(o.conflicts))
	}
	return nil
}

// Finalize renders the approved deck through the external renderer. A render
// failure restores the deck-review state so the deck is preserved for retry.
func (o *Orchestrator) Finalize(ctx context.Context) (string, error) {
	if err := o.ApproveDeck(); err != nil {
		return "", err
	}
	if err := o.setState(StateFinalizing); err != nil {
		return "", err
	}

	o.mu.Lock()
	deck := o.deck.Clone()
	o.mu.Unlock()

	path, err := o.renderer.Render(deck)
	if err != nil {
		o.mu.Lock()
		o.state = StateDeckReview
		o.errs = append(o.errs, fmt.Sprintf("render: %v", err))
		o.mu.Unlock()
		return "", err
	}

	o.mu.Lock()
	o.artifact = path
	o.mu.Unlock()

	if err := o.setState(StateDone); err != nil {
		return "", err
	}

	o.log.Info("deck finalized", zap.String("artifact", path))
	return path, nil
}

// BuildDeck runs the entire pipeline end-to-end with the gates auto-answered
// (outline A, immediate approval). Used by batch mode and tests; interactive
// callers drive the phases individually.
func (o *Orchestrator) BuildDeck(ctx context.Context, topic string) (*model.Deck, error) {
	if _, err := o.RunResearch(ctx, topic); err != nil {
		return nil, err
	}
	audience := o.cfg.Storyline.Audience
	if audience == "" {
		audience = "business executives"
	}
	if err := o.RunPlanning(ctx, audience); err != nil {
		return nil, err
	}
	if err := o.SelectOutline(0); err != nil {
		return nil, err
	}
	if err := o.RunContentGeneration(ctx); err != nil {
		return nil, err
	}
	if err := o.RunCriticReview(ctx); err != nil {
		return o.Deck(), err
	}
	if _, err := o.Finalize(ctx); err != nil {
		return o.Deck(), err
	}
	return o.Deck(), nil
}
