package worker

import (
	"context"
	"sync"

	"deckforge/internal/model"
)

// SlideResult is the outcome of synthesizing one slide
type SlideResult struct {
	Slide    model.SlidePlan
	Findings []model.Finding // Findings that backed the slide, for the critic
	Err      error
}

// SlideJob synthesizes content for a single planned slide
type SlideJob struct {
	Plan model.SlidePlan
	Do   func(ctx context.Context, plan model.SlidePlan) SlideResult
}

// Pool fans slide synthesis out across a fixed number of workers. Slides are
// independent until the cross-slide critic pass, so they may run concurrently;
// the pool drains completely before that pass starts.
type Pool struct {
	workers    int
	jobQueue   chan SlideJob
	results    chan SlideResult
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a synthesis pool with the specified number of workers.
// queueSize must cover the number of slides that will be submitted: every
// submit happens before Wait, so the queue and result buffers hold a full
// deck each.
func NewPool(ctx context.Context, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < workers {
		queueSize = workers
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan SlideJob, queueSize),
		results:    make(chan SlideResult, queueSize),
		ctx:        poolCtx,
		cancelFunc: cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Do(p.ctx, job.Plan)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a slide for synthesis
func (p *Pool) Submit(job SlideJob) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Wait waits for all submitted slides to settle and returns the results
func (p *Pool) Wait() []SlideResult {
	close(p.jobQueue)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []SlideResult
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown cancels outstanding work immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
