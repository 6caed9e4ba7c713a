package worker

import (
	"context"
	"sync"
)

// Pool runs function-shaped jobs on a fixed number of workers and collects
// every result. Results carry whatever type the caller needs; ordering is
// the caller's concern.
type Pool[T any] struct {
	workers   int
	jobs      chan func(context.Context) T
	results   chan T
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count
func NewPool[T any](workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool[T]{
		workers: workers,
		jobs:    make(chan func(context.Context) T, workers*2),
		results: make(chan T, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool[T]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job for execution
func (p *Pool[T]) Submit(job func(context.Context) T) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for all jobs to settle, and returns every
// result. Partial completion is never returned.
func (p *Pool[T]) Wait() []T {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []T
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown aborts outstanding work
func (p *Pool[T]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool[T]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
