// Package worker provides a fixed-size pool that drains a buffered job
// channel. A refresh cycle uses one pool to fan out source fetches.
package worker

import (
	"context"
	"log/slog"
	"sync"
)

type ProcessFunc[J any] func(ctx context.Context, job J) error

type Pool[J any] struct {
	numWorkers int
	jobs       chan J
	processor  ProcessFunc[J]
	wg         sync.WaitGroup
}

// NewPool returns a pool with numWorkers workers (at least one) and room
// for bufferSize queued jobs.
func NewPool[J any](numWorkers, bufferSize int, processor ProcessFunc[J]) *Pool[J] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Pool[J]{
		numWorkers: numWorkers,
		jobs:       make(chan J, bufferSize),
		processor:  processor,
	}
}

func (p *Pool[J]) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool[J]) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.processor(ctx, job); err != nil {
				slog.Debug("job failed", "worker", id, "error", err)
			}
		}
	}
}

// Submit queues a job, blocking while the buffer is full.
func (p *Pool[J]) Submit(job J) {
	p.jobs <- job
}

// Stop closes the queue and waits for the workers to drain it.
func (p *Pool[J]) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
