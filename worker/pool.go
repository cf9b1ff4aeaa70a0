// Package worker provides the goroutine pool that runs per-patient bundle
// conversions in parallel.
package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Job is one unit of work submitted to the pool, identified by the patient
// id it converts.
type Job struct {
	ID string
	// Run performs the conversion for this job.
	Run func(ctx context.Context) error
}

// JobResult pairs a finished job with its outcome.
type JobResult struct {
	ID  string
	Err error
}

// Pool runs jobs on a fixed set of worker goroutines. Jobs are independent
// of each other; the pool imposes no ordering on results.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan JobResult
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	closed     atomic.Bool

	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
}

// NewPool starts a pool with the given number of workers. A non-positive
// count defaults to runtime.NumCPU().
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan JobResult, workers*2),
		ctx:        ctx,
		cancel:     cancel,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues a job, blocking while the queue is full. It reports false
// once the pool is closed or its context canceled.
func (p *Pool) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	}
}

// Results returns the channel job outcomes are delivered on. The channel
// is closed by Wait after all submitted jobs finished.
func (p *Pool) Results() <-chan JobResult {
	return p.resultChan
}

// Wait marks the pool closed for submissions, waits for the in-flight jobs
// and then closes the results channel. The caller must consume Results
// concurrently until it is closed.
func (p *Pool) Wait() {
	if p.closed.Swap(true) {
		return
	}
	close(p.jobsChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Stop cancels the pool context, aborting workers between jobs, and then
// waits like Wait.
func (p *Pool) Stop() {
	p.cancel()
	p.Wait()
}

// Completed returns the number of finished jobs.
func (p *Pool) Completed() uint64 {
	return p.jobsCompleted.Load()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobsChan {
		var err error
		select {
		case <-p.ctx.Done():
			err = p.ctx.Err()
		default:
			err = job.Run(p.ctx)
		}
		p.jobsCompleted.Add(1)
		p.resultChan <- JobResult{ID: job.ID, Err: err}
	}
}
