// Package workerpool provides a fixed-size pool of goroutines that run submitted tasks.
//
// The pool is created once, started once and stopped once. Submission blocks until a worker is
// free, so the number of tasks running at the same time never exceeds the pool size.
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrPoolClosed     = errors.New("workerpool: pool is stopped")
	ErrPoolNotStarted = errors.New("workerpool: pool is not started")
)

// Task is a unit of work. It must not panic; callers recover inside the task if they need to.
type Task func()

// Pool runs tasks on a fixed number of worker goroutines.
type Pool struct {
	tasks   chan Task
	done    chan struct{}
	workers int
	logger  zerolog.Logger

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	started   chan struct{}
}

// New builds a pool with the given number of workers (minimum 1). Call Start before Submit.
func New(workers int, logger zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		tasks:   make(chan Task), // unbuffered: a send succeeds only when a worker takes it
		done:    make(chan struct{}),
		started: make(chan struct{}),
		workers: workers,
		logger:  logger.With().Str("component", "workerpool").Logger(),
	}
}

// Start launches the worker goroutines. Calling it more than once has no effect.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		p.logger.Info().Int("workers", p.workers).Msg("starting workers")
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker(i)
		}
		close(p.started)
	})
}

// Stop signals the workers to exit and waits for running tasks to finish.
// Tasks not yet accepted by a worker are rejected with ErrPoolClosed.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		p.logger.Info().Msg("all workers stopped")
	})
}

// Submit hands t to a free worker, blocking until one accepts it, ctx ends or the pool stops.
// When Submit returns nil the task is guaranteed to run.
func (p *Pool) Submit(ctx context.Context, t Task) error {
	select {
	case <-p.started:
	default:
		return ErrPoolNotStarted
	}

	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrPoolClosed
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.workers
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.logger.Debug().Int("worker", id).Msg("worker shutting down")
			return
		case t := <-p.tasks:
			t()
		}
	}
}
