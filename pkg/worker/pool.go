/*
Package worker provides a bounded worker pool with optional rate limiting and
context cancellation. Results are returned in submission order no matter which
worker finished first.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 0, // unlimited
	})

	pool.Start(ctx)

	pool.Submit(worker.Task{
		ID: 1,
		Execute: func(ctx context.Context) (worker.Result, error) {
			return worker.Result{ID: 1, Data: "processed"}, nil
		},
	})

	// results[i] belongs to the i-th submitted task that succeeded
	results, err := pool.Wait()
*/
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultStopTimeout bounds how long Stop waits for busy workers.
const DefaultStopTimeout = 5 * time.Second

// Task represents a unit of work to be processed by the worker pool
type Task struct {
	// ID identifies the task to the submitter
	ID int

	// Execute performs the work. It receives the pool context for cancellation.
	Execute func(context.Context) (Result, error)
}

// Result represents the output of a processed task
type Result struct {
	// ID matches the task ID that produced this result
	ID int

	// Data holds the actual result data
	Data interface{}

	// order is the submission sequence, used to restore submission order
	order int64
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of tasks started per second (0 for unlimited)
	RateLimit int

	// StopTimeout bounds Stop; zero selects DefaultStopTimeout
	StopTimeout time.Duration
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Start launches the workers
	Start(context.Context) error

	// Submit queues a task, blocking while the queue is full
	Submit(Task) error

	// Wait closes the queue, blocks until every submitted task ran and
	// returns the successful results in submission order. Task failures are
	// joined into the returned error; they do not discard other results.
	Wait() ([]Result, error)

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Stop cancels outstanding work and shuts the workers down
	Stop() error
}

type taskWithOrder struct {
	Task
	order int64
}

// pool implements the Pool interface
type pool struct {
	config  Config
	tasks   chan taskWithOrder
	results chan Result
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	wg          sync.WaitGroup
	collectDone chan struct{}
	collected   []Result

	errMu sync.Mutex
	errs  []error

	mu            sync.RWMutex
	started       bool
	queueClosed   bool
	stopped       bool
	closeResults  sync.Once
	startTime     time.Time
	statsMu       sync.RWMutex
	stats         Stats
	activeWorkers atomic.Int32
	taskOrder     atomic.Int64
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	if config.StopTimeout <= 0 {
		config.StopTimeout = DefaultStopTimeout
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:      config,
		tasks:       make(chan taskWithOrder, config.Workers*2),
		results:     make(chan Result, config.Workers*2),
		collectDone: make(chan struct{}),
		limiter:     limiter,
		stats: Stats{
			Status: StatusStopped,
		},
	}, nil
}

// validateConfig checks if the pool configuration is valid
func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.startTime = time.Now()

	p.statsMu.Lock()
	p.stats = Stats{Status: StatusIdle}
	p.statsMu.Unlock()

	go p.collect()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return nil
}

func (p *pool) Submit(task Task) error {
	// the read lock keeps the queue open for the duration of the send
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("pool not started")
	}
	if p.queueClosed {
		return fmt.Errorf("pool is no longer accepting tasks")
	}

	order := p.taskOrder.Add(1) - 1

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- taskWithOrder{Task: task, order: order}:
		return nil
	}
}

func (p *pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil, fmt.Errorf("pool not started")
	}
	p.closeQueue()
	p.mu.Unlock()

	p.wg.Wait()
	p.closeResults.Do(func() { close(p.results) })
	<-p.collectDone

	results := make([]Result, len(p.collected))
	copy(results, p.collected)
	sort.Slice(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})

	p.errMu.Lock()
	err := errors.Join(p.errs...)
	p.errMu.Unlock()

	return results, err
}

func (p *pool) Stop() error {
	if p.cancel != nil {
		p.cancel()
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	wasStarted := p.started
	p.started = false
	if wasStarted {
		p.closeQueue()
	}
	p.mu.Unlock()

	p.statsMu.Lock()
	p.stats.Status = StatusStopped
	p.statsMu.Unlock()

	if !wasStarted {
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		p.closeResults.Do(func() { close(p.results) })
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(p.config.StopTimeout):
		return fmt.Errorf("shutdown timed out after %s", p.config.StopTimeout)
	}
}

// closeQueue must be called with p.mu held
func (p *pool) closeQueue() {
	if !p.queueClosed {
		close(p.tasks)
		p.queueClosed = true
	}
}

func (p *pool) GetStats() Stats {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()

	var uptime time.Duration
	if !p.startTime.IsZero() {
		uptime = time.Since(p.startTime)
	}

	return Stats{
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    len(p.tasks),
		CompletedTasks: p.stats.CompletedTasks,
		FailedTasks:    p.stats.FailedTasks,
		Status:         p.getStatus(),
		Uptime:         uptime,
	}
}

// getStatus must be called with p.statsMu held
func (p *pool) getStatus() Status {
	if p.stats.Status == StatusStopped {
		return StatusStopped
	}

	if p.activeWorkers.Load() > 0 || len(p.tasks) > 0 {
		return StatusProcessing
	}

	return StatusIdle
}

func (p *pool) collect() {
	defer close(p.collectDone)

	for result := range p.results {
		p.collected = append(p.collected, result)
	}
}

func (p *pool) fail(task Task, err error) {
	p.statsMu.Lock()
	p.stats.FailedTasks++
	p.statsMu.Unlock()

	p.errMu.Lock()
	p.errs = append(p.errs, fmt.Errorf("task %d failed: %w", task.ID, err))
	p.errMu.Unlock()
}

func (p *pool) worker(id int) {
	defer p.wg.Done()

	for t := range p.tasks {
		p.activeWorkers.Add(1)

		if p.limiter != nil {
			if err := p.limiter.Wait(p.ctx); err != nil {
				p.activeWorkers.Add(-1)
				p.fail(t.Task, fmt.Errorf("rate limiter: %w", err))
				continue
			}
		}

		result, err := t.Execute(p.ctx)
		result.order = t.order

		p.activeWorkers.Add(-1)

		if err != nil {
			p.fail(t.Task, err)
			continue
		}

		p.statsMu.Lock()
		p.stats.CompletedTasks++
		p.statsMu.Unlock()

		p.results <- result
	}
}
