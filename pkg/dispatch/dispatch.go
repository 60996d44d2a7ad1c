/*
Package dispatch counts walked targets on a bounded worker pool and returns
one models.Result per entry, in entry order.

Basic usage:

	d := dispatch.New(afero.NewOsFs(), dispatch.Config{Workers: 4}, log,
		dispatch.WithStdin(os.Stdin))
	results := d.Process(ctx, walked.Entries)

Failures never stop the batch: a file that cannot be opened or read gets a
*models.TargetError in its slot and the remaining files are still counted.
When ctx is cancelled, targets that have not started are marked Canceled.
*/
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/sonemaro/ewc/pkg/counter"
	"github.com/sonemaro/ewc/pkg/logger"
	"github.com/sonemaro/ewc/pkg/models"
	"github.com/sonemaro/ewc/pkg/walker"
	"github.com/sonemaro/ewc/pkg/worker"
	"github.com/spf13/afero"
)

// ErrNoStdin is recorded for the stdin target when no reader was supplied
var ErrNoStdin = errors.New("standard input is not available")

// Config controls parallelism and I/O
type Config struct {
	// Workers is the pool size; zero or less selects runtime.NumCPU()
	Workers int

	// BufferSize is the read buffer per file; zero selects the counter default
	BufferSize int

	// RateLimit caps file opens per second; zero is unlimited
	RateLimit int
}

// Option customizes a Dispatcher
type Option func(*Dispatcher)

// WithStdin sets the reader consumed by the standard input target
func WithStdin(r io.Reader) Option {
	return func(d *Dispatcher) {
		d.stdin = r
	}
}

// WithProgress registers fn to be called once per finished entry. fn may be
// called from several goroutines at once.
func WithProgress(fn func(models.Result)) Option {
	return func(d *Dispatcher) {
		d.onResult = fn
	}
}

// Dispatcher runs the counter over targets
type Dispatcher struct {
	fs       afero.Fs
	config   Config
	counter  *counter.Counter
	log      logger.Logger
	stdin    io.Reader
	onResult func(models.Result)
}

// New creates a dispatcher reading files from fs
func New(fs afero.Fs, config Config, log logger.Logger, opts ...Option) *Dispatcher {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}

	d := &Dispatcher{
		fs:      fs,
		config:  config,
		counter: counter.New(config.BufferSize),
		log:     log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Process returns one result per entry; results[i] belongs to entries[i].
func (d *Dispatcher) Process(ctx context.Context, entries []walker.Entry) []models.Result {
	results := make([]models.Result, len(entries))
	done := make([]bool, len(entries))
	var pending []int

	var stdin *models.Result
	for i, entry := range entries {
		switch {
		case entry.Err != nil:
			d.finish(results, done, i, models.Result{Target: entry.Target, Err: entry.Err})

		case entry.Target.Stdin:
			// every "-" argument shares the single read of standard input
			if stdin == nil {
				r := d.countStdin(entry.Target)
				stdin = &r
			}
			d.finish(results, done, i, models.Result{Target: entry.Target, Stats: stdin.Stats, Err: stdin.Err})

		default:
			pending = append(pending, i)
		}
	}

	d.log.WithFields(logger.Fields{
		"entries": len(entries),
		"files":   len(pending),
		"workers": d.config.Workers,
	}).Info("Dispatching targets")

	sequential := len(pending) <= 1 || d.config.Workers == 1
	if sequential && d.config.RateLimit == 0 {
		for _, i := range pending {
			d.finish(results, done, i, d.countFile(ctx, entries[i].Target))
		}
	} else {
		d.runPool(ctx, entries, pending, results, done)
	}

	for i := range results {
		if !done[i] {
			d.finish(results, done, i, models.Result{
				Target: entries[i].Target,
				Err:    models.NewTargetError(entries[i].Target.Name(), context.Canceled),
			})
		}
	}

	return results
}

func (d *Dispatcher) finish(results []models.Result, done []bool, i int, r models.Result) {
	results[i] = r
	done[i] = true
	if d.onResult != nil {
		d.onResult(r)
	}
}

func (d *Dispatcher) runPool(ctx context.Context, entries []walker.Entry, pending []int, results []models.Result, done []bool) {
	pool, err := worker.NewPool(worker.Config{
		Workers:   d.config.Workers,
		RateLimit: d.config.RateLimit,
	})
	if err != nil {
		d.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to create worker pool")
		return
	}

	if err := pool.Start(ctx); err != nil {
		d.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to start worker pool")
		return
	}

	defer func() {
		if err := pool.Stop(); err != nil {
			d.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Error stopping worker pool")
		}
	}()

	for _, i := range pending {
		target := entries[i].Target
		task := worker.Task{
			ID: i,
			Execute: func(ctx context.Context) (worker.Result, error) {
				r := d.countFile(ctx, target)
				if d.onResult != nil {
					d.onResult(r)
				}
				return worker.Result{ID: i, Data: r}, nil
			},
		}

		if err := pool.Submit(task); err != nil {
			d.log.WithFields(logger.Fields{
				"error": err,
				"path":  target.Path,
			}).Debug("Failed to submit target")
			break
		}
	}

	workerResults, err := pool.Wait()
	if err != nil {
		d.log.WithFields(logger.Fields{
			"error": err,
		}).Debug("Some tasks did not run")
	}

	stats := pool.GetStats()
	d.log.WithFields(logger.Fields{
		"completed": stats.CompletedTasks,
		"failed":    stats.FailedTasks,
		"status":    string(stats.Status),
		"uptime":    stats.Uptime,
	}).Debug("Worker pool finished")

	// the pool already reported progress for these
	for _, wr := range workerResults {
		results[wr.ID] = wr.Data.(models.Result)
		done[wr.ID] = true
	}
}

func (d *Dispatcher) countStdin(target models.Target) models.Result {
	if d.stdin == nil {
		return models.Result{Target: target, Err: models.NewTargetError(target.Name(), ErrNoStdin)}
	}

	d.log.Debug("Reading standard input")

	stats, err := d.counter.Count(d.stdin)
	if err != nil {
		return models.Result{
			Target: target,
			Err:    models.NewTargetError(target.Name(), fmt.Errorf("failed to read: %w", err)),
		}
	}
	return models.Result{Target: target, Stats: stats}
}

// countFile opens, counts and closes one file
func (d *Dispatcher) countFile(ctx context.Context, target models.Target) models.Result {
	result := models.Result{Target: target}

	if err := ctx.Err(); err != nil {
		result.Err = models.NewTargetError(target.Name(), err)
		return result
	}

	f, err := d.fs.Open(target.Path)
	if err != nil {
		d.log.WithFields(logger.Fields{
			"path":  target.Path,
			"error": err,
		}).Debug("Failed to open file")
		result.Err = models.NewTargetError(target.Name(), err)
		return result
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		result.Err = models.NewTargetError(target.Name(), models.ErrIsDirectory)
		return result
	}

	stats, err := d.counter.Count(f)
	if err != nil {
		d.log.WithFields(logger.Fields{
			"path":  target.Path,
			"error": err,
		}).Debug("Failed to read file")
		result.Err = models.NewTargetError(target.Name(), err)
		return result
	}

	d.log.WithFields(logger.Fields{
		"path":  target.Path,
		"lines": stats.Lines,
		"bytes": stats.Bytes,
	}).Trace("Counted file")

	result.Stats = stats
	return result
}
