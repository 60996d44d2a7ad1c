/*
Package app provides the application container for ewc. It wires the
walker, dispatcher, aggregator, progress line and output formatter for one
invocation and turns the resulting report into an exit status.

Usage:

	application := app.New(cfg)
	defer application.Shutdown()
	os.Exit(application.Run())
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sonemaro/ewc/internal/config"
	"github.com/sonemaro/ewc/pkg/dispatch"
	"github.com/sonemaro/ewc/pkg/filter"
	"github.com/sonemaro/ewc/pkg/logger"
	"github.com/sonemaro/ewc/pkg/models"
	"github.com/sonemaro/ewc/pkg/output"
	"github.com/sonemaro/ewc/pkg/progress"
	"github.com/sonemaro/ewc/pkg/report"
	"github.com/sonemaro/ewc/pkg/walker"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// Exit statuses
const (
	ExitOK      = 0
	ExitFailure = 1
)

// App represents the main application container
type App struct {
	config config.Config
	log    logger.Logger
	fs     afero.Fs

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// nil means detect from the writer
	stdoutTTY *bool
	stderrTTY *bool

	progress progress.Progress

	ctx    context.Context
	cancel context.CancelFunc
	exit   func(int)
	mu     sync.Mutex
}

// Option customizes an App
type Option func(*App)

// WithFs replaces the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithIO replaces the standard streams
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdin = stdin
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithTerminal overrides terminal detection for stdout and stderr
func WithTerminal(stdout, stderr bool) Option {
	return func(a *App) {
		a.stdoutTTY = &stdout
		a.stderrTTY = &stderr
	}
}

// WithLogger replaces the logger built from the configuration
func WithLogger(log logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// New creates a new application instance
func New(cfg config.Config, opts ...Option) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config: cfg,
		fs:     afero.NewOsFs(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		ctx:    ctx,
		cancel: cancel,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = logger.NewLogger(logger.Config{
			Verbosity: cfg.Debug,
			Output:    a.stderr,
		})
	}

	a.log.WithFields(logger.Fields{
		"config": cfg.String(),
	}).Debug("Application initialized")

	return a
}

// Run executes one counting pass and returns the process exit status
func (a *App) Run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
			fmt.Fprintf(a.stderr, "ewc: internal error: %v\n", r)
			code = ExitFailure
		}
	}()

	stopSignals := a.setupSignalHandling()
	defer stopSignals()

	start := time.Now()
	cfg := a.config

	matcher, err := filter.Compile(filter.Spec{
		Include:       cfg.Include,
		Exclude:       cfg.Exclude,
		IncludeHidden: cfg.All,
		Gitignore:     cfg.Gitignore,
	})
	if err != nil {
		return a.fail("invalid filter", err)
	}

	walked, err := walker.New(a.fs, matcher, a.log).Walk(a.ctx, cfg.Paths)
	if err != nil {
		return a.fail("interrupted", err)
	}

	prog := a.newProgress(walked)
	prog.Start("Counting", int64(walked.Targets()))

	d := dispatch.New(a.fs, dispatch.Config{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		RateLimit:  cfg.RateLimit,
	}, a.log,
		dispatch.WithStdin(a.stdin),
		dispatch.WithProgress(func(r models.Result) {
			prog.Add(r.Target.Name(), int64(r.Stats.Bytes))
		}),
	)

	results := d.Process(a.ctx, walked.Entries)
	prog.Stop()

	rep := report.Aggregate(results)
	groups := report.Groups(cfg.Paths, rep)

	formatter := output.NewFormatter(output.Config{
		Format: cfg.Format(),
		Metrics: output.Metrics{
			Lines:         cfg.ShowLines(),
			Words:         cfg.ShowWords(),
			Bytes:         cfg.ShowBytes(),
			MaxLineLength: cfg.ShowMaxLineLength(),
		},
		Verbose:    cfg.Verbose,
		WithColors: a.colors(),
	}, a.log)

	for _, w := range formatter.Warnings(rep) {
		fmt.Fprintln(a.stderr, w)
	}

	text, err := formatter.Format(groups)
	if err != nil {
		return a.fail("formatting failed", err)
	}
	if err := a.writeOutput(text); err != nil {
		return a.fail("failed to write output", err)
	}

	a.log.WithFields(logger.Fields{
		"targets":  len(rep.Entries),
		"errors":   rep.ErrorCount,
		"lines":    rep.Total.Lines,
		"bytes":    rep.Total.Bytes,
		"duration": time.Since(start),
	}).Info("Run completed")

	return rep.ExitCode()
}

// Shutdown cancels any run in progress and flushes the logger
func (a *App) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancel()
	if a.progress != nil {
		a.progress.Stop()
	}
	// syncing stderr fails with EINVAL on some platforms
	_ = a.log.Sync()
}

func (a *App) fail(msg string, err error) int {
	a.log.WithFields(logger.Fields{
		"error": err,
	}).Error(msg)

	var patternErr *filter.PatternError
	switch {
	case errors.As(err, &patternErr):
		fmt.Fprintf(a.stderr, "ewc: %v\n", err)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(a.stderr, "ewc: interrupted")
	default:
		fmt.Fprintf(a.stderr, "ewc: %s: %v\n", msg, err)
	}
	return ExitFailure
}

// newProgress draws a progress line only on a terminal stderr, and only
// when a directory argument may produce many files
func (a *App) newProgress(walked walker.Result) progress.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.NoProgress || !walked.HasDirectory() || !a.isTerminal(a.stderr, a.stderrTTY) {
		a.progress = progress.NewNop()
		return a.progress
	}

	a.progress = progress.New(progress.Config{
		Style:   progress.StyleBar,
		NoColor: a.config.NoColor,
		Writer:  a.stderr,
	}, a.log)
	return a.progress
}

// colors are used only when writing to a terminal stdout
func (a *App) colors() bool {
	if a.config.NoColor || a.config.OutputFile != "" {
		return false
	}
	return a.isTerminal(a.stdout, a.stdoutTTY)
}

func (a *App) isTerminal(w io.Writer, override *bool) bool {
	if override != nil {
		return *override
	}
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// writeOutput writes the rendered report to stdout or to the output file
func (a *App) writeOutput(content string) error {
	if content != "" {
		content += "\n"
	}

	if a.config.OutputFile == "" {
		_, err := io.WriteString(a.stdout, content)
		return err
	}

	a.log.WithFields(logger.Fields{
		"path": a.config.OutputFile,
	}).Debug("Writing output file")

	if err := afero.WriteFile(a.fs, a.config.OutputFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
