/*
Package walker turns command-line path arguments into an ordered list of
targets. Files named directly are always admitted. Directories are walked
depth first in lexicographic order, and every entry below them is run through
a filter.Matcher: rejected directories are pruned without being read.

Basic usage:

	m, _ := filter.Compile(filter.Spec{Exclude: []string{"vendor"}})
	w := walker.New(afero.NewOsFs(), m, log)
	result, err := w.Walk(ctx, []string{"README.md", "src", "-"})

A missing root or an unreadable directory does not fail the walk; it becomes
an Entry carrying a *models.TargetError. Symbolic links to files are counted
like files, links to directories are never followed.
*/
package walker

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/sonemaro/ewc/pkg/filter"
	"github.com/sonemaro/ewc/pkg/logger"
	"github.com/sonemaro/ewc/pkg/models"
	"github.com/spf13/afero"
)

// Walker enumerates targets under a set of roots
type Walker struct {
	fs      afero.Fs
	matcher *filter.Matcher
	log     logger.Logger
}

// New creates a walker. A nil matcher admits everything except hidden names.
func New(fs afero.Fs, matcher *filter.Matcher, log logger.Logger) *Walker {
	if matcher == nil {
		matcher, _ = filter.Compile(filter.Spec{})
	}
	return &Walker{
		fs:      fs,
		matcher: matcher,
		log:     log,
	}
}

// Walk resolves roots in argument order. The returned error is non-nil only
// when ctx is cancelled; the entries collected so far are still returned.
func (w *Walker) Walk(ctx context.Context, roots []string) (Result, error) {
	result := Result{
		Stats: Stats{StartTime: time.Now()},
	}

	w.log.WithFields(logger.Fields{
		"roots": roots,
	}).Info("Starting walk")

	for i, root := range roots {
		if err := ctx.Err(); err != nil {
			return w.finish(result), err
		}

		result.Stats.Roots++
		start := len(result.Entries)
		err := w.walkRoot(ctx, root, &result)
		for j := start; j < len(result.Entries); j++ {
			result.Entries[j].Target.Arg = i
		}
		if err != nil {
			return w.finish(result), err
		}
	}

	return w.finish(result), nil
}

func (w *Walker) finish(result Result) Result {
	result.Stats.Duration = time.Since(result.Stats.StartTime)

	w.log.WithFields(logger.Fields{
		"entries":  len(result.Entries),
		"files":    result.Stats.Files,
		"dirs":     result.Stats.Dirs,
		"pruned":   result.Stats.Pruned,
		"skipped":  result.Stats.Skipped,
		"errors":   result.Stats.Errors,
		"duration": result.Stats.Duration,
	}).Info("Walk completed")

	return result
}

func (w *Walker) walkRoot(ctx context.Context, root string, result *Result) error {
	if root == models.StdinArg {
		w.emit(result, models.StdinTarget())
		return nil
	}

	info, err := w.fs.Stat(root)
	if err != nil {
		w.log.WithFields(logger.Fields{
			"path":  root,
			"error": err,
		}).Debug("Cannot stat root")
		w.fail(result, models.FileTarget(root), err)
		return nil
	}

	if !info.IsDir() {
		w.emit(result, models.FileTarget(root))
		return nil
	}

	matcher, err := w.matcher.ForRoot(w.fs, root)
	if err != nil {
		w.log.WithFields(logger.Fields{
			"path":  root,
			"error": err,
		}).Warn("Ignoring unreadable .gitignore")
		matcher = w.matcher
	}

	return w.walkDir(ctx, matcher, root, root, "", result)
}

// walkDir reads dir and descends into admitted subdirectories. rel is dir
// relative to root in slash form, empty for the root itself.
func (w *Walker) walkDir(ctx context.Context, m *filter.Matcher, root, dir, rel string, result *Result) error {
	result.Stats.Dirs++

	w.log.WithFields(logger.Fields{
		"path": dir,
	}).Debug("Walking directory")

	infos, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		w.log.WithFields(logger.Fields{
			"path":  dir,
			"error": err,
		}).Warn("Failed to read directory")
		target := dirTarget(root, dir, rel)
		if rel == "" {
			target = models.FileTarget(root)
		}
		w.fail(result, target, err)
		return nil
	}

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}

		childPath := filepath.Join(dir, info.Name())
		childRel := path.Join(rel, info.Name())

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			w.walkSymlink(m, root, childPath, childRel, result)

		case info.IsDir():
			if v := m.Evaluate(childRel, true); v != filter.Admit {
				result.Stats.Pruned++
				w.log.WithFields(logger.Fields{
					"path":   childPath,
					"reason": v.String(),
				}).Debug("Pruning directory")
				continue
			}
			if err := w.walkDir(ctx, m, root, childPath, childRel, result); err != nil {
				return err
			}

		case info.Mode().IsRegular():
			w.admitFile(m, dirTarget(root, childPath, childRel), result)

		default:
			result.Stats.Skipped++
			w.log.WithFields(logger.Fields{
				"path": childPath,
				"mode": info.Mode().String(),
			}).Debug("Skipping special file")
		}
	}

	return nil
}

// walkSymlink counts links to files and skips links to directories, which
// keeps cyclic links from recursing.
func (w *Walker) walkSymlink(m *filter.Matcher, root, linkPath, rel string, result *Result) {
	result.Stats.Symlinks++

	info, err := w.fs.Stat(linkPath)
	if err == nil && info.IsDir() {
		result.Stats.Skipped++
		w.log.WithFields(logger.Fields{
			"path": linkPath,
		}).Debug("Not following directory symlink")
		return
	}

	if v := m.Evaluate(rel, false); v != filter.Admit {
		result.Stats.Skipped++
		return
	}

	if err != nil {
		w.log.WithFields(logger.Fields{
			"path":  linkPath,
			"error": err,
		}).Debug("Broken symlink")
		w.fail(result, dirTarget(root, linkPath, rel), err)
		return
	}

	w.emit(result, dirTarget(root, linkPath, rel))
}

func (w *Walker) admitFile(m *filter.Matcher, target models.Target, result *Result) {
	if v := m.Evaluate(target.Rel, false); v != filter.Admit {
		result.Stats.Skipped++
		w.log.WithFields(logger.Fields{
			"path":   target.Path,
			"reason": v.String(),
		}).Trace("Skipping file")
		return
	}
	w.emit(result, target)
}

func (w *Walker) emit(result *Result, target models.Target) {
	result.Stats.Files++
	result.Entries = append(result.Entries, Entry{Target: target})
}

func (w *Walker) fail(result *Result, target models.Target, err error) {
	result.Stats.Errors++
	result.Entries = append(result.Entries, Entry{
		Target: target,
		Err:    models.NewTargetError(target.Name(), err),
	})
}

func dirTarget(root, p, rel string) models.Target {
	return models.Target{
		Path:    p,
		Root:    root,
		Rel:     rel,
		FromDir: true,
	}
}
