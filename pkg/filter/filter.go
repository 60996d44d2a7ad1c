/*
Package filter decides which paths a directory walk admits. It combines the
hidden-file rule, include and exclude glob sets, and optionally the root's
.gitignore.

Basic usage:

	m, err := filter.Compile(filter.Spec{
		Include: []string{"*.go"},
		Exclude: []string{"vendor/**"},
	})
	if err != nil {
		// *filter.PatternError: abort before counting
	}
	if m.Admits("cmd/main.go", false) {
		// count it
	}

Patterns use shell glob syntax: '*' matches within one path component, '**'
matches across components, '?' matches one rune and '[...]' is a class.
Patterns are matched against the slash-separated path relative to the walk
root. A pattern without '/' also matches the final path component, so "*.log"
excludes log files at any depth.

Rules, in order:
  - hidden entries (leading '.') are rejected unless Spec.IncludeHidden
  - entries matched by .gitignore are rejected when Spec.Gitignore is set
  - any exclude match rejects
  - for files, a non-empty include set must match
*/
package filter

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/monochromegane/go-gitignore"
)

// Spec is the filtering policy for one invocation.
type Spec struct {
	// Include restricts files to those matching at least one pattern.
	// Empty means no restriction.
	Include []string

	// Exclude rejects files and prunes directories matching any pattern.
	Exclude []string

	// IncludeHidden admits names starting with '.'.
	IncludeHidden bool

	// Gitignore honors the .gitignore found at each directory root.
	Gitignore bool
}

// Verdict is the outcome of evaluating one path.
type Verdict int

const (
	// Admit means the path passes every rule
	Admit Verdict = iota
	// RejectHidden means the name starts with '.'
	RejectHidden
	// RejectIgnored means .gitignore matched
	RejectIgnored
	// RejectExcluded means an exclude pattern matched
	RejectExcluded
	// RejectNotIncluded means include patterns exist and none matched
	RejectNotIncluded
)

func (v Verdict) String() string {
	switch v {
	case Admit:
		return "admitted"
	case RejectHidden:
		return "hidden"
	case RejectIgnored:
		return "gitignored"
	case RejectExcluded:
		return "excluded"
	case RejectNotIncluded:
		return "not included"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// PatternError reports a malformed include or exclude pattern.
type PatternError struct {
	Pattern string
	Kind    string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s glob pattern %q", e.Kind, e.Pattern)
}

// Matcher is a compiled Spec. It is immutable and safe for concurrent use.
type Matcher struct {
	spec    Spec
	include []string
	exclude []string
	ignore  gitignore.IgnoreMatcher
	root    string
}

// Compile validates every pattern up front so that a broken filter fails
// the run before any file is opened.
func Compile(spec Spec) (*Matcher, error) {
	include, err := compilePatterns(spec.Include, "include")
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(spec.Exclude, "exclude")
	if err != nil {
		return nil, err
	}

	return &Matcher{
		spec:    spec,
		include: include,
		exclude: exclude,
	}, nil
}

func compilePatterns(patterns []string, kind string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "./")
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p, Kind: kind}
		}
		out = append(out, p)
	}
	return out, nil
}

// Spec returns the policy the matcher was compiled from.
func (m *Matcher) Spec() Spec {
	return m.spec
}

// Admits reports whether rel should be walked into (directories) or
// counted (files).
func (m *Matcher) Admits(rel string, isDir bool) bool {
	return m.Evaluate(rel, isDir) == Admit
}

// Evaluate applies every rule to rel and returns the first one that rejects.
func (m *Matcher) Evaluate(rel string, isDir bool) Verdict {
	rel = strings.TrimPrefix(rel, "./")
	base := path.Base(rel)

	if !m.spec.IncludeHidden && isHidden(base) {
		return RejectHidden
	}

	if m.ignore != nil && m.ignore.Match(joinRoot(m.root, rel), isDir) {
		return RejectIgnored
	}

	if matchAny(m.exclude, rel, base) {
		return RejectExcluded
	}

	if !isDir && len(m.include) > 0 && !matchAny(m.include, rel, base) {
		return RejectNotIncluded
	}

	return Admit
}

func matchAny(patterns []string, rel, base string) bool {
	for _, p := range patterns {
		// patterns were validated in Compile, Match cannot fail
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}
