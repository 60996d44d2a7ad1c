package walker

import (
	"time"

	"github.com/sonemaro/ewc/pkg/models"
)

// Entry is one item of the walk output. A nil Err means Target is ready to
// be counted; otherwise the target failed before counting (missing root,
// unreadable directory, broken symlink) and Err says why.
type Entry struct {
	Target models.Target
	Err    error
}

// Result contains the ordered walk output
type Result struct {
	Entries []Entry
	Stats   Stats
}

// Targets returns the number of entries that still need counting
func (r Result) Targets() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err == nil {
			n++
		}
	}
	return n
}

// HasDirectory reports whether any root was a directory
func (r Result) HasDirectory() bool {
	return r.Stats.Dirs > 0
}

// Stats contains statistics about the walk
type Stats struct {
	StartTime time.Time
	Duration  time.Duration
	Roots     int
	Files     int
	Dirs      int
	Pruned    int
	Skipped   int
	Symlinks  int
	Errors    int
}
