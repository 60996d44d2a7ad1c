package models

// Result is the outcome of counting one target: Stats when Err is nil,
// otherwise the error that stopped the target.
type Result struct {
	Target Target
	Stats  Stats
	Err    error
}

// OK reports whether the target was counted successfully.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report is the ordered result set of one invocation.
type Report struct {
	// Entries are in discovery order: argument order, then directory
	// listing order inside each directory argument.
	Entries []Result

	// Total sums lines, words and bytes over successful entries.
	Total Stats

	// ErrorCount is the number of entries carrying an error.
	ErrorCount int
}

// Succeeded returns the number of successful entries.
func (r Report) Succeeded() int {
	return len(r.Entries) - r.ErrorCount
}

// ExitCode derives the process status: 0 when every target was counted,
// 1 when at least one failed.
func (r Report) ExitCode() int {
	if r.ErrorCount > 0 {
		return 1
	}
	return 0
}
