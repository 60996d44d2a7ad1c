// Package report merges per-target results into a Report and groups them by
// command-line argument for presentation.
package report

import "github.com/sonemaro/ewc/pkg/models"

// Aggregate builds the Report for results in the given order. It is pure:
// the same input always yields the same Report. MaxLineLength is never
// summed into Total.
func Aggregate(results []models.Result) models.Report {
	r := models.Report{
		Entries: make([]models.Result, len(results)),
	}
	copy(r.Entries, results)

	for _, res := range results {
		if !res.OK() {
			r.ErrorCount++
			continue
		}
		r.Total = r.Total.Add(res.Stats)
	}

	return r
}

// Group is the presentation unit for one command-line argument: a single
// file, standard input, or a directory with the files found beneath it.
type Group struct {
	// Root is the argument as given
	Root string

	// Dir is set when the argument was walked as a directory
	Dir bool

	// Stdin marks the standard input argument
	Stdin bool

	// Entries are the results belonging to this argument, in order
	Entries []models.Result

	// Stats sums the successful entries. MaxLineLength is the longest line
	// of any file in the group
	Stats models.Stats

	// Files is the number of successfully counted files
	Files int

	// Err is set when the argument itself failed (missing path, unreadable
	// file). Failures of files under a directory stay on their entries.
	Err error
}

// Name returns the display name of the group
func (g Group) Name() string {
	if g.Stdin {
		return models.StdinName
	}
	return g.Root
}

// OK reports whether the argument produced output
func (g Group) OK() bool {
	return g.Err == nil
}

// Groups splits the report by command-line argument. args must be the
// argument list the report was walked from; an argument without entries is
// a directory in which nothing was admitted.
func Groups(args []string, r models.Report) []Group {
	byArg := make([][]models.Result, len(args))
	for _, res := range r.Entries {
		if i := res.Target.Arg; i >= 0 && i < len(args) {
			byArg[i] = append(byArg[i], res)
		}
	}

	groups := make([]Group, 0, len(args))
	for i, arg := range args {
		entries := byArg[i]

		g := Group{
			Root:  arg,
			Stdin: arg == models.StdinArg,
		}
		if len(entries) == 0 || entries[0].Target.FromDir {
			g.Dir = true
		} else {
			g.Err = entries[0].Err
		}

		for _, res := range entries {
			g.add(res)
		}
		groups = append(groups, g)
	}

	return groups
}

func (g *Group) add(res models.Result) {
	g.Entries = append(g.Entries, res)
	if !res.OK() {
		return
	}

	g.Files++
	if !g.Dir {
		g.Stats = res.Stats
		return
	}

	longest := max(g.Stats.MaxLineLength, res.Stats.MaxLineLength)
	g.Stats = g.Stats.Add(res.Stats)
	g.Stats.MaxLineLength = longest
}

// Succeeded counts groups that produced output
func Succeeded(groups []Group) int {
	n := 0
	for _, g := range groups {
		if g.OK() {
			n++
		}
	}
	return n
}

// TotalFiles counts successfully counted files across groups
func TotalFiles(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += g.Files
	}
	return n
}
