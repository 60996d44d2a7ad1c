package output

import (
	"fmt"
	"strings"

	"github.com/sonemaro/ewc/pkg/report"
)

// formatCompact renders one line per argument: "name: 1 lines, 2 words, 12 bytes"
func (f *formatter) formatCompact(groups []report.Group) string {
	f.log.Debug("Formatting compact output")

	var lines []string
	for _, g := range groups {
		m := f.config.Metrics

		if !g.Dir {
			lines = append(lines, f.fileStyle.Sprint(g.Name())+": "+m.compact(g.Stats, false))
			continue
		}

		header := fmt.Sprintf("%s (%d %s)", g.Name(), g.Files, pluralizeFiles(g.Files))
		lines = append(lines, f.dirStyle.Sprint(header)+": "+m.compact(g.Stats, false))

		if f.config.Verbose {
			for _, e := range g.Entries {
				if e.OK() {
					lines = append(lines, "  "+e.Target.Rel+": "+m.compact(e.Stats, false))
				}
			}
		}
	}

	if len(groups) > 1 {
		files := report.TotalFiles(groups)
		header := fmt.Sprintf("Total (%d %s)", files, pluralizeFiles(files))
		lines = append(lines, f.totalStyle.Sprint(header)+": "+f.config.Metrics.compact(sumGroups(groups), true))
	}

	return strings.Join(lines, "\n")
}
