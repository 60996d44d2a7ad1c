package output

import (
	"fmt"
	"strings"

	"github.com/sonemaro/ewc/pkg/logger"
	"github.com/sonemaro/ewc/pkg/models"
	"github.com/sonemaro/ewc/pkg/report"
)

// formatHuman renders one block per argument, separated by blank lines,
// followed by a total when more than one argument succeeded
func (f *formatter) formatHuman(groups []report.Group) string {
	f.log.Debug("Formatting human output")

	blocks := make([]string, 0, len(groups)+1)
	for _, g := range groups {
		blocks = append(blocks, f.humanGroup(g))
	}

	if len(groups) > 1 {
		blocks = append(blocks, separator+"\n"+f.humanTotal(report.TotalFiles(groups), sumGroups(groups), true))
	}

	return strings.Join(blocks, "\n\n")
}

func (f *formatter) humanGroup(g report.Group) string {
	f.log.WithFields(logger.Fields{
		"root":  g.Root,
		"dir":   g.Dir,
		"files": g.Files,
	}).Trace("Formatting group")

	if !g.Dir {
		lines := []string{f.fileStyle.Sprint(f.icon(fileIcon, g.Name()))}
		lines = append(lines, f.config.Metrics.countLines(g.Stats, false, "")...)
		return strings.Join(lines, "\n")
	}

	if !f.config.Verbose {
		header := fmt.Sprintf("%s (%d %s)", g.Name(), g.Files, pluralizeFiles(g.Files))
		lines := []string{f.dirStyle.Sprint(f.icon(dirIcon, header))}
		lines = append(lines, f.config.Metrics.countLines(g.Stats, false, "")...)
		return strings.Join(lines, "\n")
	}

	lines := []string{f.dirStyle.Sprint(f.icon(dirIcon, g.Name()))}
	for _, e := range g.Entries {
		if !e.OK() {
			continue
		}
		name := f.fileStyle.Sprint(f.icon(fileIcon, e.Target.Rel))
		lines = append(lines, "   "+name+": "+f.config.Metrics.compact(e.Stats, false))
	}
	lines = append(lines, separator, f.humanTotal(g.Files, g.Stats, false))

	return strings.Join(lines, "\n")
}

func (f *formatter) humanTotal(files int, s models.Stats, grand bool) string {
	header := fmt.Sprintf("Total (%d %s)", files, pluralizeFiles(files))
	lines := []string{f.totalStyle.Sprint(f.icon(dirIcon, header))}
	lines = append(lines, f.config.Metrics.countLines(s, grand, "")...)
	return strings.Join(lines, "\n")
}

// sumGroups adds up the groups; MaxLineLength does not survive the sum
func sumGroups(groups []report.Group) models.Stats {
	var total models.Stats
	for _, g := range groups {
		total = total.Add(g.Stats)
	}
	return total
}
