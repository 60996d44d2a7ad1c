package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sonemaro/ewc/pkg/models"
)

// Metrics selects which counts are rendered. Counting always computes all
// of them.
type Metrics struct {
	Lines         bool
	Words         bool
	Bytes         bool
	MaxLineLength bool
}

// DefaultMetrics is used when nothing was selected
var DefaultMetrics = Metrics{Lines: true, Words: true, Bytes: true}

// None reports whether no metric is selected
func (m Metrics) None() bool {
	return m == Metrics{}
}

type metric struct {
	label   string
	compact string
	value   uint64
}

// selected returns the chosen metrics of s in display order. MaxLineLength
// is dropped for totals.
func (m Metrics) selected(s models.Stats, total bool) []metric {
	var out []metric
	if m.Lines {
		out = append(out, metric{"Lines", "lines", s.Lines})
	}
	if m.Words {
		out = append(out, metric{"Words", "words", s.Words})
	}
	if m.Bytes {
		out = append(out, metric{"Bytes", "bytes", s.Bytes})
	}
	if m.MaxLineLength && !total {
		out = append(out, metric{"Max line", "max line", s.MaxLineLength})
	}
	return out
}

// formatNumber renders n with thousands separators
func formatNumber(n uint64) string {
	return humanize.Comma(int64(n))
}

// countLines renders one "   Lines:          1" row per metric
func (m Metrics) countLines(s models.Stats, total bool, indent string) []string {
	var lines []string
	for _, mt := range m.selected(s, total) {
		lines = append(lines, fmt.Sprintf("%s   %s: %10s", indent, mt.label, formatNumber(mt.value)))
	}
	return lines
}

// compact renders "1 lines, 2 words, 12 bytes"
func (m Metrics) compact(s models.Stats, total bool) string {
	var parts []string
	for _, mt := range m.selected(s, total) {
		parts = append(parts, formatNumber(mt.value)+" "+mt.compact)
	}
	return strings.Join(parts, ", ")
}
