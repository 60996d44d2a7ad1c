/*
Package output renders counting results as human-readable blocks, compact
one-line summaries, JSON or YAML. It supports colored output with file and
directory icons.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatHuman,
		Metrics:    output.Metrics{Lines: true, Words: true, Bytes: true},
		WithColors: true,
	}, log)

	text, err := formatter.Format(report.Groups(args, rep))
	for _, w := range formatter.Warnings(rep) {
		fmt.Fprintln(os.Stderr, w)
	}

Failed arguments are left out of the rendered output; they surface through
Warnings instead.
*/
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sonemaro/ewc/pkg/logger"
	"github.com/sonemaro/ewc/pkg/models"
	"github.com/sonemaro/ewc/pkg/report"
)

// Format represents the output format type
type Format string

const (
	FormatHuman   Format = "human"
	FormatCompact Format = "compact"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// Formats lists every supported format
var Formats = []Format{FormatHuman, FormatCompact, FormatJSON, FormatYAML}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

const (
	fileIcon    = "\U0001F4C4"
	dirIcon     = "\U0001F4C1"
	warningIcon = "⚠️"
	separator   = "─────────────────────────"
)

// Config holds formatter configuration
type Config struct {
	Format  Format
	Metrics Metrics

	// Verbose lists the files found under directory arguments
	Verbose bool

	// WithColors enables ANSI colors and icons
	WithColors bool
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format renders the groups of one run without a trailing newline.
	// It returns an empty string when no argument succeeded.
	Format([]report.Group) (string, error)

	// Warnings returns one line per failed target, in report order
	Warnings(models.Report) []string
}

// formatter implements the Formatter interface
type formatter struct {
	config Config
	log    logger.Logger

	fileStyle  *color.Color
	dirStyle   *color.Color
	totalStyle *color.Color
	warnStyle  *color.Color
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	if config.Metrics.None() {
		config.Metrics = DefaultMetrics
	}

	return &formatter{
		config:     config,
		log:        log,
		fileStyle:  style(config.WithColors, color.Bold),
		dirStyle:   style(config.WithColors, color.FgBlue, color.Bold),
		totalStyle: style(config.WithColors, color.FgGreen, color.Bold),
		warnStyle:  style(config.WithColors, color.FgYellow),
	}
}

// style builds a color that ignores the package-wide terminal detection
func style(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Format formats the groups according to the configured format
func (f *formatter) Format(groups []report.Group) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"groups":     len(groups),
		"verbose":    f.config.Verbose,
		"withColors": f.config.WithColors,
	}).Debug("Starting format operation")

	ok := make([]report.Group, 0, len(groups))
	for _, g := range groups {
		if g.OK() {
			ok = append(ok, g)
		}
	}

	switch f.config.Format {
	case FormatHuman, "":
		return f.formatHuman(ok), nil
	case FormatCompact:
		return f.formatCompact(ok), nil
	case FormatJSON:
		return f.formatJSON(ok)
	case FormatYAML:
		return f.formatYAML(ok)
	default:
		msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
}

// icon prefixes name with an icon when colors are on
func (f *formatter) icon(icon, name string) string {
	if !f.config.WithColors {
		return name
	}
	return icon + " " + name
}

func pluralizeFiles(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
