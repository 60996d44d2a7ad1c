package progress

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

type renderer interface {
	render(status Status, message string, elapsed time.Duration) string
}

// percent clamps progress to [0, 100]
func percent(status Status) float64 {
	if status.Total <= 0 {
		return 0
	}
	p := float64(status.Current) / float64(status.Total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

func counts(status Status) string {
	return fmt.Sprintf("%s/%s files · %s",
		humanize.Comma(status.Current),
		humanize.Comma(status.Total),
		humanize.Bytes(uint64(status.BytesRead)))
}

type barRenderer struct {
	width   int
	noColor bool
}

func (r *barRenderer) render(status Status, message string, elapsed time.Duration) string {
	var output strings.Builder

	if message != "" {
		output.WriteString(message + " ")
	}

	barWidth := r.width / 3
	if barWidth < 10 {
		barWidth = 10
	}

	pct := percent(status)
	filled := int(float64(barWidth) * pct / 100)

	output.WriteString("[")
	if !r.noColor {
		output.WriteString("\033[32m")
	}
	output.WriteString(strings.Repeat("=", filled))
	if filled < barWidth {
		output.WriteString(">")
		output.WriteString(strings.Repeat(" ", barWidth-filled-1))
	}
	if !r.noColor {
		output.WriteString("\033[0m")
	}
	output.WriteString("]")

	output.WriteString(fmt.Sprintf(" %3.0f%% %s %s", pct, counts(status), formatDuration(elapsed)))

	if status.CurrentItem != "" {
		output.WriteString(" " + status.CurrentItem)
	}

	return output.String()
}

type simpleRenderer struct {
	noColor bool
}

func (r *simpleRenderer) render(status Status, message string, elapsed time.Duration) string {
	if !r.noColor && message != "" {
		message = fmt.Sprintf("\033[36m%s\033[0m", message)
	}

	return fmt.Sprintf("%s %s (%.0f%%)", message, counts(status), percent(status))
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

// truncate keeps the line within width runes so it never wraps. ANSI
// sequences count toward the width, which only makes the cut earlier.
func truncate(line string, width int) string {
	if width <= 0 || utf8.RuneCountInString(line) < width {
		return line
	}
	runes := []rune(line)
	return string(runes[:width-1])
}
