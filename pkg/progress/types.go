package progress

import (
	"io"
	"time"
)

// Style represents the type of progress visualization
type Style string

const (
	// StyleBar shows a progress bar with percentage
	StyleBar Style = "bar"

	// StyleSimple shows basic text progress
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// Width is the maximum line width (0 = auto-detect)
	Width int

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// Writer receives the progress line; nil means os.Stderr
	Writer io.Writer
}

// Status represents the current progress state
type Status struct {
	// Current is the number of finished items
	Current int64

	// Total is the expected number of items
	Total int64

	// CurrentItem is the last finished item
	CurrentItem string

	// BytesRead is the number of bytes counted so far
	BytesRead int64

	// StartTime of the operation
	StartTime time.Time
}

// Progress draws a single self-overwriting status line
type Progress interface {
	// Start begins progress visualization for total items
	Start(message string, total int64)

	// Add records one finished item. Safe for concurrent use.
	Add(item string, bytes int64)

	// Update replaces the progress status and redraws
	Update(status Status)

	// Status returns a snapshot of the current state
	Status() Status

	// Stop stops the render loop and clears the line
	Stop()

	// IsSupportedTerminal checks if the writer is a terminal
	IsSupportedTerminal() bool
}
