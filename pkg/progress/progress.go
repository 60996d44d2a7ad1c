// Package progress draws a single-line progress indicator on a terminal,
// typically stderr, while a long directory count is running.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sonemaro/ewc/pkg/logger"
	"golang.org/x/term"
)

// DefaultRefreshRate is used when Config.RefreshRate is zero
const DefaultRefreshRate = 100 * time.Millisecond

type fdWriter interface {
	Fd() uintptr
}

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	// State
	status   Status
	message  string
	isActive bool
	drawn    bool

	// Rendering
	renderer renderer
	width    int

	// Synchronization
	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a new progress visualization instance
func New(config Config, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = DefaultRefreshRate
	}
	if config.Writer == nil {
		config.Writer = os.Stderr
	}

	p := &progress{
		config: config,
		log:    log,
		writer: config.Writer,
	}

	p.width = p.config.Width
	if p.width == 0 {
		p.width = p.getTerminalWidth()
	}
	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":   p.config.Style,
		"width":   p.width,
		"noColor": p.config.NoColor,
		"refresh": p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

func (p *progress) Start(message string, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isActive {
		return
	}

	p.log.WithFields(logger.Fields{
		"message": message,
		"total":   total,
	}).Debug("Starting progress")

	p.message = message
	p.status = Status{Total: total, StartTime: time.Now()}
	p.isActive = true
	p.stopChan = make(chan struct{})
	p.doneChan = make(chan struct{})

	go p.renderLoop(p.stopChan, p.doneChan)
}

func (p *progress) Add(item string, bytes int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Current++
	p.status.BytesRead += bytes
	p.status.CurrentItem = item
}

func (p *progress) Update(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"current": status.Current,
		"total":   status.Total,
		"item":    status.CurrentItem,
	}).Trace("Updating progress")

	if status.StartTime.IsZero() {
		status.StartTime = p.status.StartTime
	}
	p.status = status

	if p.isActive {
		p.render()
	}
}

func (p *progress) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status
}

func (p *progress) Stop() {
	p.mu.Lock()
	if !p.isActive {
		p.mu.Unlock()
		return
	}
	p.isActive = false
	stop, done := p.stopChan, p.doneChan
	p.mu.Unlock()

	p.log.Debug("Stopping progress")

	// the render loop takes the lock on every tick
	close(stop)
	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		p.clearLine()
		p.drawn = false
	}
}

func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(fdWriter); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Internal methods

func (p *progress) renderLoop(stop <-chan struct{}, done chan<- struct{}) {
	ticker := time.NewTicker(p.config.RefreshRate)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.render()
			p.mu.Unlock()
		}
	}
}

// render must be called with p.mu held
func (p *progress) render() {
	line := p.renderer.render(p.status, p.message, time.Since(p.status.StartTime))
	p.clearLine()
	fmt.Fprint(p.writer, truncate(line, p.width))
	p.drawn = true
}

func (p *progress) clearLine() {
	if p.IsSupportedTerminal() {
		fmt.Fprint(p.writer, "\r\033[K")
	} else {
		fmt.Fprint(p.writer, "\r")
	}
}

func (p *progress) getTerminalWidth() int {
	if f, ok := p.writer.(fdWriter); ok && p.IsSupportedTerminal() {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}

	return 80
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleBar:
		return &barRenderer{
			width:   p.width,
			noColor: p.config.NoColor,
		}
	default:
		return &simpleRenderer{
			noColor: p.config.NoColor,
		}
	}
}

// nop discards everything; used when stderr is not a terminal
type nop struct {
	mu     sync.Mutex
	status Status
}

// NewNop returns a Progress that tracks state without drawing
func NewNop() Progress {
	return &nop{}
}

func (n *nop) Start(_ string, total int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = Status{Total: total, StartTime: time.Now()}
}

func (n *nop) Add(item string, bytes int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status.Current++
	n.status.BytesRead += bytes
	n.status.CurrentItem = item
}

func (n *nop) Update(status Status) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = status
}

func (n *nop) Status() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

func (n *nop) Stop()                     {}
func (n *nop) IsSupportedTerminal() bool { return false }
