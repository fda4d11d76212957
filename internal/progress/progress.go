package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"tree-report/internal/walker"
)

const refreshInterval = 100 * time.Millisecond

// Counter renders a single, self-overwriting status line while a report is
// written. The total is unknown up front, so it counts instead of filling a bar.
type Counter struct {
	mu         sync.Mutex
	writer     io.Writer
	enabled    bool
	dirs       int
	files      int
	lines      int
	current    string
	lastUpdate time.Time
	now        func() time.Time
}

func New(writer io.Writer, enabled bool) *Counter {
	if writer == nil {
		writer = os.Stderr
	}
	return &Counter{
		writer:  writer,
		enabled: enabled,
		now:     time.Now,
	}
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func (c *Counter) Observe(e walker.Entry) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Kind {
	case walker.KindDir:
		c.dirs++
		c.current = e.Name
	case walker.KindFile:
		c.files++
		c.lines += e.Lines
	}

	// Update at most every 100ms to reduce flickering
	now := c.now()
	if now.Sub(c.lastUpdate) > refreshInterval {
		c.lastUpdate = now
		c.render()
	}
}

// render must be called with mu already locked
func (c *Counter) render() {
	var dirDisplay string
	if c.current != "" {
		dirDisplay = " | " + c.current
	}
	fmt.Fprintf(c.writer, "\r\033[K%d dirs, %d files, %d lines%s",
		c.dirs, c.files, c.lines, dirDisplay)
}

// Finish draws the final counts and ends the status line.
func (c *Counter) Finish() {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = ""
	c.render()
	fmt.Fprintf(c.writer, "\n")
}
