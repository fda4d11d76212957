// Package report renders walker entries as the box-drawing tree report.
package report

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"tree-report/internal/logging"
	"tree-report/internal/walker"
)

const (
	HeaderPrefix    = "Project tree: "
	SeparatorWidth  = 60
	DirIcon         = "📁"
	FileIcon        = "📄"
	InaccessibleTag = "🚫 [inaccessible]"
	LinesUnit       = "行"
)

var Separator = strings.Repeat("=", SeparatorWidth)

func Header(root string) string {
	return HeaderPrefix + root
}

// FormatEntry renders one tree line without the trailing newline.
func FormatEntry(e walker.Entry) string {
	switch e.Kind {
	case walker.KindInaccessible:
		return e.Prefix + walker.LastConnector + InaccessibleTag
	case walker.KindFile:
		return e.Prefix + walker.Connector(e.Last) + FileIcon + " " + e.Name +
			" (" + strconv.Itoa(e.Lines) + " " + LinesUnit + ")"
	default:
		return e.Prefix + walker.Connector(e.Last) + DirIcon + " " + e.Name
	}
}

// Lines yields the full report: header, separator, one line per entry and
// the closing separator. Entries are pulled only as lines are consumed.
func Lines(root string, entries iter.Seq[walker.Entry]) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(Header(root)) || !yield(Separator) {
			return
		}
		for e := range entries {
			if !yield(FormatEntry(e)) {
				return
			}
		}
		yield(Separator)
	}
}

// Observer sees every entry as it is written.
type Observer interface {
	Observe(e walker.Entry)
}

type Stats struct {
	Dirs         int
	Files        int
	Lines        int
	Inaccessible int
	Unreadable   int
	// Checksum is the xxhash64 of every byte written.
	Checksum uint64
}

func (s Stats) ChecksumHex() string {
	return fmt.Sprintf("%016x", s.Checksum)
}

type Writer struct {
	logger    logging.Logger
	observers []Observer
}

func NewWriter(logger logging.Logger, observers ...Observer) *Writer {
	if logger == nil {
		logger = logging.Discard{}
	}
	return &Writer{logger: logger, observers: observers}
}

// Write streams the report for root into out. Degraded entries are logged as
// warnings but never fail the report; only write errors are returned.
func (w *Writer) Write(out io.Writer, root string, entries iter.Seq[walker.Entry]) (Stats, error) {
	var stats Stats
	digest := xxhash.New()
	buf := bufio.NewWriter(io.MultiWriter(out, digest))

	tapped := func(yield func(walker.Entry) bool) {
		for e := range entries {
			w.record(&stats, e)
			if !yield(e) {
				return
			}
		}
	}

	for line := range Lines(root, tapped) {
		if _, err := buf.WriteString(line + "\n"); err != nil {
			return stats, fmt.Errorf("failed to write report: %w", err)
		}
	}
	if err := buf.Flush(); err != nil {
		return stats, fmt.Errorf("failed to write report: %w", err)
	}

	stats.Checksum = digest.Sum64()
	return stats, nil
}

func (w *Writer) record(stats *Stats, e walker.Entry) {
	switch e.Kind {
	case walker.KindDir:
		stats.Dirs++
	case walker.KindFile:
		stats.Files++
		stats.Lines += e.Lines
		if e.Err != nil {
			stats.Unreadable++
			w.logger.Log(logging.LevelWarn, fmt.Sprintf("could not count lines in %s, reporting 0", e.Path), e.Err)
		}
	case walker.KindInaccessible:
		stats.Inaccessible++
		w.logger.Log(logging.LevelWarn, fmt.Sprintf("cannot list directory %s, skipping its contents", e.Path), e.Err)
	}

	for _, o := range w.observers {
		o.Observe(e)
	}
}
