// Package adapter implements a stand-in for a subprocess adapter: it
// announces itself, waits for the first line a supervisor writes to its
// stdin, echoes a short preview and exits.
package adapter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MsgStarting    = "[adapter] starting up"
	MsgWaiting     = "[adapter] waiting for input on stdin"
	MsgReceived    = "[adapter] received: "
	MsgReadError   = "[adapter] read error: "
	MsgInputClosed = "[adapter] input closed"
	MsgInterrupted = "[adapter] interrupted"
	MsgExiting     = "[adapter] exiting"
)

type Options struct {
	StartupDelay time.Duration
	PollInterval time.Duration
	// PreviewLen is counted in runes.
	PreviewLen int
}

func DefaultOptions() Options {
	return Options{
		StartupDelay: time.Second,
		PollInterval: 100 * time.Millisecond,
		PreviewLen:   20,
	}
}

type readResult struct {
	line string
	err  error
}

// Run never fails: read errors, end of input and cancellation all end the
// loop with a message, and the exit message is always written.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	if opts.PreviewLen <= 0 {
		opts.PreviewLen = DefaultOptions().PreviewLen
	}

	say(out, MsgStarting)
	say(out, MsgWaiting)

	defer say(out, MsgExiting)

	if !sleep(ctx, opts.StartupDelay) {
		say(out, MsgInterrupted)
		return
	}

	results := make(chan readResult, 1)
	done := make(chan struct{})
	defer close(done)
	go readLines(in, results, done)

	for {
		select {
		case <-ctx.Done():
			say(out, MsgInterrupted)
			return
		case res := <-results:
			text := strings.TrimSpace(res.line)
			if text != "" {
				say(out, MsgReceived+Preview(text, opts.PreviewLen))
				return
			}
			switch {
			case res.err == nil:
				// Blank line, keep waiting.
			case errors.Is(res.err, io.EOF):
				say(out, MsgInputClosed)
				return
			default:
				say(out, MsgReadError+res.err.Error())
				return
			}
		case <-time.After(opts.PollInterval):
		}
	}
}

// readLines stops once a read fails or Run has returned. A read already
// blocked on the reader cannot be interrupted; the process exit reclaims it.
func readLines(in io.Reader, results chan<- readResult, done <-chan struct{}) {
	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		select {
		case results <- readResult{line: line, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

// Preview truncates s to n runes, marking the cut with "...".
func Preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

type flusher interface {
	Flush() error
}

// say writes one line and pushes it out immediately so a supervising
// process sees progress without buffering delay.
func say(out io.Writer, msg string) {
	fmt.Fprintln(out, msg)
	if f, ok := out.(flusher); ok {
		f.Flush()
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
