// Package adapter contains infrastructure adapters for the analyze-bcpf CLI:
// build invocation, filesystem access and report persistence. It hides
// direct os/exec access so the domain logic can be tested without running
// a build.
package adapter

import (
	"bufio"
	"io"
	"strings"
)

// LineStream is a one-directional pull cursor over lines of text. Next
// returns the next line with trailing whitespace stripped, or false once
// the underlying source is exhausted.
type LineStream interface {
	Next() (string, bool)
}

// maxLineSize bounds a single build output line. Soong error lines can get
// long but never anywhere near this.
const maxLineSize = 1024 * 1024

type readerLineStream struct {
	scanner *bufio.Scanner
}

// NewLineStream wraps a reader in a LineStream.
func NewLineStream(r io.Reader) LineStream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &readerLineStream{scanner: scanner}
}

func (s *readerLineStream) Next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}

	return strings.TrimRight(s.scanner.Text(), " \t\r"), true
}

type staticLineStream struct {
	lines []string
	index int
}

// NewStaticLineStream returns a LineStream over a fixed slice of lines.
// Trailing whitespace is stripped the same way NewLineStream does it.
func NewStaticLineStream(lines []string) LineStream {
	return &staticLineStream{lines: lines}
}

func (s *staticLineStream) Next() (string, bool) {
	if s.index >= len(s.lines) {
		return "", false
	}

	line := strings.TrimRight(s.lines[s.index], " \t\r")
	s.index++

	return line, true
}
