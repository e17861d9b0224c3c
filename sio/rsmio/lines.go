package rsmio

import (
	"bufio"
	"io"
)

// lines wraps a line scanner while adding a Peek method, which allows
// inspection of the next line to be read without actually reading it.
type lines struct {
	scanner *bufio.Scanner
	cache   *string
	n       int
}

func newLines(r io.Reader) *lines {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &lines{scanner: s}
}

// Peek returns the next line, or nil at end of input.
func (l *lines) Peek() (*string, error) {
	if l.cache == nil {
		if !l.scanner.Scan() {
			return nil, l.scanner.Err()
		}
		s := l.scanner.Text()
		l.cache = &s
	}
	return l.cache, nil
}

func (l *lines) Read() (*string, error) {
	s, err := l.Peek()
	if s != nil {
		l.cache = nil
		l.n++
	}
	return s, err
}

// Line is the number of the line last returned by Read.
func (l *lines) Line() int {
	return l.n
}
