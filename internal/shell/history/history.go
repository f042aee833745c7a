// Package history holds the shell's executed-line history and its
// persistence adapters.
//
// The buffer is append-only during a session. On disk and in Redis the lines
// are stored oldest first, newest appended at the end; that ordering is
// stable across restarts. Navigation indexes run the other way: index 0 is
// the most recent entry.
package history

import "strings"

// Buffer is an ordered sequence of executed raw input lines.
type Buffer struct {
	lines []string // oldest first
	max   int
}

// DefaultMax bounds the number of retained lines.
const DefaultMax = 1000

// NewBuffer creates a buffer seeded with previously persisted lines
// (oldest first).
func NewBuffer(lines []string) *Buffer {
	b := &Buffer{max: DefaultMax}
	for _, line := range lines {
		b.Append(line)
	}
	return b
}

// Append records an executed line. Blank lines are not recorded.
func (b *Buffer) Append(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	b.lines = append(b.lines, line)
	if len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
}

// Len reports the number of recorded lines.
func (b *Buffer) Len() int { return len(b.lines) }

// Recent returns the i-th entry counting back from the most recent (i=0).
func (b *Buffer) Recent(i int) (string, bool) {
	if i < 0 || i >= len(b.lines) {
		return "", false
	}
	return b.lines[len(b.lines)-1-i], true
}

// Lines returns a copy of the buffer in persistence order (oldest first).
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Search returns the most recent line containing query as a substring.
func (b *Buffer) Search(query string) (string, bool) {
	if query == "" {
		return "", false
	}
	for i := len(b.lines) - 1; i >= 0; i-- {
		if strings.Contains(b.lines[i], query) {
			return b.lines[i], true
		}
	}
	return "", false
}
