package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrPointOutOfRange = errors.New("point out of range")
	ErrRangeInvalid    = errors.New("invalid range")
)

// Buffer holds the document as a slice of lines plus a cursor.
// All methods are thread-safe.
type Buffer struct {
	mu        sync.RWMutex
	lines     []string
	eol       string
	cursor    Point
	revision  uint64
	listeners []Listener
}

// NewBuffer creates a new empty buffer.
// An empty buffer has exactly one empty line.
func NewBuffer() *Buffer {
	return &Buffer{lines: []string{""}, eol: "\n"}
}

// NewBufferFromString creates a buffer with initial content.
// Lines are stored without terminators; the first line ending found in s
// is remembered and used again by Text.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{
		lines: strings.Split(normalizeLineEndings(s), "\n"),
		eol:   detectLineEnding(s),
	}
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func detectLineEnding(s string) string {
	i := strings.IndexAny(s, "\r\n")
	switch {
	case i < 0, s[i] == '\n':
		return "\n"
	case i+1 < len(s) && s[i+1] == '\n':
		return "\r\n"
	default:
		return "\r"
	}
}

// Read Operations

// Text returns the full buffer content joined with the line ending the
// buffer was loaded with (LF for new buffers).
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.eol)
}

// LineEnding returns the line terminator used by Text.
func (b *Buffer) LineEnding() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.eol
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a line without its newline.
// Lines outside the buffer read as empty.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

// Revision returns the number of mutations applied so far.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// SetCursor moves the cursor. The point must lie inside the buffer.
func (b *Buffer) SetCursor(p Point) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.validPoint(p) {
		return ErrPointOutOfRange
	}
	b.cursor = p
	return nil
}

// OnChange registers a listener for change notifications.
func (b *Buffer) OnChange(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Write Operations

// Replace replaces the half-open range [from, to) with text.
// The cursor follows the edit. Listeners are notified after the lock is
// released.
func (b *Buffer) Replace(text string, from, to Point) error {
	text = normalizeLineEndings(text)

	b.mu.Lock()
	if from.After(to) {
		b.mu.Unlock()
		return ErrRangeInvalid
	}
	if !b.validPoint(from) || !b.validPoint(to) {
		b.mu.Unlock()
		return ErrPointOutOfRange
	}

	change := b.replaceLocked(text, from, to)
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
	return nil
}

// Insert inserts text at the cursor and moves the cursor past it.
func (b *Buffer) Insert(text string) error {
	c := b.Cursor()
	return b.Replace(text, c, c)
}

// Backspace deletes the character before the cursor, joining lines when the
// cursor is at a line start. It is a no-op at the start of the buffer.
func (b *Buffer) Backspace() error {
	b.mu.RLock()
	c := b.cursor
	var from Point
	switch {
	case c.Column > 0:
		line := b.lines[c.Line]
		col := c.Column - 1
		for col > 0 && !isRuneStart(line[col]) {
			col--
		}
		from = Point{Line: c.Line, Column: col}
	case c.Line > 0:
		from = Point{Line: c.Line - 1, Column: len(b.lines[c.Line-1])}
	default:
		b.mu.RUnlock()
		return nil
	}
	b.mu.RUnlock()
	return b.Replace("", from, c)
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}

func (b *Buffer) validPoint(p Point) bool {
	if p.Line < 0 || p.Line >= len(b.lines) {
		return false
	}
	return p.Column >= 0 && p.Column <= len(b.lines[p.Line])
}

// replaceLocked applies the edit. Caller must hold the write lock.
func (b *Buffer) replaceLocked(text string, from, to Point) Change {
	var old strings.Builder
	if from.Line == to.Line {
		old.WriteString(b.lines[from.Line][from.Column:to.Column])
	} else {
		old.WriteString(b.lines[from.Line][from.Column:])
		for l := from.Line + 1; l < to.Line; l++ {
			old.WriteString("\n")
			old.WriteString(b.lines[l])
		}
		old.WriteString("\n")
		old.WriteString(b.lines[to.Line][:to.Column])
	}

	prefix := b.lines[from.Line][:from.Column]
	suffix := b.lines[to.Line][to.Column:]
	inserted := strings.Split(text, "\n")

	newEnd := Point{Line: from.Line + len(inserted) - 1}
	if len(inserted) == 1 {
		newEnd.Column = from.Column + len(text)
	} else {
		newEnd.Column = len(inserted[len(inserted)-1])
	}

	inserted[0] = prefix + inserted[0]
	inserted[len(inserted)-1] += suffix

	lines := make([]string, 0, len(b.lines)-(to.Line-from.Line)+len(inserted)-1)
	lines = append(lines, b.lines[:from.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, b.lines[to.Line+1:]...)
	b.lines = lines

	b.cursor = shiftPoint(b.cursor, from, to, newEnd)
	b.revision++

	return Change{
		Range:    Range{Start: from, End: to},
		NewEnd:   newEnd,
		OldText:  old.String(),
		NewText:  text,
		Revision: b.revision,
	}
}

// shiftPoint maps a pre-edit point to its post-edit position.
// Points inside the replaced range collapse to the end of the new text.
func shiftPoint(p, from, to, newEnd Point) Point {
	if p.Before(from) {
		return p
	}
	if p.Before(to) {
		return newEnd
	}
	if p.Line == to.Line {
		return Point{Line: newEnd.Line, Column: newEnd.Column + p.Column - to.Column}
	}
	return Point{Line: p.Line + newEnd.Line - to.Line, Column: p.Column}
}
