// Package trigger decides whether a buffer change completes a word and, if
// so, which line a correction pass should look at.
package trigger

import (
	"unicode/utf8"

	"github.com/dshills/capfix/internal/buffer"
)

// LineReader reads document lines. Lines outside the document read as empty.
type LineReader interface {
	LineText(line int) string
}

// Event describes the line a correction pass should examine.
type Event struct {
	// Line is the target line.
	Line int

	// ScanColumn bounds the part of the line rules may look at.
	ScanColumn int

	// Terminator is true when the pass was caused by Enter.
	Terminator bool

	// TriggerColumn is where the triggering character was typed.
	TriggerColumn int
}

// IsTriggerRune reports whether typing r completes a word.
func IsTriggerRune(r rune) bool {
	switch r {
	case ' ', '.', ',', ';', ':', '!', '?', '{', '"', ')', ']', '%', '}':
		return true
	}
	return false
}

// Detect computes the trigger event for the current cursor.
//
// After Enter the just-finished line above the cursor is scanned in full.
// Otherwise the cursor line is scanned up to the cursor, and only when the
// character before the cursor is a trigger rune.
func Detect(lastKeyWasTerminator bool, cursor buffer.Point, lines LineReader) (Event, bool) {
	if lastKeyWasTerminator && cursor.Line > 0 {
		line := cursor.Line - 1
		text := lines.LineText(line)
		if text == "" {
			return Event{}, false
		}
		return Event{
			Line:          line,
			ScanColumn:    len(text),
			Terminator:    true,
			TriggerColumn: len(text),
		}, true
	}

	text := lines.LineText(cursor.Line)
	col := cursor.Column
	if col > len(text) {
		col = len(text)
	}
	if col <= 0 {
		return Event{}, false
	}

	r, size := utf8.DecodeLastRuneInString(text[:col])
	if !IsTriggerRune(r) {
		return Event{}, false
	}
	return Event{
		Line:          cursor.Line,
		ScanColumn:    col,
		TriggerColumn: col - size,
	}, true
}
