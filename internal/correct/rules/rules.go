// Package rules implements the capitalization corrections.
//
// A rule inspects one line and proposes at most one Edit per call. Rules are
// pure: they never touch the document. The caller applies the edit, reads the
// line again and asks the same rule for its next proposal until it has none.
// Every edit a rule proposes removes the condition that produced it, so this
// loop always terminates.
package rules

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/capfix/internal/correct/region"
	"github.com/dshills/capfix/internal/settings"
)

// Edit replaces the byte range [Start, End) of Line with Text.
type Edit struct {
	Line  int
	Start int
	End   int
	Text  string
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	return fmt.Sprintf("%d:[%d,%d)=%q", e.Line, e.Start, e.End, e.Text)
}

// Delta returns the change in line length caused by the edit.
func (e Edit) Delta() int {
	return len(e.Text) - (e.End - e.Start)
}

// Context is everything a rule may look at.
type Context struct {
	// Line is the index of the line being corrected.
	Line int

	// Text is the current content of the line.
	Text string

	// ScanColumn bounds the part of Text the rule may correct.
	ScanColumn int

	// Region is the block-level classification of Line.
	Region region.Verdict

	// Lookup holds the exclusion and abbreviation sets.
	Lookup *settings.Lookup
}

// Protected reports whether offset in the line must not be edited.
func (c Context) Protected(offset int) bool {
	return c.Region.Protected(c.Text, offset)
}

// scanned returns the part of the line before ScanColumn.
func (c Context) scanned() string {
	if c.ScanColumn < 0 {
		return ""
	}
	if c.ScanColumn > len(c.Text) {
		return c.Text
	}
	return c.Text[:c.ScanColumn]
}

// Rule proposes corrections for a line.
type Rule interface {
	// Name identifies the rule in logs.
	Name() string

	// Enabled reports whether the rule runs under the given settings.
	Enabled(l *settings.Lookup) bool

	// Propose returns the next edit for the line, if any.
	Propose(ctx Context) (Edit, bool)
}

// Default returns the rules in the order they must run: list-item, word,
// sentence-start.
func Default() []Rule {
	return []Rule{ListItem{}, Word{}, Sentence{}}
}

// Document returns the rules used to correct a whole document at once.
func Document() []Rule {
	return []Rule{ListItem{}, Word{AllWords: true}, Sentence{}}
}

// replaceRune proposes replacing the rune at offset with r.
// It reports false when the replacement would not change the text.
func replaceRune(ctx Context, offset int, r rune) (Edit, bool) {
	old, size := utf8.DecodeRuneInString(ctx.Text[offset:])
	if old == r || size == 0 {
		return Edit{}, false
	}
	return Edit{
		Line:  ctx.Line,
		Start: offset,
		End:   offset + size,
		Text:  string(r),
	}, true
}
