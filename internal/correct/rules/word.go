package rules

import (
	"unicode"

	"github.com/dshills/capfix/internal/correct/scan"
	"github.com/dshills/capfix/internal/settings"
)

// Word repairs words typed with two leading capitals: "HAllo" becomes
// "Hallo". Only the last word before the scan column is considered unless
// AllWords is set.
type Word struct {
	AllWords bool
}

// Name implements Rule.
func (Word) Name() string { return "word" }

// Enabled implements Rule. The word rule is always active.
func (Word) Enabled(*settings.Lookup) bool { return true }

// Propose implements Rule.
func (r Word) Propose(ctx Context) (Edit, bool) {
	text := ctx.scanned()

	var words []scan.Word
	if r.AllWords {
		words = scan.Words(text)
	} else if w, ok := scan.LastWord(text); ok {
		words = []scan.Word{w}
	}

	for _, w := range words {
		if edit, ok := fixDoubleCapital(ctx, w); ok {
			return edit, true
		}
	}
	return Edit{}, false
}

// fixDoubleCapital lowercases the second rune of w when w has the
// double-capital pattern, is not excluded and is not protected.
func fixDoubleCapital(ctx Context, w scan.Word) (Edit, bool) {
	if !scan.HasDoubleCapital(w.Text) || ctx.Lookup.IsExcluded(w.Text) {
		return Edit{}, false
	}
	off, second, ok := scan.SecondRune(w.Text)
	if !ok {
		return Edit{}, false
	}
	col := w.Start + off
	if ctx.Protected(col) {
		return Edit{}, false
	}
	return replaceRune(ctx, col, unicode.ToLower(second))
}
