package rules

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/capfix/internal/correct/scan"
	"github.com/dshills/capfix/internal/settings"
)

// Sentence capitalizes the first letter of sentences: at the start of a
// line and after '.', '!' or '?' plus whitespace. A terminator that ends a
// configured abbreviation does not start a sentence.
type Sentence struct{}

// Name implements Rule.
func (Sentence) Name() string { return "sentence-start" }

// Enabled implements Rule.
func (Sentence) Enabled(l *settings.Lookup) bool { return l != nil && l.Sentences }

// Propose implements Rule.
func (Sentence) Propose(ctx Context) (Edit, bool) {
	for _, st := range scan.SentenceStarts(ctx.Text) {
		if st.Offset >= ctx.ScanColumn {
			continue
		}
		if st.Terminator >= 0 && ctx.Lookup.IsAbbreviation(scan.TokenBefore(ctx.Text, st.Terminator)) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(ctx.Text[st.Offset:])
		if !unicode.IsLetter(r) {
			continue
		}
		if w, ok := scan.WordAt(ctx.Text, st.Offset); ok && ctx.Lookup.IsExcluded(w.Text) {
			continue
		}
		if ctx.Protected(st.Offset) {
			continue
		}
		if edit, ok := replaceRune(ctx, st.Offset, unicode.ToUpper(r)); ok {
			return edit, true
		}
	}
	return Edit{}, false
}
