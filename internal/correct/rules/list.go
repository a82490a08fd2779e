package rules

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/capfix/internal/correct/scan"
	"github.com/dshills/capfix/internal/settings"
)

// ListItem capitalizes the first word of bullet ("- ", "* ") and numbered
// ("1. ") list items. It first repairs a double capital, then capitalizes the
// first letter; each is proposed separately.
type ListItem struct{}

// Name implements Rule.
func (ListItem) Name() string { return "list-item" }

// Enabled implements Rule.
func (ListItem) Enabled(l *settings.Lookup) bool { return l != nil && l.ListItems }

// Propose implements Rule.
func (ListItem) Propose(ctx Context) (Edit, bool) {
	start, ok := scan.ListContent(ctx.Text)
	if !ok {
		return Edit{}, false
	}
	first, _ := utf8.DecodeRuneInString(ctx.Text[start:])
	if !unicode.IsLetter(first) {
		return Edit{}, false
	}
	w, ok := scan.WordAt(ctx.Text, start)
	if !ok || w.End() > ctx.ScanColumn || ctx.Lookup.IsExcluded(w.Text) {
		return Edit{}, false
	}
	if ctx.Protected(w.Start) {
		return Edit{}, false
	}

	if edit, ok := fixDoubleCapital(ctx, w); ok {
		return edit, true
	}
	if !unicode.IsUpper(first) {
		return replaceRune(ctx, w.Start, unicode.ToUpper(first))
	}
	return Edit{}, false
}
