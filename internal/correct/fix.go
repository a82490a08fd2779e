package correct

import (
	"errors"
	"fmt"

	"github.com/dshills/capfix/internal/buffer"
	"github.com/dshills/capfix/internal/correct/region"
	"github.com/dshills/capfix/internal/correct/rules"
	"github.com/dshills/capfix/internal/settings"
)

// ErrBusy is returned when a whole-document fix is requested while a pass
// or an echo is outstanding.
var ErrBusy = errors.New("correction pass in progress")

// ErrEchoPending is returned when an edit was applied but its change
// notification has not been delivered yet.
var ErrEchoPending = errors.New("change notification pending")

// FixDocument corrects every line of doc at once: list items, every
// double-capital word and, when enabled, sentence starts. Protected regions
// are left untouched. It returns the number of edits applied.
func FixDocument(doc Editor, lookup *settings.Lookup) (int, error) {
	return fixLines(doc, lookup, rules.Document(), func(_ rules.Rule, edit rules.Edit) error {
		return replace(doc, edit)
	})
}

type applyFunc func(rules.Rule, rules.Edit) error

func fixLines(doc Editor, lookup *settings.Lookup, ruleSet []rules.Rule, apply applyFunc) (int, error) {
	verdicts := region.ClassifyAll(doc)
	edits := 0

	for line, verdict := range verdicts {
		if verdict.Block != region.KindNone {
			continue
		}
		for _, rule := range ruleSet {
			if !rule.Enabled(lookup) {
				continue
			}
			limit := len(doc.LineText(line)) + 1
			for i := 0; i < limit; i++ {
				text := doc.LineText(line)
				edit, ok := rule.Propose(rules.Context{
					Line:       line,
					Text:       text,
					ScanColumn: len(text),
					Region:     verdict,
					Lookup:     lookup,
				})
				if !ok {
					break
				}
				if err := apply(rule, edit); err != nil {
					if errors.Is(err, ErrEchoPending) {
						edits++
					}
					return edits, fmt.Errorf("line %d: %s: %w", line, rule.Name(), err)
				}
				edits++
			}
		}
	}
	return edits, nil
}

func replace(doc Editor, edit rules.Edit) error {
	return doc.Replace(edit.Text,
		buffer.Point{Line: edit.Line, Column: edit.Start},
		buffer.Point{Line: edit.Line, Column: edit.End})
}
