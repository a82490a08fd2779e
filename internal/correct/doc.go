// Package correct runs the capitalization pipeline against a host document.
//
// The Controller listens to key and change notifications. On every change it
// asks the trigger detector whether a word was just completed and, if so,
// runs the list-item, word and sentence-start rules in that order against the
// target line. Each accepted edit is written back through the document's
// Replace method.
//
// # Echo Suppression
//
// Replacing text produces a change notification of its own. Before every
// replacement the controller records a pending Echo; the next notification
// consumes it and is otherwise ignored. Only one echo is ever outstanding: if
// the host does not deliver the echo before Replace returns, the pass stops
// and the remaining corrections wait for the next trigger.
//
// # Protected Regions
//
// The block-level classification of the target line (front-matter, code
// fence, math fence) is computed once when the pass starts and handed to
// every rule, which add the inline code and math checks against the current
// line text.
//
// # Basic Usage
//
//	buf := buffer.NewBuffer()
//	store := settings.NewStore(settings.Default())
//	ctrl := correct.New(buf, store)
//	buf.OnChange(ctrl.HandleChange)
//
//	ctrl.HandleKey(key.NewRuneEvent(' ', key.ModNone))
//	buf.Insert("HAllo ") // buffer now reads "Hallo "
package correct
