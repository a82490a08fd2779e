package correct

import (
	"github.com/google/uuid"

	"github.com/dshills/capfix/internal/buffer"
	"github.com/dshills/capfix/internal/correct/region"
	"github.com/dshills/capfix/internal/correct/rules"
	"github.com/dshills/capfix/internal/correct/trigger"
	"github.com/dshills/capfix/internal/input/key"
	"github.com/dshills/capfix/internal/logging"
	"github.com/dshills/capfix/internal/settings"
)

// Editor is a document that can be read line by line and edited by range.
type Editor interface {
	region.Lines
	Replace(text string, from, to buffer.Point) error
}

// Document is the host buffer the controller corrects.
type Document interface {
	Editor
	Cursor() buffer.Point
}

// LookupSource provides the settings lookup for a pass.
// *settings.Store implements it.
type LookupSource interface {
	Lookup() *settings.Lookup
}

// State is the controller's position in its state machine.
type State uint8

const (
	StateIdle State = iota
	StateEvaluating
	StateApplying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEvaluating:
		return "evaluating"
	case StateApplying:
		return "applying"
	default:
		return "unknown"
	}
}

// Echo is the token for a replacement whose change notification has not
// been seen yet.
type Echo struct {
	ID   uuid.UUID
	Edit rules.Edit
}

// Stats counts what the controller has done.
type Stats struct {
	Passes         uint64 // triggered passes
	Corrections    uint64 // applied edits
	EchoesConsumed uint64 // notifications recognized as our own edits
	Failed         uint64 // edits the document rejected
}

// Controller sequences the correction rules on document changes.
// It is not safe for concurrent use; all calls must come from the goroutine
// that mutates the document.
type Controller struct {
	doc    Document
	source LookupSource
	rules  []rules.Rule
	logger *logging.Logger

	state             State
	pending           *Echo
	lastKeyTerminator bool
	stats             Stats
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRules replaces the default rule sequence.
func WithRules(r ...rules.Rule) Option {
	return func(c *Controller) {
		c.rules = r
	}
}

// New creates a controller for doc.
func New(doc Document, source LookupSource, opts ...Option) *Controller {
	c := &Controller{
		doc:    doc,
		source: source,
		rules:  rules.Default(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("correct")
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Pending returns the outstanding echo, if any.
func (c *Controller) Pending() (Echo, bool) {
	if c.pending == nil {
		return Echo{}, false
	}
	return *c.pending, true
}

// Stats returns the counters.
func (c *Controller) Stats() Stats {
	return c.stats
}

// HandleKey records the last key seen. It must be called before the
// key's change reaches HandleChange.
func (c *Controller) HandleKey(ev key.Event) {
	c.lastKeyTerminator = ev.IsTerminator()
}

// HandleChange is the document change listener.
func (c *Controller) HandleChange(buffer.Change) {
	echo := c.pending
	c.pending = nil
	if echo != nil {
		c.stats.EchoesConsumed++
		c.logger.Debug("echo %s consumed", echo.ID)
		return
	}
	if c.state != StateIdle {
		return
	}

	c.state = StateEvaluating
	defer func() { c.state = StateIdle }()

	ev, ok := trigger.Detect(c.lastKeyTerminator, c.doc.Cursor(), c.doc)
	if !ok {
		return
	}
	c.stats.Passes++
	c.runPass(ev)
}

// runPass applies every enabled rule to the trigger line.
func (c *Controller) runPass(ev trigger.Event) {
	lookup := c.source.Lookup()
	verdict := region.Classify(c.doc, ev.Line)
	scanColumn := ev.ScanColumn
	c.logger.Debug("pass on line %d: trigger column %d, scan column %d, block %s",
		verdict.Line, ev.TriggerColumn, scanColumn, verdict.Block)

	for _, rule := range c.rules {
		if !rule.Enabled(lookup) {
			continue
		}
		limit := len(c.doc.LineText(ev.Line)) + 1
		for i := 0; i < limit; i++ {
			ctx := rules.Context{
				Line:       ev.Line,
				Text:       c.doc.LineText(ev.Line),
				ScanColumn: scanColumn,
				Region:     verdict,
				Lookup:     lookup,
			}
			edit, ok := rule.Propose(ctx)
			if !ok {
				break
			}
			if !c.apply(rule, edit) {
				return
			}
			if edit.Start < scanColumn {
				scanColumn += edit.Delta()
			}
		}
	}
}

// apply writes one edit. It returns false when the pass must stop, either
// because the document rejected the edit or because its echo is still
// outstanding.
func (c *Controller) apply(rule rules.Rule, edit rules.Edit) bool {
	c.state = StateApplying
	defer func() { c.state = StateEvaluating }()

	echo := &Echo{ID: uuid.New(), Edit: edit}
	c.pending = echo

	from := buffer.Point{Line: edit.Line, Column: edit.Start}
	to := buffer.Point{Line: edit.Line, Column: edit.End}
	if err := c.doc.Replace(edit.Text, from, to); err != nil {
		c.pending = nil
		c.stats.Failed++
		c.logger.Warn("%s edit %s rejected: %v", rule.Name(), edit, err)
		return false
	}

	c.stats.Corrections++
	c.logger.Debug("%s applied %s", rule.Name(), edit)

	if c.pending == echo {
		c.logger.Debug("echo %s not delivered synchronously; deferring remaining rules", echo.ID)
		return false
	}
	return true
}

// FixDocument runs the document rule set over every line of the document,
// suppressing the echo of each edit. It returns the number of edits applied.
// When the host defers change notifications the fix stops after the first
// edit with ErrEchoPending and may be resumed once the echo arrives.
func (c *Controller) FixDocument() (int, error) {
	if c.state != StateIdle || c.pending != nil {
		return 0, ErrBusy
	}
	c.state = StateEvaluating
	defer func() { c.state = StateIdle }()

	return fixLines(c.doc, c.source.Lookup(), rules.Document(), func(rule rules.Rule, edit rules.Edit) error {
		c.state = StateApplying
		defer func() { c.state = StateEvaluating }()

		echo := &Echo{ID: uuid.New(), Edit: edit}
		c.pending = echo
		if err := replace(c.doc, edit); err != nil {
			c.pending = nil
			c.stats.Failed++
			return err
		}
		c.stats.Corrections++
		if c.pending == echo {
			return ErrEchoPending
		}
		return nil
	})
}
