package correct

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/capfix/internal/buffer"
	"github.com/dshills/capfix/internal/correct/region"
	"github.com/dshills/capfix/internal/correct/rules"
	"github.com/dshills/capfix/internal/input/key"
	"github.com/dshills/capfix/internal/logging"
	"github.com/dshills/capfix/internal/settings"
)

type session struct {
	buf  *buffer.Buffer
	ctrl *Controller
}

// newSession opens content with the cursor at the end of the last line.
func newSession(t *testing.T, content string, s settings.Settings) *session {
	t.Helper()

	buf := buffer.NewBufferFromString(content)
	last := buf.LineCount() - 1
	if err := buf.SetCursor(buffer.Point{Line: last, Column: len(buf.LineText(last))}); err != nil {
		t.Fatalf("SetCursor failed: %v", err)
	}
	ctrl := New(buf, settings.NewStore(s))
	buf.OnChange(ctrl.HandleChange)
	return &session{buf: buf, ctrl: ctrl}
}

// typeText feeds text one key at a time, the way a user types it.
func (s *session) typeText(t *testing.T, text string) {
	t.Helper()

	for _, r := range text {
		if r == '\n' {
			s.ctrl.HandleKey(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
		} else {
			s.ctrl.HandleKey(key.NewRuneEvent(r, key.ModNone))
		}
		if err := s.buf.Insert(string(r)); err != nil {
			t.Fatalf("insert %q failed: %v", r, err)
		}
	}
}

func listSettings() settings.Settings {
	s := settings.Default()
	s.CapitalizeListItems = true
	return s
}

func sentenceSettings() settings.Settings {
	s := settings.Default()
	s.CapitalizeSentences = true
	return s
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		typed    string
		settings settings.Settings
		line     int
		want     string
	}{
		{"word rule", "", "HAllo ", settings.Default(), 0, "Hallo "},
		{"list item double capital", "", "- HAllo\n", listSettings(), 0, "- Hallo"},
		{"list item lowercase start", "", "- hallo\n", listSettings(), 0, "- Hallo"},
		{"list item on punctuation", "", "- hallo,", listSettings(), 0, "- Hallo,"},
		{"code block protection", "```\n", "HAllo ", settings.Default(), 1, "HAllo "},
		{"sentence rule", "", "Hello world. this is new.", sentenceSettings(), 0, "Hello world. This is new."},
		{"front-matter protection", "---\n", "HAllo ", listSettings(), 1, "HAllo "},
		{"abbreviation", "", "This is e.g. not a new sentence.", sentenceSettings(), 0, "This is e.g. not a new sentence."},
		{"list disabled", "", "- hallo\n", settings.Default(), 0, "- hallo"},
		{"sentences disabled", "", "Done. next ", settings.Default(), 0, "Done. next "},
		{"mid word untouched", "", "HAllo", settings.Default(), 0, "HAllo"},
		{"inline code", "", "`HAllo ", settings.Default(), 0, "`HAllo "},
		{"after closed fence", "```\ncode\n```\n", "HAllo ", settings.Default(), 3, "Hallo "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.initial, tt.settings)
			s.typeText(t, tt.typed)

			if got := s.buf.LineText(tt.line); got != tt.want {
				t.Errorf("line %d = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestFrontMatterClosedProtection(t *testing.T) {
	s := newSession(t, "---\n\n---\nbody", listSettings())
	if err := s.buf.SetCursor(buffer.Point{Line: 1, Column: 0}); err != nil {
		t.Fatalf("SetCursor failed: %v", err)
	}

	s.typeText(t, "HAllo ")

	if got := s.buf.LineText(1); got != "HAllo " {
		t.Errorf("front-matter line was modified: %q", got)
	}
}

func TestEchoesAreConsumed(t *testing.T) {
	s := newSession(t, "", listSettings())
	s.typeText(t, "- HAllo\n")

	stats := s.ctrl.Stats()
	if stats.Corrections != 1 {
		t.Errorf("expected 1 correction, got %d", stats.Corrections)
	}
	if stats.EchoesConsumed != stats.Corrections {
		t.Errorf("every correction must be echoed once: %+v", stats)
	}
	if _, ok := s.ctrl.Pending(); ok {
		t.Error("no echo may remain outstanding after a synchronous pass")
	}
	if s.ctrl.State() != StateIdle {
		t.Errorf("expected idle state, got %s", s.ctrl.State())
	}
}

func TestCursorPreserved(t *testing.T) {
	s := newSession(t, "", sentenceSettings())
	s.typeText(t, "one. two ")

	if got := s.buf.LineText(0); got != "One. Two " {
		t.Fatalf("unexpected line %q", got)
	}
	if c := s.buf.Cursor(); c != (buffer.Point{Line: 0, Column: 9}) {
		t.Errorf("cursor moved to %s", c)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	s := newSession(t, "", listSettings())
	s.typeText(t, "- hallo HAllo, ")
	first := s.buf.Text()

	// A second notification with the same cursor re-runs the pass.
	s.ctrl.HandleChange(buffer.Change{})
	if got := s.buf.Text(); got != first {
		t.Errorf("second pass changed %q to %q", first, got)
	}
	if first != "- Hallo Hallo, " {
		t.Errorf("unexpected text %q", first)
	}
}

func TestExclusionPrecedence(t *testing.T) {
	st := listSettings()
	st.ExclusionWords = []string{"HALLO"}

	s := newSession(t, "", st)
	s.typeText(t, "- HAllo HAllo ")

	if got := s.buf.LineText(0); got != "- HAllo HAllo " {
		t.Errorf("excluded words were modified: %q", got)
	}
}

func TestSettingsChangeTakesEffect(t *testing.T) {
	buf := buffer.NewBuffer()
	store := settings.NewStore(settings.Default())
	ctrl := New(buf, store)
	buf.OnChange(ctrl.HandleChange)
	s := &session{buf: buf, ctrl: ctrl}

	s.typeText(t, "- hallo\n")
	if got := buf.LineText(0); got != "- hallo" {
		t.Fatalf("list rule ran while disabled: %q", got)
	}

	store.Update(listSettings())
	s.typeText(t, "- world\n")
	if got := buf.LineText(1); got != "- World" {
		t.Errorf("list rule did not pick up new settings: %q", got)
	}
}

// deferredDoc delivers change notifications only when flushed.
type deferredDoc struct {
	lines   []string
	cursor  buffer.Point
	queue   []buffer.Change
	failing bool
}

func (d *deferredDoc) LineCount() int { return len(d.lines) }

func (d *deferredDoc) LineText(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n]
}

func (d *deferredDoc) Cursor() buffer.Point { return d.cursor }

func (d *deferredDoc) Replace(text string, from, to buffer.Point) error {
	if d.failing {
		return buffer.ErrRangeInvalid
	}
	line := d.lines[from.Line]
	d.lines[from.Line] = line[:from.Column] + text + line[to.Column:]
	d.queue = append(d.queue, buffer.Change{Range: buffer.Range{Start: from, End: to}, NewText: text})
	return nil
}

func (d *deferredDoc) flush(c *Controller) {
	queue := d.queue
	d.queue = nil
	for _, ch := range queue {
		c.HandleChange(ch)
	}
}

func TestSingleOutstandingEcho(t *testing.T) {
	doc := &deferredDoc{lines: []string{"one. two "}, cursor: buffer.Point{Column: 9}}
	ctrl := New(doc, settings.NewStore(sentenceSettings()))

	ctrl.HandleChange(buffer.Change{})

	if doc.lines[0] != "One. two " {
		t.Fatalf("expected exactly one edit before the echo, got %q", doc.lines[0])
	}
	echo, ok := ctrl.Pending()
	if !ok {
		t.Fatal("expected an outstanding echo")
	}
	if echo.Edit.Start != 0 || echo.Edit.Text != "O" {
		t.Errorf("unexpected pending edit %s", echo.Edit)
	}

	// The echo arrives and is swallowed.
	doc.flush(ctrl)
	if _, ok := ctrl.Pending(); ok {
		t.Error("echo should have been consumed")
	}
	if doc.lines[0] != "One. two " {
		t.Errorf("echo must not start a pass, got %q", doc.lines[0])
	}

	// The next independent change resumes the corrections.
	ctrl.HandleChange(buffer.Change{})
	doc.flush(ctrl)
	if doc.lines[0] != "One. Two " {
		t.Errorf("expected second sentence fixed on the next change, got %q", doc.lines[0])
	}
}

func TestRejectedEditIsSkipped(t *testing.T) {
	doc := &deferredDoc{lines: []string{"HAllo "}, cursor: buffer.Point{Column: 6}, failing: true}
	ctrl := New(doc, settings.NewStore(settings.Default()))

	ctrl.HandleChange(buffer.Change{})

	if doc.lines[0] != "HAllo " {
		t.Errorf("text changed despite rejection: %q", doc.lines[0])
	}
	if _, ok := ctrl.Pending(); ok {
		t.Error("a rejected edit must not leave an echo behind")
	}
	if st := ctrl.Stats(); st.Failed != 1 || st.Corrections != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
	if ctrl.State() != StateIdle {
		t.Errorf("expected idle, got %s", ctrl.State())
	}
}

type countingRule struct {
	rules.Word
	calls int
}

func (r *countingRule) Propose(ctx rules.Context) (rules.Edit, bool) {
	r.calls++
	return r.Word.Propose(ctx)
}

func TestWithRules(t *testing.T) {
	buf := buffer.NewBuffer()
	rule := &countingRule{}
	ctrl := New(buf, settings.NewStore(settings.Default()), WithRules(rule))
	buf.OnChange(ctrl.HandleChange)

	s := &session{buf: buf, ctrl: ctrl}
	s.typeText(t, "HAllo")
	if rule.calls != 0 {
		t.Errorf("rules must not run without a trigger, got %d calls", rule.calls)
	}

	s.typeText(t, " ")
	if rule.calls != 2 {
		t.Errorf("expected one proposal and one empty follow-up, got %d calls", rule.calls)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StateIdle:       "idle",
		StateEvaluating: "evaluating",
		StateApplying:   "applying",
		State(9):        "unknown",
	} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

const fixInput = "---\n" +
	"title: HAllo\n" +
	"---\n" +
	"HAllo WOrld. this is e.g. fine.\n" +
	"```go\n" +
	"HAllo\n" +
	"```\n" +
	"- hallo\n" +
	"$$\n" +
	"HAllo\n" +
	"$$\n" +
	"`HAllo` and THere"

const fixOutput = "---\n" +
	"title: HAllo\n" +
	"---\n" +
	"Hallo World. This is e.g. fine.\n" +
	"```go\n" +
	"HAllo\n" +
	"```\n" +
	"- Hallo\n" +
	"$$\n" +
	"HAllo\n" +
	"$$\n" +
	"`HAllo` and There"

func TestFixDocument(t *testing.T) {
	buf := buffer.NewBufferFromString(fixInput)
	s := settings.Default()
	s.CapitalizeListItems = true
	s.CapitalizeSentences = true

	n, err := FixDocument(buf, s.Lookup())
	if err != nil {
		t.Fatalf("FixDocument failed: %v", err)
	}
	if got := buf.Text(); got != fixOutput {
		t.Errorf("FixDocument produced\n%s\nwant\n%s", got, fixOutput)
	}
	if n != 5 {
		t.Errorf("expected 5 edits, got %d", n)
	}

	again, err := FixDocument(buf, s.Lookup())
	if err != nil || again != 0 {
		t.Errorf("second run must be a no-op, got %d edits, err %v", again, err)
	}
}

func TestControllerFixDocument(t *testing.T) {
	s := settings.Default()
	s.CapitalizeListItems = true
	s.CapitalizeSentences = true
	sess := newSession(t, fixInput, s)

	n, err := sess.ctrl.FixDocument()
	if err != nil {
		t.Fatalf("FixDocument failed: %v", err)
	}
	if n != 5 || sess.buf.Text() != fixOutput {
		t.Errorf("unexpected result: %d edits\n%s", n, sess.buf.Text())
	}
	st := sess.ctrl.Stats()
	if st.Passes != 0 || st.EchoesConsumed != 5 {
		t.Errorf("whole-document edits must be echo-suppressed, got %+v", st)
	}
}

func TestControllerFixDocumentDeferredEcho(t *testing.T) {
	doc := &deferredDoc{lines: []string{"HAllo WOrld"}}
	ctrl := New(doc, settings.NewStore(settings.Default()))

	n, err := ctrl.FixDocument()
	if !errors.Is(err, ErrEchoPending) {
		t.Fatalf("expected ErrEchoPending, got %v", err)
	}
	if n != 1 || doc.lines[0] != "Hallo WOrld" {
		t.Errorf("expected one edit, got %d: %q", n, doc.lines[0])
	}

	if _, err := ctrl.FixDocument(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while the echo is outstanding, got %v", err)
	}

	doc.flush(ctrl)
	if _, err := ctrl.FixDocument(); !errors.Is(err, ErrEchoPending) {
		t.Errorf("expected the fix to resume, got %v", err)
	}
	if doc.lines[0] != "Hallo World" {
		t.Errorf("unexpected line %q", doc.lines[0])
	}
}

func TestFixDocumentLeavesProtectedLines(t *testing.T) {
	buf := buffer.NewBufferFromString("```\nHAllo\n")
	n, err := FixDocument(buf, settings.Default().Lookup())
	if err != nil || n != 0 {
		t.Errorf("unclosed fence must protect the rest of the document, got %d edits, err %v", n, err)
	}
	if !strings.HasPrefix(buf.Text(), "```\nHAllo") {
		t.Errorf("unexpected text %q", buf.Text())
	}
	if !region.IsProtected(buf, 1, 1) {
		t.Error("expected line 1 to be protected")
	}
}

func TestPassLogsTrigger(t *testing.T) {
	var out bytes.Buffer
	buf := buffer.NewBufferFromString("```\n")
	if err := buf.SetCursor(buffer.Point{Line: 1, Column: 0}); err != nil {
		t.Fatalf("SetCursor failed: %v", err)
	}
	logger := logging.New(logging.Config{Level: logging.LogLevelDebug, Output: &out})
	ctrl := New(buf, settings.NewStore(settings.Default()), WithLogger(logger))
	buf.OnChange(ctrl.HandleChange)

	s := &session{buf: buf, ctrl: ctrl}
	s.typeText(t, "HEllo,")

	if got := buf.LineText(1); got != "HEllo," {
		t.Errorf("protected line changed: %q", got)
	}
	log := out.String()
	for _, want := range []string{"pass on line 1", "trigger column 5", "scan column 6", "block " + region.KindCodeFence.String()} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q:\n%s", want, log)
		}
	}
}
