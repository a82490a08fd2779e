// Package term is a minimal terminal editor hosting the correction engine.
//
// Keys are reported to the controller before the buffer is mutated, so the
// change notification produced by the mutation sees the key that caused it.
// All document and settings mutations happen on the event loop goroutine;
// other goroutines hand work to it with Post.
package term

import (
	"context"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/capfix/internal/buffer"
	"github.com/dshills/capfix/internal/correct"
	"github.com/dshills/capfix/internal/input/key"
	"github.com/dshills/capfix/internal/logging"
	"github.com/dshills/capfix/internal/settings"
)

// quitSignal is posted to stop the event loop.
type quitSignal struct{}

// PersistFunc stores settings changed from the editor.
type PersistFunc func(settings.Settings) error

// Session is an interactive editing session on one buffer.
type Session struct {
	screen tcell.Screen
	buf    *buffer.Buffer
	ctrl   *correct.Controller
	store  *settings.Store
	logger *logging.Logger

	path    string
	persist PersistFunc

	top    int
	status string
	quit   bool
}

// Option configures a Session.
type Option func(*Session)

// WithPath sets the file the document is saved to.
func WithPath(path string) Option {
	return func(s *Session) {
		s.path = path
	}
}

// WithPersist sets where toggled settings are stored.
func WithPersist(fn PersistFunc) Option {
	return func(s *Session) {
		s.persist = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a session. The controller must already be registered
// as a change listener of buf.
func NewSession(screen tcell.Screen, buf *buffer.Buffer, ctrl *correct.Controller, store *settings.Store, opts ...Option) *Session {
	s := &Session{
		screen: screen,
		buf:    buf,
		ctrl:   ctrl,
		store:  store,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("term")
	return s
}

// Init initializes the screen.
func (s *Session) Init() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	return nil
}

// Close restores the terminal.
func (s *Session) Close() {
	s.screen.Fini()
}

// Run processes events until the user quits or ctx is cancelled.
// Init must have been called.
func (s *Session) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
		case <-done:
		}
	}()

	s.draw()
	for !s.quit {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		s.handleEvent(ev)
		s.draw()
	}
	return ctx.Err()
}

// Post runs fn on the event loop goroutine.
func (s *Session) Post(fn func()) error {
	return s.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// SetStatus sets the status line message. It must be called on the event
// loop goroutine.
func (s *Session) SetStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
}

func (s *Session) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		s.handleKey(e)
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventInterrupt:
		switch data := e.Data().(type) {
		case func():
			data()
		case quitSignal:
			s.quit = true
		}
	}
}

func (s *Session) handleKey(ev *tcell.EventKey) {
	if cmd := commandFor(ev.Key()); cmd != cmdNone {
		s.runCommand(cmd)
		return
	}

	kev, ok := convertKey(ev)
	if !ok {
		return
	}
	if kev.IsRune() && !kev.IsChar() {
		return
	}

	s.ctrl.HandleKey(kev)
	if err := s.apply(kev); err != nil {
		s.logger.Warn("%s: %v", kev, err)
	}
}

// apply performs the buffer mutation or cursor motion for a key.
func (s *Session) apply(ev key.Event) error {
	cur := s.buf.Cursor()
	line := s.buf.LineText(cur.Line)

	switch ev.Key {
	case key.KeyRune:
		return s.buf.Insert(string(ev.Rune))
	case key.KeyEnter:
		return s.buf.Insert("\n")
	case key.KeyTab:
		return s.buf.Insert("\t")
	case key.KeyBackspace:
		return s.buf.Backspace()
	case key.KeyDelete:
		end := buffer.Point{Line: cur.Line, Column: nextCluster(line, cur.Column)}
		if cur.Column >= len(line) {
			if cur.Line+1 >= s.buf.LineCount() {
				return nil
			}
			end = buffer.Point{Line: cur.Line + 1}
		}
		return s.buf.Replace("", cur, end)
	case key.KeyHome:
		return s.buf.SetCursor(buffer.Point{Line: cur.Line})
	case key.KeyEnd:
		return s.buf.SetCursor(buffer.Point{Line: cur.Line, Column: len(line)})
	case key.KeyLeft:
		switch {
		case cur.Column > 0:
			cur.Column = prevCluster(line, cur.Column)
		case cur.Line > 0:
			cur.Line--
			cur.Column = len(s.buf.LineText(cur.Line))
		}
		return s.buf.SetCursor(cur)
	case key.KeyRight:
		switch {
		case cur.Column < len(line):
			cur.Column = nextCluster(line, cur.Column)
		case cur.Line+1 < s.buf.LineCount():
			cur = buffer.Point{Line: cur.Line + 1}
		}
		return s.buf.SetCursor(cur)
	case key.KeyUp, key.KeyDown:
		target := cur.Line - 1
		if ev.Key == key.KeyDown {
			target = cur.Line + 1
		}
		if target < 0 || target >= s.buf.LineCount() {
			return nil
		}
		x := displayColumn(line, cur.Column)
		col := byteColumn(s.buf.LineText(target), x)
		return s.buf.SetCursor(buffer.Point{Line: target, Column: col})
	}
	return nil
}

func (s *Session) runCommand(cmd command) {
	switch cmd {
	case cmdQuit:
		s.quit = true
	case cmdSave:
		s.save()
	case cmdFix:
		n, err := s.ctrl.FixDocument()
		if err != nil {
			s.SetStatus("fix: %v", err)
			return
		}
		s.SetStatus("%d corrections", n)
	case cmdToggleListItems:
		s.toggle(func(st *settings.Settings) bool {
			st.CapitalizeListItems = !st.CapitalizeListItems
			return st.CapitalizeListItems
		}, "list items")
	case cmdToggleSentences:
		s.toggle(func(st *settings.Settings) bool {
			st.CapitalizeSentences = !st.CapitalizeSentences
			return st.CapitalizeSentences
		}, "sentences")
	}
}

func (s *Session) save() {
	if s.path == "" {
		s.SetStatus("no file name")
		return
	}
	if err := os.WriteFile(s.path, []byte(s.buf.Text()), 0o644); err != nil {
		s.logger.Error("saving %s: %v", s.path, err)
		s.SetStatus("save failed: %v", err)
		return
	}
	s.SetStatus("wrote %s", s.path)
}

func (s *Session) toggle(flip func(*settings.Settings) bool, name string) {
	st := s.store.Settings()
	on := flip(&st)
	s.store.Update(st)

	state := "off"
	if on {
		state = "on"
	}
	s.SetStatus("%s %s", name, state)

	if s.persist == nil {
		return
	}
	if err := s.persist(st); err != nil {
		s.logger.Error("persisting settings: %v", err)
		s.SetStatus("%s %s (not saved: %v)", name, state, err)
	}
}
