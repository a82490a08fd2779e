package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var statusStyle = tcell.StyleDefault.Reverse(true)

// draw renders the visible lines, the status line and the cursor.
func (s *Session) draw() {
	s.screen.Clear()
	width, height := s.screen.Size()
	rows := height - 1
	if rows < 1 {
		s.screen.Show()
		return
	}

	cur := s.buf.Cursor()
	s.scrollTo(cur.Line, rows)

	for y := 0; y < rows; y++ {
		n := s.top + y
		if n >= s.buf.LineCount() {
			break
		}
		drawLine(s.screen, y, width, s.buf.LineText(n))
	}
	s.drawStatus(height-1, width)

	x := displayColumn(s.buf.LineText(cur.Line), cur.Column)
	if x < width {
		s.screen.ShowCursor(x, cur.Line-s.top)
	} else {
		s.screen.HideCursor()
	}
	s.screen.Show()
}

// scrollTo keeps line inside the window of rows lines.
func (s *Session) scrollTo(line, rows int) {
	if line < s.top {
		s.top = line
	}
	if line >= s.top+rows {
		s.top = line - rows + 1
	}
}

func drawLine(screen tcell.Screen, y, width int, line string) {
	for _, c := range layoutLine(line) {
		if c.x+c.width > width {
			return
		}
		if c.text == "\t" {
			for i := 0; i < c.width; i++ {
				screen.SetContent(c.x+i, y, ' ', nil, tcell.StyleDefault)
			}
			continue
		}
		runes := []rune(c.text)
		screen.SetContent(c.x, y, runes[0], runes[1:], tcell.StyleDefault)
	}
}

func (s *Session) drawStatus(y, width int) {
	lookup := s.store.Lookup()
	cur := s.buf.Cursor()

	name := s.path
	if name == "" {
		name = "[no name]"
	}
	text := fmt.Sprintf(" %s  %d:%d  list:%s sentences:%s  %s",
		name, cur.Line+1, cur.Column+1, onOff(lookup.ListItems), onOff(lookup.Sentences), s.status)

	x := 0
	for _, c := range layoutLine(text) {
		if c.x+c.width > width {
			break
		}
		runes := []rune(c.text)
		s.screen.SetContent(c.x, y, runes[0], runes[1:], statusStyle)
		x = c.x + c.width
	}
	for ; x < width; x++ {
		s.screen.SetContent(x, y, ' ', nil, statusStyle)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
