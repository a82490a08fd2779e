package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/capfix/internal/input/key"
)

// command is an editor action bound to a control key.
type command uint8

const (
	cmdNone command = iota
	cmdQuit
	cmdSave
	cmdFix
	cmdToggleListItems
	cmdToggleSentences
)

// commandFor returns the command bound to a tcell key, if any.
func commandFor(k tcell.Key) command {
	switch k {
	case tcell.KeyCtrlQ:
		return cmdQuit
	case tcell.KeyCtrlS:
		return cmdSave
	case tcell.KeyCtrlF:
		return cmdFix
	case tcell.KeyCtrlL:
		return cmdToggleListItems
	case tcell.KeyCtrlT:
		return cmdToggleSentences
	}
	return cmdNone
}

// convertKey converts a tcell key event to a key.Event.
// It reports false for keys the editor does not handle.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())

	var k key.Key
	switch ev.Key() {
	case tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods), true
	case tcell.KeyEscape:
		k = key.KeyEscape
	case tcell.KeyEnter:
		k = key.KeyEnter
	case tcell.KeyTab:
		k = key.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		k = key.KeyBackspace
	case tcell.KeyDelete:
		k = key.KeyDelete
	case tcell.KeyHome:
		k = key.KeyHome
	case tcell.KeyEnd:
		k = key.KeyEnd
	case tcell.KeyUp:
		k = key.KeyUp
	case tcell.KeyDown:
		k = key.KeyDown
	case tcell.KeyLeft:
		k = key.KeyLeft
	case tcell.KeyRight:
		k = key.KeyRight
	default:
		return key.Event{}, false
	}
	return key.NewSpecialEvent(k, mods), true
}

// convertMod converts tcell modifiers to key modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var mod key.Modifier
	if m&tcell.ModShift != 0 {
		mod |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mod |= key.ModMeta
	}
	return mod
}
