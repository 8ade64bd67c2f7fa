package input

import "github.com/gdamore/tcell/v2"

// FromTcell maps a tcell key event to a Key.
func FromTcell(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyUp:
		return KeyThrow
	case tcell.KeyEnter:
		return KeyStart
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return KeyQuit
	case tcell.KeyRune:
		r := ev.Rune()
		if r > 0x7f {
			return KeyNone
		}
		return keyForByte(byte(r))
	}
	return KeyNone
}
