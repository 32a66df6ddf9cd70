package terminal

import (
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/gdamore/tcell/v2"
)

// keyEvent converts a tcell key into the DOM-style key the engine classifies
func keyEvent(ev *tcell.EventKey) (types.KeyEvent, bool) {
	shift := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyUp:
		return types.KeyEvent{Key: "ArrowUp", Shift: shift}, true
	case tcell.KeyDown:
		return types.KeyEvent{Key: "ArrowDown", Shift: shift}, true
	case tcell.KeyLeft:
		return types.KeyEvent{Key: "ArrowLeft", Shift: shift}, true
	case tcell.KeyRight:
		return types.KeyEvent{Key: "ArrowRight", Shift: shift}, true
	case tcell.KeyEnter:
		return types.KeyEvent{Key: "Enter"}, true
	case tcell.KeyTab:
		return types.KeyEvent{Key: "Tab", Shift: shift}, true
	case tcell.KeyBacktab:
		return types.KeyEvent{Key: "Tab", Shift: true}, true
	case tcell.KeyEscape:
		return types.KeyEvent{Key: "Escape"}, true
	case tcell.KeyRune:
		return types.KeyEvent{Key: string(ev.Rune()), Shift: shift}, true
	}
	return types.KeyEvent{}, false
}

// isQuit reports whether ev ends the demo
func isQuit(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return false
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		return ev.Rune() == 'c' || ev.Rune() == 'C'
	}
	return ev.Rune() == 'q' || ev.Rune() == 'Q'
}
