package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var (
	styleTile      = tcell.StyleDefault
	styleFocused   = tcell.StyleDefault.Reverse(true).Bold(true)
	styleActivated = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

func (h *Host) draw() {
	h.screen.Clear()
	for _, t := range h.tiles {
		h.drawTile(t)
	}
	h.drawStatus()
	h.screen.Show()
}

func (h *Host) drawTile(t *Tile) {
	style := styleTile
	switch {
	case t.activated:
		style = styleActivated
	case t.focused:
		style = styleFocused
	}

	x0, y0 := int(t.rect.X), int(t.rect.Y)
	x1, y1 := x0+int(t.rect.Width)-1, y0+int(t.rect.Height)-1
	if x1 <= x0 || y1 <= y0 {
		return
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r := ' '
			switch {
			case x == x0 && y == y0:
				r = tcell.RuneULCorner
			case x == x1 && y == y0:
				r = tcell.RuneURCorner
			case x == x0 && y == y1:
				r = tcell.RuneLLCorner
			case x == x1 && y == y1:
				r = tcell.RuneLRCorner
			case y == y0 || y == y1:
				r = tcell.RuneHLine
			case x == x0 || x == x1:
				r = tcell.RuneVLine
			}
			h.screen.SetContent(x, y, r, nil, style)
		}
	}

	label := t.Label
	if t.activations > 0 {
		label = fmt.Sprintf("%s (%d)", label, t.activations)
	}
	inner := x1 - x0 - 1
	if len(label) > inner {
		label = label[:inner]
	}
	drawText(h.screen, x0+1+(inner-len(label))/2, y0+(y1-y0)/2, label, style)
}

func (h *Host) drawStatus() {
	w, hgt := h.screen.Size()
	st := h.engine.State()

	perf := ""
	if st.PerformanceMode {
		perf = " perf"
	}
	line := fmt.Sprintf(" [%s] %s fps:%.0f%s  %s  (q quits)",
		st.CurrentGroup, st.InputMode, st.FrameRate, perf, h.status)
	if len(line) > w {
		line = line[:w]
	}
	drawText(h.screen, 0, hgt-1, line, styleStatus)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
