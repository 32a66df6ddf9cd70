package terminal

import (
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
)

// Cell size in the pixel-equivalent units reported to the engine, so the
// dead zone and scoring weights keep their meaning. Cells are about twice
// as tall as they are wide.
const (
	cellWidth  = 8
	cellHeight = 16
)

func toPixels(x, y int) (float64, float64) {
	return float64(x * cellWidth), float64(y * cellHeight)
}

func scaleRect(r types.Rect) types.Rect {
	return types.NewRect(r.X*cellWidth, r.Y*cellHeight, r.Width*cellWidth, r.Height*cellHeight)
}

// Tile is one focusable box on screen. Only touched on the host loop.
type Tile struct {
	ID    string
	Group string
	Label string

	rect        types.Rect
	focused     bool
	activated   bool
	activations int
	detached    bool
}

// Bounds returns the tile rectangle in pixel-equivalent units
func (t *Tile) Bounds() (types.Rect, error) {
	if t.detached {
		return types.Rect{}, registry.ErrStaleRegion
	}
	return scaleRect(t.rect), nil
}

// SetFocused toggles the focus highlight
func (t *Tile) SetFocused(focused bool) {
	t.focused = focused
}

// SetActivated toggles the activation pulse
func (t *Tile) SetActivated(active bool) {
	t.activated = active
}

// Activate counts a press
func (t *Tile) Activate() {
	t.activations++
}

// Activations returns how often the tile was pressed
func (t *Tile) Activations() int {
	return t.activations
}

// contains hit-tests a screen cell
func (t *Tile) contains(x, y int) bool {
	return t.rect.Contains(float64(x), float64(y))
}

func (t *Tile) focusable() registry.Focusable {
	return registry.Focusable{ID: t.ID, Group: t.Group, Region: t}
}
