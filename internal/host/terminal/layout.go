package terminal

import (
	"fmt"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
)

// Group names used by the demo layout
const (
	GroupNavigation = "navigation"
	GroupContent    = "content"
	GroupSidebar    = "sidebar"
)

const (
	minWidth  = 40
	minHeight = 16

	gap         = 1
	navHeight   = 3
	bodyTop     = navHeight + 2
	contentRows = 2
	contentCols = 3
	sideCount   = 3
)

var navLabels = []string{"Home", "Library", "Search", "Settings"}

// TileSpec places one tile
type TileSpec struct {
	ID    string
	Group string
	Label string
	Rect  types.Rect
}

// Layout positions the demo tiles for a screen of width x height cells.
// The top row is the navigation bar, the body is split into a content grid
// and a sidebar column, and the last row is left for the status line.
func Layout(width, height int) []TileSpec {
	width = max(width, minWidth)
	height = max(height, minHeight)

	specs := make([]TileSpec, 0, len(navLabels)+contentRows*contentCols+sideCount)

	navW := (width - gap*(len(navLabels)+1)) / len(navLabels)
	for i, label := range navLabels {
		x := gap + i*(navW+gap)
		specs = append(specs, TileSpec{
			ID:    fmt.Sprintf("nav-%d", i+1),
			Group: GroupNavigation,
			Label: label,
			Rect:  rect(x, 1, navW, navHeight),
		})
	}

	bodyH := height - bodyTop - 2
	sideW := width / 4
	contentW := width - sideW - gap

	cellW := (contentW - gap*(contentCols+1)) / contentCols
	cellH := (bodyH - gap*(contentRows-1)) / contentRows
	for r := 0; r < contentRows; r++ {
		for c := 0; c < contentCols; c++ {
			n := r*contentCols + c + 1
			specs = append(specs, TileSpec{
				ID:    fmt.Sprintf("content-%d", n),
				Group: GroupContent,
				Label: fmt.Sprintf("Item %d", n),
				Rect:  rect(gap+c*(cellW+gap), bodyTop+r*(cellH+gap), cellW, cellH),
			})
		}
	}

	sideX := contentW + gap
	sideH := (bodyH - gap*(sideCount-1)) / sideCount
	for i := 0; i < sideCount; i++ {
		specs = append(specs, TileSpec{
			ID:    fmt.Sprintf("side-%d", i+1),
			Group: GroupSidebar,
			Label: fmt.Sprintf("Panel %d", i+1),
			Rect:  rect(sideX, bodyTop+i*(sideH+gap), sideW-gap, sideH),
		})
	}
	return specs
}

func rect(x, y, w, h int) types.Rect {
	return types.NewRect(float64(x), float64(y), float64(w), float64(h))
}
