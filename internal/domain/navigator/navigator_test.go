package navigator

import (
	"testing"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"gonum.org/v1/gonum/spatial/r2"
)

var defaultParams = Params{
	DeadZone:        10,
	AlignmentWeight: 100,
	Viewport:        types.Size{Width: 1920, Height: 1080},
}

func cand(id string, x, y float64, seq uint64) Candidate {
	return Candidate{ID: id, Center: r2.Vec{X: x, Y: y}, Seq: seq}
}

func TestSearchDirectionalCorrectness(t *testing.T) {
	// 3x3 grid, origin in the middle
	grid := []Candidate{
		cand("nw", 0, 0, 1), cand("n", 100, 0, 2), cand("ne", 200, 0, 3),
		cand("w", 0, 100, 4), cand("e", 200, 100, 6),
		cand("sw", 0, 200, 7), cand("s", 100, 200, 8), cand("se", 200, 200, 9),
	}
	origin := r2.Vec{X: 100, Y: 100}

	tests := []struct {
		dir  types.Direction
		want string
	}{
		{types.DirectionUp, "n"},
		{types.DirectionDown, "s"},
		{types.DirectionLeft, "w"},
		{types.DirectionRight, "e"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			got, ok := Search(origin, tt.dir, grid, defaultParams)
			if !ok {
				t.Fatal("expected a candidate")
			}
			if got.ID != tt.want {
				t.Errorf("Search(%s) = %s, want %s", tt.dir, got.ID, tt.want)
			}
		})
	}
}

func TestSearchOnlyReturnsCandidatesInDirection(t *testing.T) {
	candidates := []Candidate{cand("above", 500, 0, 1), cand("left", 0, 300, 2)}
	got, ok := Search(r2.Vec{X: 300, Y: 300}, types.DirectionUp, candidates, defaultParams)
	if !ok || got.ID != "above" {
		t.Fatalf("Search() = %v/%v, want above", got.ID, ok)
	}
	if got.Distance <= 0 {
		t.Error("distance must be positive")
	}
}

func TestSearchDeadZone(t *testing.T) {
	// 10px is inside the dead zone, 11px is not
	candidates := []Candidate{cand("near", 100, 90, 1)}
	if _, ok := Search(r2.Vec{X: 100, Y: 100}, types.DirectionUp, candidates, defaultParams); ok {
		t.Error("candidate at exactly the dead zone should be rejected")
	}

	candidates = []Candidate{cand("past", 100, 89, 1)}
	if _, ok := Search(r2.Vec{X: 100, Y: 100}, types.DirectionUp, candidates, defaultParams); !ok {
		t.Error("candidate past the dead zone should be accepted")
	}
}

func TestSearchNoWraparound(t *testing.T) {
	// origin is the top row; nothing above it
	candidates := []Candidate{cand("below", 100, 300, 1), cand("side", 400, 100, 2)}
	if got, ok := Search(r2.Vec{X: 100, Y: 100}, types.DirectionUp, candidates, defaultParams); ok {
		t.Errorf("Search() = %s, want no result", got.ID)
	}
}

func TestSearchAlignmentTieBreak(t *testing.T) {
	// equidistant targets; the aligned one wins through the alignment term
	candidates := []Candidate{
		cand("diagonal", 170.71, 29.29, 1),
		cand("straight", 100, 0, 2),
	}
	got, ok := Search(r2.Vec{X: 100, Y: 100}, types.DirectionUp, candidates, defaultParams)
	if !ok || got.ID != "straight" {
		t.Errorf("Search() = %s, want straight", got.ID)
	}
}

func TestSearchEqualScoreTieBreak(t *testing.T) {
	params := Params{DeadZone: 10, AlignmentWeight: 0, Viewport: types.Size{Width: 1000, Height: 1000}}

	// same distance and no alignment weight: higher alignment wins
	candidates := []Candidate{cand("offset", 160, 20, 1), cand("straight", 100, 0, 2)}
	got, _ := Search(r2.Vec{X: 100, Y: 100}, types.DirectionUp, candidates, params)
	if got.ID != "straight" {
		t.Errorf("Search() = %s, want straight on alignment tie-break", got.ID)
	}

	// identical geometry: registration order wins
	candidates = []Candidate{cand("late", 100, 0, 9), cand("early", 100, 0, 3)}
	got, _ = Search(r2.Vec{X: 100, Y: 100}, types.DirectionUp, candidates, params)
	if got.ID != "early" {
		t.Errorf("Search() = %s, want early on registration tie-break", got.ID)
	}
}

func TestAlignment(t *testing.T) {
	viewport := types.Size{Width: 1000, Height: 500}
	tests := []struct {
		name  string
		delta r2.Vec
		dir   types.Direction
		want  float64
	}{
		{"vertical uses width", r2.Vec{X: 250, Y: -100}, types.DirectionUp, 0.75},
		{"horizontal uses height", r2.Vec{X: 100, Y: 250}, types.DirectionRight, 0.5},
		{"clamped at zero", r2.Vec{X: 5000, Y: 100}, types.DirectionDown, 0},
		{"perfect", r2.Vec{X: 0, Y: 100}, types.DirectionDown, 1},
		{"empty viewport", r2.Vec{X: 0, Y: 100}, types.DirectionDown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := viewport
			if tt.name == "empty viewport" {
				vp = types.Size{}
			}
			if got := Alignment(tt.delta, tt.dir, vp); got != tt.want {
				t.Errorf("Alignment() = %v, want %v", got, tt.want)
			}
		})
	}
}
