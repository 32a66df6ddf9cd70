// Package navigator picks the next focus target for a directional move.
//
// Search is a pure function over candidate centers: it filters candidates
// lying past the dead zone in the requested direction, then scores each as
//
//	score = distance - alignment*weight
//
// where alignment is 1 minus the cross-axis offset over the viewport span,
// clamped to [0,1]. The lowest score wins. There is no wraparound.
package navigator

import (
	"math"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"gonum.org/v1/gonum/spatial/r2"
)

const scoreEpsilon = 1e-9

// Params tunes scoring
type Params struct {
	DeadZone        float64
	AlignmentWeight float64
	Viewport        types.Size
}

// Candidate is a group member that could receive focus
type Candidate struct {
	ID     string
	Center r2.Vec
	Seq    uint64
}

// Result describes the winning candidate
type Result struct {
	ID        string
	Distance  float64
	Alignment float64
	Score     float64
}

// Search returns the best candidate in dir from origin.
// ok is false when no candidate lies in that direction.
func Search(origin r2.Vec, dir types.Direction, candidates []Candidate, p Params) (best Result, ok bool) {
	var bestSeq uint64

	for _, c := range candidates {
		delta := r2.Sub(c.Center, origin)
		if !InDirection(delta, dir, p.DeadZone) {
			continue
		}

		distance := r2.Norm(delta)
		alignment := Alignment(delta, dir, p.Viewport)
		score := distance - alignment*p.AlignmentWeight

		if !ok || better(score, alignment, c.Seq, best, bestSeq) {
			best = Result{ID: c.ID, Distance: distance, Alignment: alignment, Score: score}
			bestSeq = c.Seq
			ok = true
		}
	}
	return best, ok
}

func better(score, alignment float64, seq uint64, cur Result, curSeq uint64) bool {
	if math.Abs(score-cur.Score) > scoreEpsilon {
		return score < cur.Score
	}
	if math.Abs(alignment-cur.Alignment) > scoreEpsilon {
		return alignment > cur.Alignment
	}
	return seq < curSeq
}

// InDirection reports whether delta points in dir beyond the dead zone
func InDirection(delta r2.Vec, dir types.Direction, deadZone float64) bool {
	switch dir {
	case types.DirectionUp:
		return delta.Y < -deadZone
	case types.DirectionDown:
		return delta.Y > deadZone
	case types.DirectionLeft:
		return delta.X < -deadZone
	case types.DirectionRight:
		return delta.X > deadZone
	default:
		return false
	}
}

// Alignment scores how close delta stays to the movement axis.
// Vertical moves measure the x offset against the viewport width and
// horizontal moves the y offset against the viewport height.
func Alignment(delta r2.Vec, dir types.Direction, viewport types.Size) float64 {
	var offset, span float64
	if dir.Vertical() {
		offset, span = math.Abs(delta.X), viewport.Width
	} else {
		offset, span = math.Abs(delta.Y), viewport.Height
	}
	if span <= 0 {
		return 0
	}
	return clamp(1-offset/span, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
