// Package oracle implements the task surface and question stream: a random
// wavy 2-D surface used to pose binary classification questions to a brain.
package oracle

import (
	"math"

	"github.com/csirmaz/brainevo/xutil"
)

// gridSize is the resolution of the balance-check grid over [-1,1]^2. Coarse
// enough to admit a surface quickly, fine enough that the balance check
// isn't fooled by a surface that's lopsided only between sampled rows.
const gridSize = 40

// balanceTolerance is the maximum allowed fraction of grid cells by which
// positive and negative counts may differ for a surface to be admitted.
const balanceTolerance = 0.05

// term is one (frequency, phase) sinusoid parameter pair.
type term struct {
	Freq, Phase float64
}

// Surface is a random wavy 2-D function on [-1,1]^2 built from four
// cartesian sine terms and one radial (polar-distance) sine term; its
// sign determines the binary label at any point.
type Surface struct {
	cartesianX [2]term
	cartesianY [2]term
	radial     term
}

// NewSurface draws a random surface, rejection-sampling until the grid over
// [-1,1]^2 is balanced within balanceTolerance. An unbalanced surface would
// let a brain score well just by always guessing the majority label.
func NewSurface() *Surface {
	for {
		s := randomSurface()
		if s.isBalanced() {
			return s
		}
	}
}

func randomSurface() *Surface {
	randTerm := func() term {
		return term{
			Freq:  xutil.RandomFloat(1, 6),
			Phase: xutil.RandomFloat(0, 2*math.Pi),
		}
	}
	return &Surface{
		cartesianX: [2]term{randTerm(), randTerm()},
		cartesianY: [2]term{randTerm(), randTerm()},
		radial:     randTerm(),
	}
}

// Value returns the surface's signed value at (x, y): the sum of its five
// sine terms.
func (s *Surface) Value(x, y float64) float64 {
	r := math.Sqrt(x*x + y*y)
	v := 0.0
	v += math.Sin(s.cartesianX[0].Freq*x + s.cartesianX[0].Phase)
	v += math.Sin(s.cartesianX[1].Freq*x + s.cartesianX[1].Phase)
	v += math.Sin(s.cartesianY[0].Freq*y + s.cartesianY[0].Phase)
	v += math.Sin(s.cartesianY[1].Freq*y + s.cartesianY[1].Phase)
	v += math.Sin(s.radial.Freq*r + s.radial.Phase)
	return v
}

// Label reports whether (x, y) is on the positive side of the surface.
func (s *Surface) Label(x, y float64) bool {
	return s.Value(x, y) >= 0
}

// isBalanced reports whether the positive/negative split over the grid is
// within balanceTolerance of even.
func (s *Surface) isBalanced() bool {
	pos, neg := 0, 0
	for i := 0; i < gridSize; i++ {
		x := -1 + 2*float64(i)/float64(gridSize-1)
		for j := 0; j < gridSize; j++ {
			y := -1 + 2*float64(j)/float64(gridSize-1)
			if s.Label(x, y) {
				pos++
			} else {
				neg++
			}
		}
	}
	total := gridSize * gridSize
	diff := pos - neg
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) < balanceTolerance*float64(total)
}
