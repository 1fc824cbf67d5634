package oracle

import "github.com/csirmaz/brainevo/xutil"

// Question is one labelled tuple the oracle emits: a positive example, a
// negative example, a query point, and its target label.
type Question struct {
	PosX, PosY float64
	NegX, NegY float64
	QueryX, QueryY float64
	Target bool
}

// Oracle drives one task's surface and produces its question stream. Every
// brain evaluated within a task must see the exact same questions in the
// exact same order, or fitness differences would reflect luck of the draw
// rather than brain quality: Oracle is constructed once per task and its
// questions are generated once, then replayed to every brain — callers
// should draw the full per-task question slice up front (see
// evolve.Evaluator) rather than sharing one *Oracle across goroutines.
type Oracle struct {
	surface *Surface
}

// NewOracle creates an oracle around a freshly admitted random surface.
func NewOracle() *Oracle {
	return &Oracle{surface: NewSurface()}
}

// NextQuestion draws one question: a uniformly random positive example, a
// uniformly random negative example, and an independent query point,
// rejection-sampling the two examples until each has the matching label.
func (o *Oracle) NextQuestion() Question {
	var q Question

	for {
		x, y := xutil.RandomFloat(-1, 1), xutil.RandomFloat(-1, 1)
		if o.surface.Label(x, y) {
			q.PosX, q.PosY = x, y
			break
		}
	}
	for {
		x, y := xutil.RandomFloat(-1, 1), xutil.RandomFloat(-1, 1)
		if !o.surface.Label(x, y) {
			q.NegX, q.NegY = x, y
			break
		}
	}

	q.QueryX, q.QueryY = xutil.RandomFloat(-1, 1), xutil.RandomFloat(-1, 1)
	q.Target = o.surface.Label(q.QueryX, q.QueryY)

	return q
}

// QuestionStream draws n questions up front, so the same sequence can be
// replayed identically to every brain in a task.
func (o *Oracle) QuestionStream(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = o.NextQuestion()
	}
	return qs
}
