package gene

import "github.com/csirmaz/brainevo/xutil"

// Crossover produces two children from two parent genomes by swapping a
// contiguous command window. start and snipLength are fractions of each
// parent's own length, drawn by the caller (evolve.Pool) and passed in
// rather than rolled here, keeping the random draw visible at the call
// site for testability.
func Crossover(parent1, parent2 *Genome, start, snipLength float64) (child1, child2 *Genome) {
	l1 := len(parent1.Commands)
	l2 := len(parent2.Commands)

	p1Start := int(float64(l1) * start)
	p1End := int(float64(l1) * (start + snipLength))
	p2Start := int(float64(l2) * start)
	p2End := int(float64(l2) * (start + snipLength))

	child1 = &Genome{
		Commands:     spliceWindow(parent1.Commands, p1Start, p1End, parent2.Commands[p2Start:p2End]),
		LearningRate: blend(parent1.LearningRate, parent2.LearningRate, snipLength),
		ThinkingTime: blend(parent1.ThinkingTime, parent2.ThinkingTime, snipLength),
	}
	child1.resolved = make([]bool, len(child1.Commands))

	child2 = &Genome{
		Commands:     spliceWindow(parent2.Commands, p2Start, p2End, parent1.Commands[p1Start:p1End]),
		LearningRate: blend(parent2.LearningRate, parent1.LearningRate, snipLength),
		ThinkingTime: blend(parent2.ThinkingTime, parent1.ThinkingTime, snipLength),
	}
	child2.resolved = make([]bool, len(child2.Commands))

	return child1, child2
}

// spliceWindow returns base[:start] + window + base[end:].
func spliceWindow(base []Command, start, end int, window []Command) []Command {
	out := make([]Command, 0, start+len(window)+(len(base)-end))
	out = append(out, base[:start]...)
	out = append(out, window...)
	out = append(out, base[end:]...)
	return out
}

func blend(a, b, w float64) float64 {
	return a*(1-w) + b*w
}

// RandomCrossoverFractions draws a snip length capped at 0.8 (so a swapped
// window never consumes an entire parent) and a start fraction that keeps
// the window inside [0,1) given that length.
func RandomCrossoverFractions() (start, snipLength float64) {
	snipLength = xutil.RandomFloat(0, 0.8)
	start = xutil.RandomFloat(0, 1-snipLength)
	return start, snipLength
}
