package evolve

import (
	"sort"

	"github.com/csirmaz/brainevo/config"
	"github.com/csirmaz/brainevo/gene"
	"github.com/csirmaz/brainevo/xutil"
)

// jitterSpan bounds the small uniform jitter added to a genome's length
// before weighting it by LengthPenaltyCoeff, so that two genomes of equal
// length and correct-count never tie in rank order.
const jitterSpan = 0.5

// Fitness computes one genome's scalar fitness: raw correct-count minus a
// length/thinking_time penalty, with a small uniform jitter on the length
// term to keep rank order strict.
func Fitness(correct int, g *gene.Genome, cfg *config.Config) float64 {
	jitter := xutil.RandomFloat(-jitterSpan, jitterSpan)
	penalty := (float64(g.Len())+jitter)*cfg.LengthPenaltyCoeff + g.ThinkingTime*cfg.TimePenaltyCoeff
	return float64(correct) - penalty
}

// rankedSlot is one pool slot annotated with its fitness, used only during
// selection.
type rankedSlot struct {
	index   int
	fitness float64
}

// rankSlots returns slot indices sorted by fitness ascending.
func rankSlots(fitness []float64) []rankedSlot {
	ranked := make([]rankedSlot, len(fitness))
	for i, f := range fitness {
		ranked[i] = rankedSlot{index: i, fitness: f}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].fitness < ranked[j].fitness })
	return ranked
}

// selectionPlan is the outcome of one generation's selection sweep: which
// slots are killed and overwritten, which are bred from, and which two
// kill-zone slots are reserved for crossover children instead of clones.
type selectionPlan struct {
	bestIndex int

	killZone    []int // slot indices to overwrite, worst-first
	breederZone []int // slot indices to breed clones from, best-first

	hasCrossover     bool   // true if the kill zone was large enough to reserve crossover slots
	crossoverTargets [2]int // two kill-zone slots reserved for crossover children
	cloneTargets     []int  // remaining kill-zone slots, clone-then-mutate
}

// plan computes the selection plan for one generation: the kill zone is
// the worst len(fitness)-poolKeep slots, and the breeder zone is the best
// len(fitness)-poolKeep-2 slots — two fewer than the kill zone is wide,
// because the two crossover targets take no clone source, which leaves
// one breeder per clone target.
func plan(fitness []float64, poolKeep int) selectionPlan {
	ranked := rankSlots(fitness)
	n := len(ranked)

	killCount := n - poolKeep
	if killCount < 0 {
		killCount = 0
	}
	breederCount := killCount - 2
	if breederCount < 0 {
		breederCount = 0
	}

	var p selectionPlan
	p.bestIndex = ranked[n-1].index

	for i := 0; i < killCount; i++ {
		p.killZone = append(p.killZone, ranked[i].index)
	}
	for i := 0; i < breederCount; i++ {
		// breeder zone = the best breederCount slots, i.e. the top of the
		// ranking excluding the kill zone.
		p.breederZone = append(p.breederZone, ranked[n-1-i].index)
	}

	if len(p.killZone) >= 2 {
		p.hasCrossover = true
		p.crossoverTargets = [2]int{p.killZone[0], p.killZone[1]}
		p.cloneTargets = append(p.cloneTargets, p.killZone[2:]...)
	} else {
		p.cloneTargets = append(p.cloneTargets, p.killZone...)
	}

	return p
}
