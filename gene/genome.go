package gene

import (
	"fmt"

	"github.com/csirmaz/brainevo/xutil"
)

// MaxGenes bounds the length of a gene program. Past this, a genome is
// treated the same as any other capacity overflow: discarded and reseeded
// rather than grown without limit.
const MaxGenes = 50000

// MinThinkingTime is the floor thinking_time may be clamped to by mutation
// or construction — a brain that thinks for zero sub-steps would never
// update its sumsis before answering.
const MinThinkingTime = 1.0

// Command is one (opcode, argument) instruction in a gene program.
type Command struct {
	Op  Opcode
	Arg int
}

// Genome is a complete gene program: an ordered command sequence plus the
// two scalar hyperparameters carried alongside it.
type Genome struct {
	Commands     []Command
	LearningRate float64
	ThinkingTime float64

	// resolved tracks, for each command index holding a RAND_* sentinel,
	// whether that sentinel has already been resolved to a concrete
	// integer. Resolution mutates Commands[i].Arg in place and is
	// idempotent thereafter.
	resolved []bool
}

// Init creates the seed genome used for `program <peer_pid> new` and for
// reseeding a discarded pool slot: the shortest program that wires a
// single global input straight through to the output, nothing more.
func Init() *Genome {
	g := &Genome{
		Commands: []Command{
			{Op: WeightToInput, Arg: 8},
			{Op: WeightToSumsiIn, Arg: 0},
			{Op: SumsiToOut, Arg: 0},
		},
		LearningRate: 0.8,
		ThinkingTime: 40,
	}
	g.resolved = make([]bool, len(g.Commands))
	return g
}

// Len returns the number of commands in the program.
func (g *Genome) Len() int {
	return len(g.Commands)
}

// Clone returns a deep copy of the genome, including sentinel-resolution
// state (a clone that has already resolved a RAND_* arg keeps that
// resolved concrete value — it is not re-randomized).
func (g *Genome) Clone() *Genome {
	c := &Genome{
		Commands:     make([]Command, len(g.Commands)),
		LearningRate: g.LearningRate,
		ThinkingTime: g.ThinkingTime,
		resolved:     make([]bool, len(g.resolved)),
	}
	copy(c.Commands, g.Commands)
	copy(c.resolved, g.resolved)
	return c
}

// ensureResolvedLen grows the resolved tracking slice to match Commands,
// used after mutation/crossover splice operations that change length.
func (g *Genome) ensureResolvedLen() {
	if len(g.resolved) != len(g.Commands) {
		r := make([]bool, len(g.Commands))
		copy(r, g.resolved)
		g.resolved = r
	}
}

// ResolveSentinel resolves a RAND_WEIGHT/RAND_SUMSI argument at command
// index i to a concrete non-negative integer, sampling uniformly over
// [0, stackDepth). It is a no-op if the command's argument is already
// concrete or already resolved; resolution mutates the genome in place so
// a later rebuild of the same genome wires the same connection, not a
// freshly re-rolled one.
func (g *Genome) ResolveSentinel(i int, stackDepth int) {
	g.ensureResolvedLen()
	if i < 0 || i >= len(g.Commands) {
		return
	}
	if g.resolved[i] {
		return
	}
	arg := g.Commands[i].Arg
	if arg != RandWeight && arg != RandSumsi {
		g.resolved[i] = true
		return
	}
	if stackDepth < 1 {
		stackDepth = 1
	}
	g.Commands[i].Arg = xutil.RandomInt(0, stackDepth)
	g.resolved[i] = true
}

// IsSentinel reports whether the command at index i still carries an
// unresolved RAND_* tag.
func (g *Genome) IsSentinel(i int) bool {
	if i < 0 || i >= len(g.Commands) {
		return false
	}
	return g.Commands[i].Arg == RandWeight || g.Commands[i].Arg == RandSumsi
}

// Validate checks the genome's hyperparameter and length invariants.
func (g *Genome) Validate() error {
	if g.LearningRate <= 0 || g.LearningRate > 1 {
		return fmt.Errorf("gene: learning_rate %.4f out of (0,1]", g.LearningRate)
	}
	if g.ThinkingTime < MinThinkingTime {
		return fmt.Errorf("gene: thinking_time %.4f below MIN_THINKING_TIME", g.ThinkingTime)
	}
	if len(g.Commands) > MaxGenes {
		return fmt.Errorf("gene: program length %d exceeds MAX_GENES", len(g.Commands))
	}
	return nil
}
