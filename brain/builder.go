package brain

import (
	"fmt"

	"github.com/csirmaz/brainevo/gene"
)

// BuildError distinguishes two error categories: a Recoverable BuildError
// means this one genome outgrew the pool's fixed capacity or pointed a
// connection somewhere invalid — the evolver should discard it and reseed
// that slot rather than fail the whole run over one bad genome. A
// non-recoverable one means the interpreter hit something a valid genome
// should never produce (an unknown opcode), which the caller should treat
// as fatal.
type BuildError struct {
	err         error
	Recoverable bool
}

func (e *BuildError) Error() string { return e.err.Error() }
func (e *BuildError) Unwrap() error { return e.err }

func recoverableErr(format string, args ...any) error {
	return &BuildError{err: fmt.Errorf(format, args...), Recoverable: true}
}

func fatalErr(format string, args ...any) error {
	return &BuildError{err: fmt.Errorf(format, args...), Recoverable: false}
}

// Builder is the stack-machine interpreter: it runs a genome's command
// sequence once and emits a compiled Brain.
type Builder struct {
	MaxWeights int
	MaxSumsis  int
}

// NewBuilder constructs a Builder bound to the given capacity limits
// (config.Config.MaxWeights / MaxSumsis).
func NewBuilder(maxWeights, maxSumsis int) *Builder {
	return &Builder{MaxWeights: maxWeights, MaxSumsis: maxSumsis}
}

// Build compiles g into a Brain. Capacity overflow (MAX_WEIGHTS/MAX_SUMSIS)
// and an over-indexed WEIGHT_TO_INPUT both return a Recoverable
// *BuildError, since either is a fault of this one genome (it grew past
// the fixed-size arrays, or names an input slot that does not exist,
// which mutation can produce); an unknown opcode
// reaching the builder returns a non-recoverable one, since a well-formed
// genome can never produce one.
func (b *Builder) Build(g *gene.Genome) (*Brain, error) {
	weightTop := 1
	sumsiTop := 1
	numWeights, numSumsis := 1, 1 // highest unit ids allocated so far

	connections := make([]Connection, b.MaxWeights+1)
	initialWeights := make([]float64, b.MaxWeights+1)
	var inputConn [gene.NumGlobalInputs]int
	outputSumsi := 0

	for i := range g.Commands {
		cmd := g.Commands[i]
		if !gene.ValidOpcode(cmd.Op) {
			return nil, fatalErr("brain: unknown opcode %d at command %d", cmd.Op, i)
		}

		switch cmd.Op {
		case gene.NewWeight:
			weightTop++
			if weightTop >= b.MaxWeights {
				return nil, recoverableErr("brain: too many weights (MAX_WEIGHTS=%d)", b.MaxWeights)
			}
			initialWeights[weightTop] = float64(cmd.Arg) / 100.0
			numWeights = max(numWeights, weightTop)

		case gene.NewSumsi:
			sumsiTop++
			if sumsiTop >= b.MaxSumsis {
				return nil, recoverableErr("brain: too many sumsis (MAX_SUMSIS=%d)", b.MaxSumsis)
			}
			numSumsis = max(numSumsis, sumsiTop)

		case gene.SumsiToWeightIn:
			g.ResolveSentinel(i, weightTop)
			k := g.Commands[i].Arg
			if t := weightTop - k; t >= 1 {
				connections[t].InPeerKind = KindSumsiOut
				connections[t].InPeerID = sumsiTop
			}

		case gene.SumsiToWeightCtrl:
			g.ResolveSentinel(i, weightTop)
			k := g.Commands[i].Arg
			if t := weightTop - k; t >= 1 {
				connections[t].CtrlPeerKind = KindSumsiOut
				connections[t].CtrlPeerID = sumsiTop
			}

		case gene.WeightToSumsiIn:
			g.ResolveSentinel(i, sumsiTop)
			k := g.Commands[i].Arg
			if t := sumsiTop - k; t >= 1 {
				connections[weightTop].OutPeerKind = KindSumsiIn
				connections[weightTop].OutPeerID = t
			}

		case gene.WeightToWeightCtrl:
			g.ResolveSentinel(i, weightTop)
			k := g.Commands[i].Arg
			if t := weightTop - k; t >= 1 {
				connections[weightTop].OutPeerKind = KindWeightCtrl
				connections[weightTop].OutPeerID = t
				connections[t].CtrlPeerKind = KindWeightOut
				connections[t].CtrlPeerID = weightTop
			}

		case gene.PopWeight:
			if weightTop > 1 {
				weightTop--
			}

		case gene.PopSumsi:
			if sumsiTop > 1 {
				sumsiTop--
			}

		case gene.WeightToInput:
			ix := cmd.Arg
			if ix < 0 || ix >= gene.NumGlobalInputs {
				return nil, recoverableErr("brain: input index %d out of [0,%d)", ix, gene.NumGlobalInputs)
			}
			connections[weightTop].InPeerKind = KindGlobalInput
			connections[weightTop].InPeerID = ix
			inputConn[ix] = weightTop

		case gene.SumsiToOut:
			outputSumsi = sumsiTop
		}
	}

	br := &Brain{
		numWeights:     numWeights,
		numSumsis:      numSumsis,
		connections:    connections[:numWeights+1],
		initialWeights: initialWeights[:numWeights+1],
		weights:        make([]float64, numWeights+1),
		weightState:    make([]float64, numWeights+1),
		sumsiState:     make([]float64, numSumsis+1),
		inputConn:      inputConn,
		outputSumsi:    outputSumsi,
		learningRate:   g.LearningRate,
		thinkingTime:   g.ThinkingTime,
	}
	br.Reset()
	return br, nil
}
