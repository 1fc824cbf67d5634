package gene

import "github.com/csirmaz/brainevo/xutil"

// MutationWeights holds the raw (unnormalized) weights for the categorical
// mutation-mode table, in table order.
type MutationWeights struct {
	ScaleLearningRate      float64
	InjectSumsiToOut       float64
	InjectPopWeight        float64
	InjectPopSumsi         float64
	InjectWeightToInput    float64
	RemoveCommand          float64
	InjectSumsiToWeightIn  float64
	InjectSumsiToWeightCtl float64
	InjectWeightToWeightCt float64
	InjectWeightToSumsiIn  float64
	InjectSumsiPair        float64
	InjectWeightPair       float64
	ScaleThinkingTime      float64
}

// DefaultMutationWeights returns the engine's stock mutation-mode weights:
// structural edits (inject/remove a command) fire far more often than the
// two hyperparameter scaling modes, since those are the bulk of what moves
// a population through the search space generation over generation.
func DefaultMutationWeights() MutationWeights {
	return MutationWeights{
		ScaleLearningRate:      1,
		InjectSumsiToOut:       1,
		InjectPopWeight:        2,
		InjectPopSumsi:         2,
		InjectWeightToInput:    1,
		RemoveCommand:          7,
		InjectSumsiToWeightIn:  3,
		InjectSumsiToWeightCtl: 3,
		InjectWeightToWeightCt: 3,
		InjectWeightToSumsiIn:  3,
		InjectSumsiPair:        2,
		InjectWeightPair:       2,
		ScaleThinkingTime:      1,
	}
}

func (w MutationWeights) asSlice() []float64 {
	return []float64{
		w.ScaleLearningRate,
		w.InjectSumsiToOut,
		w.InjectPopWeight,
		w.InjectPopSumsi,
		w.InjectWeightToInput,
		w.RemoveCommand,
		w.InjectSumsiToWeightIn,
		w.InjectSumsiToWeightCtl,
		w.InjectWeightToWeightCt,
		w.InjectWeightToSumsiIn,
		w.InjectSumsiPair,
		w.InjectWeightPair,
		w.ScaleThinkingTime,
	}
}

// insertAt inserts cmd at position ix (0..len, inclusive), with an
// unresolved sentinel marker carried along in the resolved slice.
func (g *Genome) insertAt(ix int, cmd Command) {
	g.ensureResolvedLen()
	if ix < 0 {
		ix = 0
	}
	if ix > len(g.Commands) {
		ix = len(g.Commands)
	}
	g.Commands = append(g.Commands, Command{})
	copy(g.Commands[ix+1:], g.Commands[ix:])
	g.Commands[ix] = cmd

	g.resolved = append(g.resolved, false)
	copy(g.resolved[ix+1:], g.resolved[ix:])
	g.resolved[ix] = cmd.Arg != RandWeight && cmd.Arg != RandSumsi
}

// removeAt removes the command at position ix. A one-command genome is
// left untouched — an empty program has nothing left to build a brain
// from, so the last command is never eligible for removal.
func (g *Genome) removeAt(ix int) {
	if len(g.Commands) <= 1 {
		return
	}
	g.ensureResolvedLen()
	if ix < 0 || ix >= len(g.Commands) {
		return
	}
	g.Commands = append(g.Commands[:ix], g.Commands[ix+1:]...)
	g.resolved = append(g.resolved[:ix], g.resolved[ix+1:]...)
}

// randomLocation returns a random insertion point in [0, len(Commands)].
func (g *Genome) randomLocation() int {
	return xutil.RandomInt(0, len(g.Commands)+1)
}

// Mutate applies exactly one randomly-chosen mutation from the weighted
// categorical table.
func Mutate(g *Genome, weights MutationWeights) {
	mode := xutil.WeightedChoice(weights.asSlice())
	switch mode {
	case 0: // scale learning_rate by uniform(0.8, 1.2), clamp <= 1
		g.LearningRate *= xutil.RandomFloat(0.8, 1.2)
		if g.LearningRate > 1 {
			g.LearningRate = 1
		}
	case 1: // inject SUMSI_TO_OUT at random location
		g.insertAt(g.randomLocation(), Command{Op: SumsiToOut})
	case 2: // inject POP_WEIGHT
		g.insertAt(g.randomLocation(), Command{Op: PopWeight})
	case 3: // inject POP_SUMSI
		g.insertAt(g.randomLocation(), Command{Op: PopSumsi})
	case 4: // inject WEIGHT_TO_INPUT with random input index 0..8
		g.insertAt(g.randomLocation(), Command{Op: WeightToInput, Arg: xutil.RandomInt(0, NumGlobalInputs)})
	case 5: // remove a command at random location
		if len(g.Commands) > 0 {
			g.removeAt(xutil.RandomInt(0, len(g.Commands)))
		}
	case 6: // inject SUMSI_TO_WEIGHT_IN with RAND_WEIGHT arg
		g.insertAt(g.randomLocation(), Command{Op: SumsiToWeightIn, Arg: RandWeight})
	case 7: // inject SUMSI_TO_WEIGHT_CTRL with RAND_WEIGHT arg
		g.insertAt(g.randomLocation(), Command{Op: SumsiToWeightCtrl, Arg: RandWeight})
	case 8: // inject WEIGHT_TO_WEIGHT_CTRL with RAND_WEIGHT arg
		g.insertAt(g.randomLocation(), Command{Op: WeightToWeightCtrl, Arg: RandWeight})
	case 9: // inject WEIGHT_TO_SUMSI_IN with RAND_SUMSI arg
		g.insertAt(g.randomLocation(), Command{Op: WeightToSumsiIn, Arg: RandSumsi})
	case 10: // inject pair (NEW_SUMSI, WEIGHT_TO_SUMSI_IN(0)) at adjacent locations
		loc := g.randomLocation()
		g.insertAt(loc, Command{Op: WeightToSumsiIn, Arg: 0})
		g.insertAt(loc, Command{Op: NewSumsi})
	case 11: // inject pair (NEW_WEIGHT(rand -100..+100), SUMSI_TO_WEIGHT_IN(0))
		loc := g.randomLocation()
		g.insertAt(loc, Command{Op: SumsiToWeightIn, Arg: 0})
		g.insertAt(loc, Command{Op: NewWeight, Arg: xutil.RandomInt(-100, 101)})
	case 12: // scale thinking_time by uniform(0.8, 1.2), clamp >= MIN
		g.ThinkingTime *= xutil.RandomFloat(0.8, 1.2)
		if g.ThinkingTime < MinThinkingTime {
			g.ThinkingTime = MinThinkingTime
		}
	}
}

// MutateN applies n mutations in sequence. Callers pick n (typically
// uniform in [1,5]) so a freshly cloned or reseeded genome diverges from
// its source by more than one edit.
func MutateN(g *Genome, weights MutationWeights, n int) {
	for i := 0; i < n; i++ {
		Mutate(g, weights)
	}
}
