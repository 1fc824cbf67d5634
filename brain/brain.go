package brain

import (
	"github.com/csirmaz/brainevo/gene"
	"github.com/csirmaz/brainevo/xutil"
)

// initNoiseStddev bounds the small perturbation added to each weight's
// initial_weight at Reset time, so a freshly reset brain starts close to
// its genome's wiring but never bit-for-bit identical across tasks.
const initNoiseStddev = 0.01

// Brain is the compiled, runnable network produced by Builder.Build: a
// dense array of weight-units and sumsi-units wired by Connection records,
// run one synchronous step at a time by Step.
type Brain struct {
	numWeights int
	numSumsis  int

	connections    []Connection // index 1..numWeights
	initialWeights []float64    // index 1..numWeights

	weights     []float64 // current weights, index 1..numWeights
	weightState []float64 // index 1..numWeights
	sumsiState  []float64 // index 1..numSumsis

	inputConn   [gene.NumGlobalInputs]int
	outputSumsi int

	learningRate float64
	thinkingTime float64
}

// NumWeights returns the number of weight-units the builder allocated.
func (b *Brain) NumWeights() int { return b.numWeights }

// NumSumsis returns the number of sumsi-units the builder allocated.
func (b *Brain) NumSumsis() int { return b.numSumsis }

// ThinkingTime returns the genome's thinking_time hyperparameter.
func (b *Brain) ThinkingTime() float64 { return b.thinkingTime }

// Reset reseeds weights from initial_weights plus small noise and clears
// all per-step state, as required at the start of every task evaluation.
func (b *Brain) Reset() {
	for i := 1; i <= b.numWeights; i++ {
		b.weights[i] = b.initialWeights[i] + xutil.RandomFloat(-initNoiseStddev, initNoiseStddev)
		b.weightState[i] = 0
	}
	for i := 1; i <= b.numSumsis; i++ {
		b.sumsiState[i] = 0
	}
}

// Step executes one synchronous forward+learn cycle over the network:
// input gather, weight apply, sumsi accumulate+nonlinearity, control
// update — in that strict order. Later passes must never see a partially
// updated earlier pass, so each pass loops over the full connection array
// before the next one starts.
func (b *Brain) Step(inputs [gene.NumGlobalInputs]float64) {
	// Pass 1: input gather.
	for i := 1; i <= b.numWeights; i++ {
		c := b.connections[i]
		switch c.InPeerKind {
		case KindGlobalInput:
			// Global-input slot 0 is a legitimate wire (positive-example
			// x); KindNone (the zero value) is what marks "unconnected"
			// here, not peer-id 0.
			b.weightState[i] = inputs[c.InPeerID]
		case KindSumsiOut:
			if c.InPeerID != 0 {
				b.weightState[i] = b.sumsiState[c.InPeerID]
			}
		}
	}

	// Pass 2: weight apply.
	for i := 1; i <= b.numWeights; i++ {
		b.weightState[i] *= b.weights[i]
	}

	// Pass 3: sumsi accumulate + nonlinearity.
	for i := 1; i <= b.numSumsis; i++ {
		b.sumsiState[i] = 0
	}
	for i := 1; i <= b.numWeights; i++ {
		c := b.connections[i]
		if c.OutPeerKind == KindSumsiIn && c.OutPeerID != 0 {
			b.sumsiState[c.OutPeerID] += b.weightState[i]
		}
	}
	for i := 1; i <= b.numSumsis; i++ {
		b.sumsiState[i] = xutil.LeakyLinear(b.sumsiState[i])
	}

	// Pass 4: control update (on-line EMA learning).
	lr := b.learningRate
	for i := 1; i <= b.numWeights; i++ {
		c := b.connections[i]
		if c.CtrlPeerID == 0 {
			continue
		}
		var ctrl float64
		switch c.CtrlPeerKind {
		case KindWeightOut:
			ctrl = b.weightState[c.CtrlPeerID]
		case KindSumsiOut:
			ctrl = b.sumsiState[c.CtrlPeerID]
		default:
			continue
		}
		b.weights[i] = ctrl*lr + b.weights[i]*(1-lr)
	}
}

// GetOutput returns the brain's scalar output: the designated output
// sumsi's post-nonlinearity value, or 0 if no SUMSI_TO_OUT was ever
// executed.
func (b *Brain) GetOutput() float64 {
	if b.outputSumsi == 0 {
		return 0
	}
	return b.sumsiState[b.outputSumsi]
}

// Answer thresholds GetOutput at 0 for the binary classification answer.
func (b *Brain) Answer() bool {
	return b.GetOutput() >= 0
}
