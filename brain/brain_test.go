package brain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csirmaz/brainevo/gene"
)

// newTwoWeightBrain builds a brain with two independent weight-units
// feeding the same sumsi-unit, bypassing the builder so the exact wiring
// is known.
func newTwoWeightBrain(w1, w2, learningRate float64) *Brain {
	b := &Brain{
		numWeights: 2,
		numSumsis:  1,
		connections: []Connection{
			{}, // index 0 unused
			{InPeerKind: KindGlobalInput, InPeerID: 0, OutPeerKind: KindSumsiIn, OutPeerID: 1},
			{InPeerKind: KindGlobalInput, InPeerID: 1, OutPeerKind: KindSumsiIn, OutPeerID: 1, CtrlPeerKind: KindSumsiOut, CtrlPeerID: 1},
		},
		initialWeights: []float64{0, w1, w2},
		weights:        []float64{0, w1, w2},
		weightState:    make([]float64, 3),
		sumsiState:     make([]float64, 2),
		outputSumsi:    1,
		learningRate:   learningRate,
		thinkingTime:   1,
	}
	return b
}

func TestStepAppliesLeakyLinearNonlinearity(t *testing.T) {
	b := newTwoWeightBrain(1.0, 0.0, 0.0)

	var inputs [gene.NumGlobalInputs]float64
	inputs[0] = -5 // weight-unit 1 gathers this, weight 1.0 -> sumsi gets -5
	b.Step(inputs)

	assert.InDelta(t, -0.5, b.GetOutput(), 1e-9, "negative sumsi input should be scaled by 1/10")

	inputs[0] = 5
	b.Step(inputs)
	assert.InDelta(t, 5.0, b.GetOutput(), 1e-9, "non-negative sumsi input passes through unchanged")
}

func TestStepControlUpdateIsExponentialMovingAverage(t *testing.T) {
	lr := 0.5
	b := newTwoWeightBrain(0.2, 0.0, lr)

	var inputs [gene.NumGlobalInputs]float64
	inputs[0] = 1.0 // drives sumsi 1 to weightState[1]*weights[1] = 1*0.2 = 0.2
	b.Step(inputs)

	// weight 2's control pin reads sumsi 1's post-nonlinearity value from
	// THIS pass (0.2, since 0.2 >= 0), applied as an EMA, not an additive
	// update: weights[2] = ctrl*lr + weights[2]*(1-lr).
	want := 0.2*lr + 0.0*(1-lr)
	assert.InDelta(t, want, b.weights[2], 1e-9)
}

func TestResetReseedsFromInitialWeightsWithSmallNoise(t *testing.T) {
	b := newTwoWeightBrain(0.5, -0.3, 0.1)
	b.weights[1] = 999 // perturb away from initial_weight
	b.sumsiState[1] = 999

	b.Reset()

	assert.InDelta(t, 0.5, b.weights[1], 0.1)
	assert.InDelta(t, -0.3, b.weights[2], 0.1)
	assert.Equal(t, 0.0, b.sumsiState[1])
}

func TestAnswerThresholdsAtZero(t *testing.T) {
	b := newTwoWeightBrain(1.0, 0.0, 0.0)
	var inputs [gene.NumGlobalInputs]float64

	inputs[0] = 1
	b.Step(inputs)
	assert.True(t, b.Answer())

	inputs[0] = -1
	b.Step(inputs)
	assert.False(t, b.Answer())
}

func TestGetOutputZeroWithoutSumsiToOut(t *testing.T) {
	b := &Brain{numWeights: 0, numSumsis: 0, outputSumsi: 0}
	require.Equal(t, 0.0, b.GetOutput())
}
