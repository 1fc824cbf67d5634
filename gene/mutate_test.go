package gene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutatePreservesValidityOverManyMutations(t *testing.T) {
	g := Init()
	weights := DefaultMutationWeights()
	for i := 0; i < 1000; i++ {
		Mutate(g, weights)
		require.NoError(t, g.Validate(), "genome became invalid after %d mutations", i+1)
		require.Equal(t, len(g.Commands), len(g.resolved), "resolved tracking slice drifted out of sync")
	}
}

func TestRemoveCommandIsNoOpOnSingleton(t *testing.T) {
	g := &Genome{Commands: []Command{{Op: SumsiToOut}}, LearningRate: 1, ThinkingTime: 1, resolved: []bool{true}}
	g.removeAt(0)
	assert.Len(t, g.Commands, 1, "removing the only command in a one-command genome must be a no-op")
}

func TestInsertAtGrowsResolvedInLockstep(t *testing.T) {
	g := Init()
	g.insertAt(1, Command{Op: SumsiToWeightIn, Arg: RandWeight})
	assert.Len(t, g.resolved, len(g.Commands))
	assert.False(t, g.resolved[1], "a freshly-inserted sentinel command must be unresolved")
}

func TestScaleLearningRateClampsAtOne(t *testing.T) {
	g := Init()
	g.LearningRate = 0.99
	weights := MutationWeights{ScaleLearningRate: 1}
	for i := 0; i < 50; i++ {
		Mutate(g, weights)
		assert.LessOrEqual(t, g.LearningRate, 1.0)
	}
}

func TestScaleThinkingTimeClampsAtFloor(t *testing.T) {
	g := Init()
	g.ThinkingTime = MinThinkingTime + 0.01
	weights := MutationWeights{ScaleThinkingTime: 1}
	for i := 0; i < 50; i++ {
		Mutate(g, weights)
		assert.GreaterOrEqual(t, g.ThinkingTime, MinThinkingTime)
	}
}

func TestInjectPairModesInsertBothCommandsAdjacently(t *testing.T) {
	g := &Genome{Commands: []Command{}, LearningRate: 1, ThinkingTime: 1}
	weights := MutationWeights{InjectSumsiPair: 1}
	Mutate(g, weights)
	require.Len(t, g.Commands, 2)
	assert.Equal(t, NewSumsi, g.Commands[0].Op)
	assert.Equal(t, WeightToSumsiIn, g.Commands[1].Op)
	assert.Equal(t, 0, g.Commands[1].Arg)

	g = &Genome{Commands: []Command{}, LearningRate: 1, ThinkingTime: 1}
	weights = MutationWeights{InjectWeightPair: 1}
	Mutate(g, weights)
	require.Len(t, g.Commands, 2)
	assert.Equal(t, NewWeight, g.Commands[0].Op)
	assert.Equal(t, SumsiToWeightIn, g.Commands[1].Op)
	assert.Equal(t, 0, g.Commands[1].Arg)
}

func TestMutateNAppliesExactlyNMutations(t *testing.T) {
	g := &Genome{Commands: []Command{{Op: SumsiToOut}}, LearningRate: 1, ThinkingTime: 1, resolved: []bool{true}}
	weights := MutationWeights{InjectPopWeight: 1}
	MutateN(g, weights, 4)
	assert.Len(t, g.Commands, 5)
}
