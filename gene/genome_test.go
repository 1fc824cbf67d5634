package gene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	g := Init()
	require.Len(t, g.Commands, 3)
	assert.Equal(t, WeightToInput, g.Commands[0].Op)
	assert.Equal(t, 8, g.Commands[0].Arg)
	assert.Equal(t, WeightToSumsiIn, g.Commands[1].Op)
	assert.Equal(t, SumsiToOut, g.Commands[2].Op)
	assert.Equal(t, 0.8, g.LearningRate)
	assert.Equal(t, 40.0, g.ThinkingTime)
	assert.NoError(t, g.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	g := Init()
	c := g.Clone()
	c.Commands[0].Arg = 99
	c.LearningRate = 0.1
	assert.Equal(t, 8, g.Commands[0].Arg, "mutating the clone must not affect the original")
	assert.Equal(t, 0.8, g.LearningRate)
}

func TestResolveSentinelIsIdempotent(t *testing.T) {
	g := &Genome{Commands: []Command{{Op: SumsiToWeightIn, Arg: RandWeight}}, LearningRate: 1, ThinkingTime: 1}
	assert.True(t, g.IsSentinel(0))

	g.ResolveSentinel(0, 5)
	assert.False(t, g.IsSentinel(0))
	resolved := g.Commands[0].Arg
	require.GreaterOrEqual(t, resolved, 0)
	require.Less(t, resolved, 5)

	// A second resolve call at a different depth must not change the value.
	g.ResolveSentinel(0, 1000)
	assert.Equal(t, resolved, g.Commands[0].Arg)
}

func TestResolveSentinelNoOpOnConcreteArg(t *testing.T) {
	g := &Genome{Commands: []Command{{Op: WeightToInput, Arg: 3}}, LearningRate: 1, ThinkingTime: 1}
	g.ResolveSentinel(0, 5)
	assert.Equal(t, 3, g.Commands[0].Arg)
}

func TestValidateRejectsOutOfRangeHyperparameters(t *testing.T) {
	g := Init()
	g.LearningRate = 0
	assert.Error(t, g.Validate())

	g = Init()
	g.LearningRate = 1.5
	assert.Error(t, g.Validate())

	g = Init()
	g.ThinkingTime = 0.1
	assert.Error(t, g.Validate())

	g = Init()
	g.Commands = make([]Command, MaxGenes+1)
	assert.Error(t, g.Validate())
}
