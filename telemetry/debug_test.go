package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateComputesBestMeanWorst(t *testing.T) {
	d := NewDebug()
	d.Update(5, []float64{1, 2, 3}, 2, 3)

	assert.Equal(t, 5, d.generation)
	assert.Equal(t, 3.0, d.best)
	assert.Equal(t, 1.0, d.worst)
	assert.InDelta(t, 2.0, d.mean, 1e-9)
	assert.Equal(t, 2, d.discardedBuilds)
	assert.Equal(t, 3, d.diversity)
}

func TestToggleFlipsEnabled(t *testing.T) {
	d := NewDebug()
	assert.False(t, d.IsEnabled())
	d.Toggle()
	assert.True(t, d.IsEnabled())
	d.Toggle()
	assert.False(t, d.IsEnabled())
}

func TestStringContainsGeneration(t *testing.T) {
	d := NewDebug()
	d.Update(7, []float64{1}, 0, 1)
	assert.Contains(t, d.String(), "generation=7")
}
