package gene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenomeRoundtripsThroughWriteRead(t *testing.T) {
	g := Init()
	g.LearningRate = 0.42
	g.ThinkingTime = 17.5

	var buf bytes.Buffer
	require.NoError(t, WriteGenome(&buf, g))

	got, err := ReadGenome(&buf)
	require.NoError(t, err)

	assert.InDelta(t, g.LearningRate, got.LearningRate, 1e-6)
	assert.InDelta(t, g.ThinkingTime, got.ThinkingTime, 1e-6)
	require.Equal(t, g.Commands, got.Commands)
}

func TestWriteGenomeLinesStayWithinCap(t *testing.T) {
	// Ordinary field values never produce an overlong line, so this checks
	// that the line-length guard doesn't false-positive on the seed genome
	// and that every written line is within MaxLineLength.
	g := Init()
	var buf bytes.Buffer
	require.NoError(t, WriteGenome(&buf, g))
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len(line), MaxLineLength)
	}
}

func TestReadGenomeRejectsWrongHeader(t *testing.T) {
	r := strings.NewReader("not_brain_v1\n")
	_, err := ReadGenome(r)
	assert.Error(t, err)
}

func TestHumanReadableIsCommentLine(t *testing.T) {
	g := Init()
	line := g.HumanReadable()
	assert.True(t, strings.HasPrefix(line, "#"))
	assert.Contains(t, line, "lr=0.800")
}
