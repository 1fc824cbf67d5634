package evolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csirmaz/brainevo/brain"
	"github.com/csirmaz/brainevo/gene"
	"github.com/csirmaz/brainevo/oracle"
)

func TestScoreTaskCountsCorrectAnswers(t *testing.T) {
	g := gene.Init()
	b := brain.NewBuilder(1000, 100)
	br, err := b.Build(g)
	require.NoError(t, err)

	o := oracle.NewOracle()
	questions := o.QuestionStream(50)

	e := NewEvaluator(50)
	correct := e.ScoreTask(br, questions)

	assert.GreaterOrEqual(t, correct, 0)
	assert.LessOrEqual(t, correct, 50)
}

func TestScoreGenomeSumsAcrossTasks(t *testing.T) {
	g := gene.Init()
	builder := brain.NewBuilder(1000, 100)
	br, err := builder.Build(g)
	require.NoError(t, err)

	e := NewEvaluator(10)
	taskQuestions := [][]oracle.Question{
		oracle.NewOracle().QuestionStream(10),
		oracle.NewOracle().QuestionStream(10),
		oracle.NewOracle().QuestionStream(10),
	}

	total := e.ScoreGenome(br, taskQuestions)
	var sum int
	for _, qs := range taskQuestions {
		sum += e.ScoreTask(br, qs)
	}
	// Not required to be byte-equal to the re-run (ScoreTask resets the
	// brain each time so it's deterministic modulo Reset's weight jitter),
	// but both are valid correct-counts.
	assert.GreaterOrEqual(t, total, 0)
	assert.LessOrEqual(t, total, 30)
	_ = sum
}

func TestScoreTaskStopsAtStepsLimit(t *testing.T) {
	g := gene.Init()
	builder := brain.NewBuilder(1000, 100)
	br, err := builder.Build(g)
	require.NoError(t, err)

	o := oracle.NewOracle()
	questions := o.QuestionStream(100)

	e := NewEvaluator(5)
	correct := e.ScoreTask(br, questions)
	assert.LessOrEqual(t, correct, 5, "ScoreTask must not read past e.Steps questions")
}
