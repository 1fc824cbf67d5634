// Package evolve implements the evaluator and evolver: driving brains
// across oracle questions, scoring them, and advancing the pool one
// generation at a time.
package evolve

import (
	"math"

	"github.com/csirmaz/brainevo/brain"
	"github.com/csirmaz/brainevo/gene"
	"github.com/csirmaz/brainevo/oracle"
)

// Evaluator drives brains through a task's question stream and counts
// correct answers.
type Evaluator struct {
	Steps int // STEPS, the number of questions per task
}

// NewEvaluator returns an Evaluator configured with the given STEPS.
func NewEvaluator(steps int) *Evaluator {
	return &Evaluator{Steps: steps}
}

// ScoreTask resets b, then asks it questions[0:Steps] in order, running
// b's thinking_time sub-steps per question and reading its answer off the
// final sub-step.
func (e *Evaluator) ScoreTask(b *brain.Brain, questions []oracle.Question) int {
	b.Reset()

	correct := 0
	thinkingTime := b.ThinkingTime()
	thinkSteps := int(math.Ceil(thinkingTime))
	if thinkSteps < 1 {
		thinkSteps = 1
	}

	limit := e.Steps
	if limit > len(questions) {
		limit = len(questions)
	}

	runningScore := 0.0
	for qi := 0; qi < limit; qi++ {
		q := questions[qi]

		var inputs [gene.NumGlobalInputs]float64
		inputs[0] = q.PosX
		inputs[1] = q.PosY
		inputs[2] = q.NegX
		inputs[3] = q.NegY
		inputs[4] = q.QueryX
		inputs[5] = q.QueryY
		// slot 6 (running score) and slot 8 (bias) are set once per
		// question below; slot 7 (clock) advances every think sub-step.
		if math.IsNaN(runningScore) || math.IsInf(runningScore, 0) {
			runningScore = 0
		}
		inputs[6] = runningScore
		inputs[8] = 1.0

		for think := 0; think < thinkSteps; think++ {
			inputs[7] = float64(think) / thinkingTime
			b.Step(inputs)
		}

		answer := b.Answer()
		if answer == q.Target {
			correct++
		}
		runningScore = float64(correct)
	}

	return correct
}

// ScoreGenome sums ScoreTask's raw correct-count over every task's
// question stream: a genome's fitness reflects its performance across the
// whole batch of tasks for this generation, not just one of them.
func (e *Evaluator) ScoreGenome(b *brain.Brain, taskQuestions [][]oracle.Question) int {
	total := 0
	for _, questions := range taskQuestions {
		total += e.ScoreTask(b, questions)
	}
	return total
}
