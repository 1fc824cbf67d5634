// Package xutil collects small numeric and randomness helpers shared across
// the gene, brain, and evolve packages.
package xutil

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// RandomInt returns a random integer in [min, max).
func RandomInt(min, max int) int {
	if min >= max {
		return min
	}
	return min + rand.Intn(max-min)
}

// RandomFloat returns a random float64 in [min, max).
func RandomFloat(min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rand.Float64()*(max-min)
}

// Chance returns true with the given probability (0-1).
func Chance(probability float64) bool {
	return rand.Float64() < probability
}

// WeightedChoice picks an index according to the given raw (unnormalized)
// weights using a categorical draw. Used by gene.Mutate to pick
// among mutation modes that aren't all equally likely to fire.
func WeightedChoice(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	c := distuv.NewCategorical(weights, nil)
	return int(c.Rand())
}

// Shuffle shuffles a slice in place.
func Shuffle[T any](slice []T) {
	rand.Shuffle(len(slice), func(i, j int) {
		slice[i], slice[j] = slice[j], slice[i]
	})
}
