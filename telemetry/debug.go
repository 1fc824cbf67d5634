// Package telemetry prints per-generation population statistics, adapted
// from an on-screen debug overlay into a plain log-based line printer for
// a program with no window to draw into.
package telemetry

import (
	"fmt"
	"log"
)

// Debug reports generation-level pool statistics. Reporting can be
// toggled at runtime without restarting the engine.
type Debug struct {
	enabled bool

	generation      int
	best            float64
	mean            float64
	worst           float64
	discardedBuilds int
	diversity       int
}

// NewDebug creates a disabled-by-default reporter.
func NewDebug() *Debug {
	return &Debug{}
}

// SetEnabled turns reporting on or off.
func (d *Debug) SetEnabled(enabled bool) {
	d.enabled = enabled
}

// Toggle flips the enabled flag.
func (d *Debug) Toggle() {
	d.enabled = !d.enabled
}

// IsEnabled reports whether reporting is currently on.
func (d *Debug) IsEnabled() bool {
	return d.enabled
}

// Update records one generation's statistics. fitness is the per-slot
// fitness values for the generation just scored, discardedBuilds is the
// pool's running discard counter, and diversity is the number of
// distinct genome lengths present in the pool (a cheap proxy for
// population diversity).
func (d *Debug) Update(generation int, fitness []float64, discardedBuilds, diversity int) {
	d.generation = generation
	d.discardedBuilds = discardedBuilds
	d.diversity = diversity

	if len(fitness) == 0 {
		d.best, d.mean, d.worst = 0, 0, 0
		return
	}
	d.best, d.worst = fitness[0], fitness[0]
	sum := 0.0
	for _, f := range fitness {
		if f > d.best {
			d.best = f
		}
		if f < d.worst {
			d.worst = f
		}
		sum += f
	}
	d.mean = sum / float64(len(fitness))
}

// Report prints the recorded statistics for the current generation.
func (d *Debug) Report() {
	if !d.enabled {
		return
	}
	log.Println(d.String())
}

func (d *Debug) String() string {
	return fmt.Sprintf(
		"generation=%d best=%.3f mean=%.3f worst=%.3f discarded=%d diversity=%d",
		d.generation, d.best, d.mean, d.worst, d.discardedBuilds, d.diversity,
	)
}
