package evolve

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/csirmaz/brainevo/brain"
	"github.com/csirmaz/brainevo/config"
	"github.com/csirmaz/brainevo/gene"
	"github.com/csirmaz/brainevo/oracle"
	"github.com/csirmaz/brainevo/xutil"
)

// maxBuildRetries bounds how many times a single slot may be reseeded
// after a recoverable build failure before the pool gives up and treats
// it as a global failure — a backstop against a config whose capacity
// limits are so tight that no genome can ever compile.
const maxBuildRetries = 25

// Slot is one pool member: a genome, its compiled brain, and a stable
// identifier for cross-generation telemetry correlation.
type Slot struct {
	ID      uuid.UUID
	Genome  *gene.Genome
	Brain   *brain.Brain
	Fitness float64
}

// Pool is the statically-sized population of genomes and their compiled
// brains. Slots never grow or shrink across a run — a dying genome gets
// its slot overwritten in place, never removed.
type Pool struct {
	Slots  []*Slot
	Config *config.Config

	builder *brain.Builder
	eval    *Evaluator

	Generation      int
	DiscardedBuilds int
}

// NewFreshPool creates a pool of cfg.PoolSize slots, each seeded with a
// freshly initialized genome plus one mutation, so the starting population
// isn't cfg.PoolSize identical copies of the same seed genome.
func NewFreshPool(cfg *config.Config) (*Pool, error) {
	p := newPool(cfg)
	for i := 0; i < cfg.PoolSize; i++ {
		g := gene.Init()
		gene.Mutate(g, cfg.MutationWeights)
		if err := p.setSlot(i, g); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NewPoolFromGenomes rebuilds a pool from a previously-persisted genome
// slice. A length mismatch against cfg.PoolSize means the config was
// changed since the genepool was written, which this function refuses to
// silently paper over by truncating or padding the pool.
func NewPoolFromGenomes(cfg *config.Config, genomes []*gene.Genome) (*Pool, error) {
	if len(genomes) != cfg.PoolSize {
		return nil, fmt.Errorf("evolve: pool size mismatch: file has %d genomes, config wants %d", len(genomes), cfg.PoolSize)
	}
	p := newPool(cfg)
	for i, g := range genomes {
		if err := p.setSlot(i, g); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func newPool(cfg *config.Config) *Pool {
	return &Pool{
		Slots:   make([]*Slot, cfg.PoolSize),
		Config:  cfg,
		builder: brain.NewBuilder(cfg.MaxWeights, cfg.MaxSumsis),
		eval:    NewEvaluator(cfg.Steps),
	}
}

// reseed produces a brand-new random genome for a slot that had to be
// discarded: a fresh genome plus between 1 and 5 mutations, the same
// recipe as an ordinary clone-then-mutate replacement.
func (p *Pool) reseed() *gene.Genome {
	g := gene.Init()
	gene.MutateN(g, p.Config.MutationWeights, xutil.RandomInt(1, 6))
	return g
}

// setSlot compiles g into slot i, discarding and reseeding on a
// recoverable build failure up to maxBuildRetries times; a non-recoverable
// failure propagates as a fatal error.
func (p *Pool) setSlot(i int, g *gene.Genome) error {
	for attempt := 0; attempt < maxBuildRetries; attempt++ {
		if err := g.Validate(); err != nil {
			p.DiscardedBuilds++
			g = p.reseed()
			continue
		}
		br, err := p.builder.Build(g)
		if err == nil {
			id := uuid.New()
			if old := p.Slots[i]; old != nil && old.Genome == g {
				// Rebuilding the same genome keeps its correlation ID.
				id = old.ID
			}
			p.Slots[i] = &Slot{ID: id, Genome: g, Brain: br}
			return nil
		}
		if be, ok := err.(*brain.BuildError); ok && be.Recoverable {
			p.DiscardedBuilds++
			g = p.reseed()
			continue
		}
		return fmt.Errorf("evolve: fatal build error at slot %d: %w", i, err)
	}
	return fmt.Errorf("evolve: slot %d failed to build after %d retries", i, maxBuildRetries)
}

// BestGenome returns the current best-fitness genome (after at least one
// EvaluateGeneration call), used by persist.Peer to answer elite download
// requests.
func (p *Pool) BestGenome() *gene.Genome {
	ranked := rankSlots(p.fitnessSlice())
	return p.Slots[ranked[len(ranked)-1].index].Genome
}

func (p *Pool) fitnessSlice() []float64 {
	f := make([]float64, len(p.Slots))
	for i, s := range p.Slots {
		f[i] = s.Fitness
	}
	return f
}

// FitnessSlice returns every slot's current fitness, for telemetry.
func (p *Pool) FitnessSlice() []float64 {
	return p.fitnessSlice()
}

// Genomes returns every slot's genome, in slot order, for persistence.
func (p *Pool) Genomes() []*gene.Genome {
	genomes := make([]*gene.Genome, len(p.Slots))
	for i, s := range p.Slots {
		genomes[i] = s.Genome
	}
	return genomes
}

// Diversity returns the number of distinct genome command-sequence
// lengths present in the pool, a cheap proxy for population diversity.
func (p *Pool) Diversity() int {
	lengths := make(map[int]bool)
	for _, s := range p.Slots {
		lengths[s.Genome.Len()] = true
	}
	return len(lengths)
}

// ReplaceSlot overwrites slot i with a downloaded elite genome (peer
// exchange download), rebuilding its brain immediately.
func (p *Pool) ReplaceSlot(i int, g *gene.Genome) error {
	return p.setSlot(i, g)
}

// EvaluateGeneration rebuilds every slot's brain from its current genome,
// so no runtime state from a previous generation's Step calls carries
// over, then scores each one across cfg.TaskNum freshly-drawn tasks, each
// task's question stream replayed identically to every brain.
func (p *Pool) EvaluateGeneration() error {
	taskQuestions := make([][]oracle.Question, p.Config.TaskNum)
	for t := 0; t < p.Config.TaskNum; t++ {
		o := oracle.NewOracle()
		taskQuestions[t] = o.QuestionStream(p.Config.Steps)
	}

	for i, s := range p.Slots {
		if err := p.setSlot(i, s.Genome); err != nil {
			return err
		}
		s = p.Slots[i]
		correct := p.eval.ScoreGenome(s.Brain, taskQuestions)
		s.Fitness = Fitness(correct, s.Genome, p.Config)
	}
	return nil
}

// Advance runs one full generation: evaluate, select, and overwrite the
// kill zone with clones and crossover children.
func (p *Pool) Advance() error {
	if err := p.EvaluateGeneration(); err != nil {
		return err
	}

	pl := plan(p.fitnessSlice(), p.Config.PoolKeep)

	// Clone-then-mutate: kill-zone clone targets draw from the breeder zone
	// round-robin, so a small breeder zone still seeds every clone target.
	for i, target := range pl.cloneTargets {
		if len(pl.breederZone) == 0 {
			break
		}
		source := pl.breederZone[i%len(pl.breederZone)]
		clone := p.Slots[source].Genome.Clone()
		gene.MutateN(clone, p.Config.MutationWeights, xutil.RandomInt(1, 6))
		if err := p.setSlot(target, clone); err != nil {
			return err
		}
	}

	// Crossover: best genome x a random genome excluding best and both
	// crossover targets.
	if pl.hasCrossover {
		parent1 := p.Slots[pl.bestIndex].Genome
		parent2Index := p.pickCrossoverPartner(pl)
		if parent2Index >= 0 {
			parent2 := p.Slots[parent2Index].Genome
			start, snip := gene.RandomCrossoverFractions()
			child1, child2 := gene.Crossover(parent1, parent2, start, snip)

			if err := p.setSlot(pl.crossoverTargets[0], child1); err != nil {
				return err
			}
			if err := p.setSlot(pl.crossoverTargets[1], child2); err != nil {
				return err
			}
		}
	}

	p.Generation++
	return nil
}

// RunHooks are called around each generation by Run; all are optional.
type RunHooks struct {
	// BeforeGeneration runs just before Advance, for peer-exchange signal
	// polling — all peer-exchange file I/O happens here, on the main loop,
	// never from inside a signal handler.
	BeforeGeneration func(p *Pool) error
	// AfterGeneration runs just after Advance, for telemetry reporting and
	// genepool persistence.
	AfterGeneration func(p *Pool) error
}

// Run advances the pool for the given number of generations (or forever,
// if generations <= 0), invoking hooks around each one.
func (p *Pool) Run(generations int, hooks RunHooks) error {
	for g := 0; generations <= 0 || g < generations; g++ {
		if hooks.BeforeGeneration != nil {
			if err := hooks.BeforeGeneration(p); err != nil {
				return err
			}
		}
		if err := p.Advance(); err != nil {
			return err
		}
		if hooks.AfterGeneration != nil {
			if err := hooks.AfterGeneration(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// pickCrossoverPartner chooses a random slot distinct from the best slot
// and from both crossover targets.
func (p *Pool) pickCrossoverPartner(pl selectionPlan) int {
	excluded := map[int]bool{
		pl.bestIndex:           true,
		pl.crossoverTargets[0]: true,
		pl.crossoverTargets[1]: true,
	}
	candidates := make([]int, 0, len(p.Slots))
	for i := range p.Slots {
		if !excluded[i] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[xutil.RandomInt(0, len(candidates))]
}
