// Package config holds the pool, VM, and scoring tunables for the
// evolution engine, loaded from an optional YAML file on top of hardcoded
// defaults; out-of-range values from the file are clamped by Validate.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/csirmaz/brainevo/gene"
)

// Config holds all tunable values for one run of the evolution engine.
type Config struct {
	// Pool sizing: how many genomes live side by side, and how many of the
	// best-ranked ones survive a generation.
	PoolSize int `yaml:"poolSize"`
	PoolKeep int `yaml:"poolKeep"`

	// Brain-builder VM capacity limits.
	MaxWeights int `yaml:"maxWeights"`
	MaxSumsis  int `yaml:"maxSumsis"`

	// Evaluator sizing: questions per task, tasks per generation.
	Steps   int `yaml:"steps"`
	TaskNum int `yaml:"taskNum"`

	// Hyperparameter floor for thinking_time.
	MinThinkingTime float64 `yaml:"minThinkingTime"`

	// Scoring penalty coefficients.
	LengthPenaltyCoeff float64 `yaml:"lengthPenaltyCoeff"`
	TimePenaltyCoeff   float64 `yaml:"timePenaltyCoeff"`

	// Mutation-mode weight table.
	MutationWeights gene.MutationWeights `yaml:"mutationWeights"`

	// File paths for the genepool dump and the peer-exchange file.
	GenepoolPath string `yaml:"genepoolPath"`
	PeerFilePath string `yaml:"peerFilePath"`

	// Debug / telemetry.
	TelemetryEnabled bool `yaml:"telemetryEnabled"`
}

// Default returns the hardcoded default configuration.
func Default() *Config {
	return &Config{
		PoolSize:           64,
		PoolKeep:           48,
		MaxWeights:         10000,
		MaxSumsis:          100,
		Steps:              600,
		TaskNum:            3,
		MinThinkingTime:    gene.MinThinkingTime,
		LengthPenaltyCoeff: 0.01,
		TimePenaltyCoeff:   0.01,
		MutationWeights:    gene.DefaultMutationWeights(),
		GenepoolPath:       "genepool.dat",
		PeerFilePath:       "xpol.dat",
		TelemetryEnabled:   true,
	}
}

// Load reads a YAML config file at path, overlaying it on top of the
// defaults. A missing file is not an error — the defaults apply, so a run
// with no config flag at all still gets a usable engine.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Save writes cfg as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// Validate clamps every value to a sane range: thinking_time can never
// drop below the VM's hard floor, and PoolKeep can never crowd out the
// kill zone's two reserved crossover targets plus at least one clone slot.
func (c *Config) Validate() {
	c.PoolSize = clampInt(c.PoolSize, 4, 100000)
	maxKeep := c.PoolSize - 3 // kill zone must hold >=2 crossover targets + >=1 clone
	if maxKeep < 1 {
		maxKeep = 1
	}
	c.PoolKeep = clampInt(c.PoolKeep, 1, maxKeep)

	c.MaxWeights = clampInt(c.MaxWeights, 2, 1000000)
	c.MaxSumsis = clampInt(c.MaxSumsis, 2, 1000000)

	c.Steps = clampInt(c.Steps, 1, 1000000)
	c.TaskNum = clampInt(c.TaskNum, 1, 1000)

	if c.MinThinkingTime < gene.MinThinkingTime {
		c.MinThinkingTime = gene.MinThinkingTime
	}

	if c.LengthPenaltyCoeff < 0 {
		c.LengthPenaltyCoeff = 0
	}
	if c.TimePenaltyCoeff < 0 {
		c.TimePenaltyCoeff = 0
	}

	if c.GenepoolPath == "" {
		c.GenepoolPath = "genepool.dat"
	}
	if c.PeerFilePath == "" {
		c.PeerFilePath = "xpol.dat"
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
