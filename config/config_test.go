package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().PoolSize, cfg.PoolSize)
}

func TestSaveLoadRoundtrips(t *testing.T) {
	cfg := Default()
	cfg.PoolSize = 32
	cfg.PoolKeep = 20

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, got.PoolSize)
	assert.Equal(t, 20, got.PoolKeep)
}

func TestValidateClampsPoolKeepForCrossoverHeadroom(t *testing.T) {
	cfg := &Config{PoolSize: 5, PoolKeep: 5}
	cfg.Validate()
	assert.LessOrEqual(t, cfg.PoolKeep, cfg.PoolSize-3, "kill zone must hold >=2 crossover targets + >=1 clone")
}

func TestValidateFloorsThinkingTimeAndCoefficients(t *testing.T) {
	cfg := &Config{PoolSize: 10, PoolKeep: 5, MinThinkingTime: -1, LengthPenaltyCoeff: -1, TimePenaltyCoeff: -1}
	cfg.Validate()
	assert.GreaterOrEqual(t, cfg.MinThinkingTime, 1.0)
	assert.Equal(t, 0.0, cfg.LengthPenaltyCoeff)
	assert.Equal(t, 0.0, cfg.TimePenaltyCoeff)
}

func TestValidateDefaultsEmptyPaths(t *testing.T) {
	cfg := &Config{PoolSize: 10, PoolKeep: 5}
	cfg.Validate()
	assert.Equal(t, "genepool.dat", cfg.GenepoolPath)
	assert.Equal(t, "xpol.dat", cfg.PeerFilePath)
}
