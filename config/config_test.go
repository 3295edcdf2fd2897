// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/lowrank/config"
	"github.com/stretchr/testify/require"
)

// TestDefaultIsValid ensures the defaults satisfy their own constraints.
func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, config.DefaultNumIterations, cfg.NumIterations)
	require.Equal(t, config.DensityDivisorLeft, cfg.DensityDivisor)
}

// TestParseOverridesDefaults checks that YAML keys override and absent keys keep defaults.
func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("num_iterations: 50\nworkers: 4\ndensity_divisor: own\n"))
	require.NoError(t, err)
	require.Equal(t, 50, cfg.NumIterations)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, config.DensityDivisorOwn, cfg.DensityDivisor)
	require.Equal(t, config.DefaultConvergenceTolerance, cfg.ConvergenceTolerance)
}

// TestParseRejectsInvalid covers each validated constraint.
func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"negative iterations", "num_iterations: -1\n"},
		{"negative tolerance", "convergence_tolerance: -0.5\n"},
		{"zero workers", "workers: 0\n"},
		{"unknown divisor", "density_divisor: rows\n"},
		{"zero dense cap", "max_dense_elements: 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.doc))
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

// TestParseMalformedYAML surfaces decoder errors.
func TestParseMalformedYAML(t *testing.T) {
	_, err := config.Parse([]byte("num_iterations: [1, 2"))
	require.Error(t, err)
	require.NotErrorIs(t, err, config.ErrInvalidConfig)
}

// TestLoad covers the file and missing-file paths.
func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 42\nconvergence_tolerance: 0.001\n"), 0o600))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(42), cfg.Seed)
	require.InDelta(t, 0.001, cfg.ConvergenceTolerance, 1e-15)
}
