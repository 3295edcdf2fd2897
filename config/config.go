// SPDX-License-Identifier: MIT

// Package config holds the run configuration shared by factor models and
// factor sets: the iteration budget that sizes statistics tables, the
// convergence tolerance the solver checks against, the worker bound for the
// sparse reduction, and numeric/resource policies.
//
// Configuration is a plain value passed at construction; nothing here is
// global. Load reads YAML and falls back to defaults when the file is absent.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Density divisor policies for the right factor's density statistic.
const (
	// DensityDivisorLeft divides count(H>0) by m·k, the left factor's row count.
	// It is the default and the historical definition of the statistic.
	DensityDivisorLeft = "left"

	// DensityDivisorOwn divides count(H>0) by n·k, H's own element count.
	DensityDivisorOwn = "own"
)

// Defaults (single source of truth).
const (
	DefaultNumIterations        = 20
	DefaultConvergenceTolerance = 1e-6
	DefaultWorkers              = 1
	DefaultDensityDivisor       = DensityDivisorLeft
	DefaultMaxDenseElements     = 1 << 28
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the explicit replacement for compile-time tuning constants.
type Config struct {
	// NumIterations is the iteration budget; statistics tables hold NumIterations+1 rows.
	NumIterations int `json:"num_iterations" yaml:"num_iterations" validate:"gte=0"`

	// ConvergenceTolerance bounds the relative change of the objective error
	// below which a solver may stop.
	ConvergenceTolerance float64 `json:"convergence_tolerance" yaml:"convergence_tolerance" validate:"gte=0"`

	// Workers bounds the goroutines used by the sparse nonzero reduction.
	Workers int `json:"workers" yaml:"workers" validate:"gte=1"`

	// DensityDivisor selects the divisor of density(H): "left" or "own".
	DensityDivisor string `json:"density_divisor" yaml:"density_divisor" validate:"oneof=left own"`

	// Seed feeds the random factor initialisation; 0 selects a fixed default seed.
	Seed int64 `json:"seed" yaml:"seed"`

	// MaxDenseElements caps dense materialisations (KRP, reconstructed tensors).
	MaxDenseElements int `json:"max_dense_elements" yaml:"max_dense_elements" validate:"gt=0"`
}

var validate = validator.New()

// Default returns the default configuration.
func Default() Config {
	return Config{
		NumIterations:        DefaultNumIterations,
		ConvergenceTolerance: DefaultConvergenceTolerance,
		Workers:              DefaultWorkers,
		DensityDivisor:       DefaultDensityDivisor,
		MaxDenseElements:     DefaultMaxDenseElements,
	}
}

// Validate checks every field against its constraints.
// Errors wrap ErrInvalidConfig together with the validator's field report.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Parse decodes YAML on top of the defaults and validates the result.
// Keys absent from the document keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Load reads a YAML file. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("load config file: %w", err)
	}

	return Parse(data)
}
