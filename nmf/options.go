// SPDX-License-Identifier: MIT

package nmf

import (
	"log/slog"
	"math/rand"

	"github.com/katalvlaran/lowrank/config"
)

// Option customises a FactorModel at construction.
type Option func(*options)

type options struct {
	cfg    config.Config
	logger *slog.Logger
	rng    *rand.Rand
}

func defaultOptions() options {
	return options{
		cfg:    config.Default(),
		logger: slog.New(slog.DiscardHandler),
	}
}

// gatherOptions applies opts over the defaults and validates the result.
func gatherOptions(opts []Option) (options, error) {
	o := defaultOptions()
	var opt Option
	for _, opt = range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.cfg.Validate(); err != nil {
		return o, err
	}

	return o, nil
}

// WithConfig replaces the whole configuration. Options applied after it
// override single fields.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the structured logger. nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNumIterations sets the iteration budget that sizes the statistics table.
func WithNumIterations(n int) Option {
	return func(o *options) { o.cfg.NumIterations = n }
}

// WithDensityDivisor selects the denominator row count of density(H):
// config.DensityDivisorLeft (m, default) or config.DensityDivisorOwn (n).
func WithDensityDivisor(d string) Option {
	return func(o *options) { o.cfg.DensityDivisor = d }
}

// WithWorkers bounds the goroutines used by the sparse objective reduction.
func WithWorkers(n int) Option {
	return func(o *options) { o.cfg.Workers = n }
}

// WithTolerance sets the relative tolerance used by Converged.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.cfg.ConvergenceTolerance = tol }
}

// WithSeed seeds the random factor initialisation (0 selects matrix.DefaultSeed).
func WithSeed(seed int64) Option {
	return func(o *options) { o.cfg.Seed = seed }
}

// WithRand supplies the random source directly; it takes precedence over the seed.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}
