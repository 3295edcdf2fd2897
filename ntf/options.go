// SPDX-License-Identifier: MIT

package ntf

import (
	"log/slog"
	"math/rand"

	"github.com/katalvlaran/lowrank/config"
)

// Option customises a FactorSet at construction.
type Option func(*options)

type options struct {
	cfg        config.Config
	logger     *slog.Logger
	rng        *rand.Rand
	transposed bool
}

func gatherOptions(opts []Option) (options, error) {
	o := options{
		cfg:    config.Default(),
		logger: slog.New(slog.DiscardHandler),
	}
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

// WithConfig replaces the whole configuration.
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

// WithSeed seeds the random factor initialisation (0 selects matrix.DefaultSeed).
func WithSeed(seed int64) Option {
	return func(o *options) { o.cfg.Seed = seed }
}

// WithRand supplies the random source directly; it takes precedence over the seed.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithMaxDenseElements caps the element count of KRP and reconstruction outputs.
func WithMaxDenseElements(n int) Option {
	return func(o *options) { o.cfg.MaxDenseElements = n }
}

// WithTransposed stores every factor as k×d_i instead of d_i×k.
func WithTransposed() Option {
	return func(o *options) { o.transposed = true }
}
