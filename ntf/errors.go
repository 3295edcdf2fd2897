// SPDX-License-Identifier: MIT

package ntf

import (
	"errors"

	"github.com/katalvlaran/lowrank/config"
	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/tensor"
)

var (
	// ErrInvalidRank is returned when k <= 0.
	ErrInvalidRank = errors.New("ntf: rank must be > 0")

	// ErrInvalidOrder is returned for fewer than two modes.
	ErrInvalidOrder = errors.New("ntf: order must be >= 2")

	// ErrSizeMismatch is returned by Set when the replacement holds a
	// different number of elements than the factor it replaces.
	ErrSizeMismatch = errors.New("ntf: element count mismatch")

	// ErrNilInput is returned for a nil matrix, tensor or factor set argument.
	ErrNilInput = errors.New("ntf: nil input")

	// ErrReleased is returned by every operation after Release.
	ErrReleased = errors.New("ntf: factor set released")

	// ErrInvalidDimensions aliases the tensor sentinel for non-positive extents.
	ErrInvalidDimensions = tensor.ErrInvalidDimensions

	// ErrResourceExhausted aliases the tensor sentinel for oversized materialisations.
	ErrResourceExhausted = tensor.ErrResourceExhausted

	// ErrDimensionMismatch aliases the matrix sentinel for incompatible shapes.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrOutOfRange aliases the matrix sentinel for a mode index outside [0,N).
	ErrOutOfRange = matrix.ErrOutOfRange

	// ErrInvalidConfig aliases the config sentinel.
	ErrInvalidConfig = config.ErrInvalidConfig
)
