// SPDX-License-Identifier: MIT

package nmf

import (
	"errors"

	"github.com/katalvlaran/lowrank/config"
	"github.com/katalvlaran/lowrank/matrix"
)

var (
	// ErrInvalidRank is returned when k <= 0.
	ErrInvalidRank = errors.New("nmf: rank must be > 0")

	// ErrNilInput is returned for a nil input matrix or factor.
	ErrNilInput = errors.New("nmf: nil input")

	// ErrUnsupportedInput is returned for an Input that is neither a
	// *matrix.Dense nor a SparseInput.
	ErrUnsupportedInput = errors.New("nmf: input is neither dense nor sparse")

	// ErrReleased is returned by every operation after Clear.
	ErrReleased = errors.New("nmf: model cleared")

	// ErrDimensionMismatch is the matrix sentinel for incompatible shapes.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrOutOfRange is the matrix sentinel for an iteration outside the table.
	ErrOutOfRange = matrix.ErrOutOfRange

	// ErrInvalidConfig is the config sentinel for rejected settings.
	ErrInvalidConfig = config.ErrInvalidConfig
)
