// SPDX-License-Identifier: MIT

package tensor

import (
	"errors"

	"github.com/katalvlaran/lowrank/matrix"
)

var (
	// ErrInvalidDimensions is returned for an empty dimension vector or a non-positive extent.
	ErrInvalidDimensions = errors.New("tensor: dimensions must be non-empty and > 0")

	// ErrResourceExhausted is returned when the element count overflows int or
	// exceeds the caller's materialisation limit.
	ErrResourceExhausted = errors.New("tensor: element count exceeds addressable limit")

	// ErrOutOfRange aliases the matrix sentinel for indices outside the shape.
	ErrOutOfRange = matrix.ErrOutOfRange

	// ErrDimensionMismatch aliases the matrix sentinel for shape disagreements.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch
)
