// SPDX-License-Identifier: MIT

package sparse

import (
	"errors"

	"github.com/katalvlaran/lowrank/matrix"
)

var (
	// ErrMalformed indicates inconsistent compressed-column arrays
	// (bad pointer monotonicity, unsorted or duplicate row indices, length mismatch).
	ErrMalformed = errors.New("sparse: malformed compressed-column structure")

	// ErrInvalidDimensions aliases the matrix sentinel for non-positive shapes.
	ErrInvalidDimensions = matrix.ErrInvalidDimensions

	// ErrOutOfRange aliases the matrix sentinel for indices outside the shape.
	ErrOutOfRange = matrix.ErrOutOfRange

	// ErrDimensionMismatch aliases the matrix sentinel for non-conformable operands.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrNaNInf aliases the matrix sentinel for non-finite stored values.
	ErrNaNInf = matrix.ErrNaNInf
)
