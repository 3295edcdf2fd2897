// SPDX-License-Identifier: MIT

// Package matrix - column kernels for factor matrices.
//
// Factor matrices are tall (rows = items, cols = rank). Rank columns are the
// unit of normalisation and scaling, so this file provides strided column
// reductions and in-place column updates over the row-major buffer.

package matrix

import (
	"fmt"
	"math"
)

const (
	ctxColumnNorm  = "ColumnNorm"
	ctxScaleColumn = "ScaleColumn"
)

// ColumnNorm returns the Euclidean norm of column j.
// Uses a scaled sum of squares (LAPACK dnrm2 style) so tiny or huge entries
// neither underflow nor overflow.
// Complexity: O(r).
func (m *Dense) ColumnNorm(j int) (float64, error) {
	if j < 0 || j >= m.c {
		return 0, denseErrorf(ctxColumnNorm, 0, j, ErrOutOfRange)
	}
	var (
		scale = 0.0
		ssq   = 1.0
		absv  float64
		i     int
	)
	for i = 0; i < m.r; i++ {
		absv = math.Abs(m.data[i*m.c+j])
		if absv == 0 {
			continue
		}
		if scale < absv {
			ssq = 1 + ssq*(scale/absv)*(scale/absv)
			scale = absv
		} else {
			ssq += (absv / scale) * (absv / scale)
		}
	}
	if scale == 0 {
		return NormZero, nil
	}

	return scale * math.Sqrt(ssq), nil
}

// ColumnNorms returns the Euclidean norm of every column.
// Complexity: O(r*c).
func (m *Dense) ColumnNorms() []float64 {
	out := make([]float64, m.c)
	var j int
	for j = 0; j < m.c; j++ {
		out[j], _ = m.ColumnNorm(j) // j is always in range here
	}

	return out
}

// ScaleColumn multiplies column j by alpha in place.
// Errors: ErrOutOfRange for j; ErrNaNInf when alpha is not finite and the policy is on.
func (m *Dense) ScaleColumn(j int, alpha float64) error {
	if j < 0 || j >= m.c {
		return denseErrorf(ctxScaleColumn, 0, j, ErrOutOfRange)
	}
	if m.validateNaNInf && (math.IsNaN(alpha) || math.IsInf(alpha, 0)) {
		return fmt.Errorf("Dense.%s(col=%d, alpha=%g): %w", ctxScaleColumn, j, alpha, ErrNaNInf)
	}
	var i int
	for i = 0; i < m.r; i++ {
		m.data[i*m.c+j] *= alpha
	}

	return nil
}

// CountPositive returns the number of strictly positive entries.
// It is the numerator of a factor's density statistic.
func (m *Dense) CountPositive() int {
	var n int
	var v float64
	for _, v = range m.data {
		if v > 0 {
			n++
		}
	}

	return n
}
