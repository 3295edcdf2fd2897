// SPDX-License-Identifier: MIT
// Package matrix provides the product, elementwise and reduction kernels that
// factor models are built from. All functions perform strict fail-fast
// validation and return clear errors on dimension mismatches.
//
// Purpose:
//   - Keep every hot loop on flat row-major slices (*Dense fast paths).
//   - Avoid explicit transposes: Aᵀ·B and Uᵀ·U are computed directly.
//
// Determinism:
//   - Fixed loop orders; no map iteration; no hidden parallelism.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial value of every accumulation loop.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul            = "Mul"
	opMulTransA      = "MulTransA"
	opTranspose      = "Transpose"
	opHadamard       = "Hadamard"
	opHadamardIn     = "HadamardInPlace"
	opGram           = "Gram"
	opTrace          = "Trace"
	opTraceOfProduct = "TraceOfProduct"
	opFrobenius      = "FrobeniusNorm"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: If A and B are *Dense, use i→k→j with row-major strides and skip zeros;
//     otherwise use i→j→k with a fixed order.
//
// Returns:
//   - *Dense C with shape (r × c).
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	// Fast-path for two Dense matrices
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			// da.data layout: i*aCols + k; db.data layout: k*bCols + j
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * aCols
				rowOffsetR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowOffsetA+k]
					if av == 0 {
						continue // skip zero for performance
					}
					rowOffsetB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			return res, nil
		}
	}

	// Fallback: generic interface triple-loop (i-j-k)
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			res.data[i*bCols+j] = current
		}
	}

	return res, nil
}

// MulTransA computes C = Aᵀ × B without materialising Aᵀ.
// A is (r × p), B is (r × q); C is (p × q).
// MAIN DESCRIPTION:
//   - Accumulates rank-1 updates row by row: C += A[i,:]ᵀ · B[i,:].
//
// Implementation:
//   - Stage 1: validate both non-nil and A.Rows == B.Rows.
//   - Stage 2: loop i→p→q over contiguous rows of A and B.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*p*q), Space O(p*q).
//
// AI-Hints:
//   - This is the AᵀW term of the dense objective and the body of Gram.
func MulTransA(a, b *Dense) (*Dense, error) {
	if err := ValidateSameRows(a, b); err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}
	rows, p, q := a.r, a.c, b.c
	res, err := NewDense(p, q)
	if err != nil {
		return nil, matrixErrorf(opMulTransA, err)
	}
	var (
		i, s, t      int
		rowA, rowB   int
		av           float64
		resRowOffset int
	)
	for i = 0; i < rows; i++ {
		rowA = i * p
		rowB = i * q
		for s = 0; s < p; s++ {
			av = a.data[rowA+s]
			if av == 0 {
				continue
			}
			resRowOffset = s * q
			for t = 0; t < q; t++ {
				res.data[resRowOffset+t] += av * b.data[rowB+t]
			}
		}
	}

	return res, nil
}

// Gram returns Uᵀ·U (c × c) for an (r × c) matrix U.
// The result is symmetric; only the upper triangle is accumulated and mirrored.
// Complexity: O(r*c²/2).
func Gram(u *Dense) (*Dense, error) {
	if err := ValidateNotNil(u); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	c := u.c
	res, err := NewDense(c, c)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	var (
		i, s, t int
		row     []float64
		us      float64
	)
	for i = 0; i < u.r; i++ {
		row = u.data[i*c : (i+1)*c]
		for s = 0; s < c; s++ {
			us = row[s]
			if us == 0 {
				continue
			}
			for t = s; t < c; t++ {
				res.data[s*c+t] += us * row[t]
			}
		}
	}
	// Mirror the upper triangle into the lower one.
	for s = 0; s < c; s++ {
		for t = s + 1; t < c; t++ {
			res.data[t*c+s] = res.data[s*c+t]
		}
	}

	return res, nil
}

// GramRows returns U·Uᵀ (r × r): the Gram matrix of a factor stored transposed.
// Complexity: O(r²*c/2).
func GramRows(u *Dense) (*Dense, error) {
	if err := ValidateNotNil(u); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	r := u.r
	res, err := NewDense(r, r)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	var s, t int
	var v float64
	for s = 0; s < r; s++ {
		for t = s; t < r; t++ {
			v = floats.Dot(u.data[s*u.c:(s+1)*u.c], u.data[t*u.c:(t+1)*u.c])
			res.data[s*r+t] = v
			res.data[t*r+s] = v
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Fast-path copies *Dense data via flat indexing; fallback uses At.
// Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		// data[i*cols + j] → res.data[j*rows + i]
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// Hadamard computes the element-wise product C = A ⊙ B into a fresh Dense.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Hadamard(a, b Matrix) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}

	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}

	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			floats.MulTo(res.data, da.data, db.data)

			return res, nil
		}
	}

	var i, j int
	var av, bv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opHadamard, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opHadamard, err)
			}
			res.data[i*cols+j] = av * bv
		}
	}

	return res, nil
}

// HadamardInPlace performs dst ⊙= src (element-wise), mutating dst only.
// This is the accumulation step of Hadamard-of-Grams products.
// Complexity: O(r*c), no allocations.
func HadamardInPlace(dst, src *Dense) error {
	if err := ValidateBinarySameShape(dst, src); err != nil {
		return matrixErrorf(opHadamardIn, err)
	}
	floats.Mul(dst.data, src.data)

	return nil
}

// Trace returns Σ m[i,i] for a square matrix.
// Errors: ErrNilMatrix, ErrDimensionMismatch (not square).
func Trace(m *Dense) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opTrace, err)
	}
	sum := ZeroSum
	var i int
	for i = 0; i < m.r; i++ {
		sum += m.data[i*m.c+i]
	}

	return sum, nil
}

// TraceOfProduct returns trace(A·B) without forming the product:
// Σ_i Σ_j A[i,j]·B[j,i]. A is (r × p) and B must be (p × r).
//
// Complexity: O(r*p) instead of O(r²*p).
func TraceOfProduct(a, b *Dense) (float64, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return 0, matrixErrorf(opTraceOfProduct, err)
	}
	if b.c != a.r {
		return 0, matrixErrorf(opTraceOfProduct, ErrDimensionMismatch)
	}
	sum := ZeroSum
	var i, j, rowA int
	for i = 0; i < a.r; i++ {
		rowA = i * a.c
		for j = 0; j < a.c; j++ {
			sum += a.data[rowA+j] * b.data[j*b.c+i]
		}
	}

	return sum, nil
}

// TraceOfTransProduct returns trace(Aᵀ·B) = Σ A[i,j]·B[i,j] for same-shaped A, B.
// Complexity: O(r*c).
func TraceOfTransProduct(a, b *Dense) (float64, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return 0, matrixErrorf(opTraceOfProduct, err)
	}

	return floats.Dot(a.data, b.data), nil
}

// FrobeniusNorm returns √(Σ m[i,j]²).
// Computed with gonum's scaled 2-norm to avoid overflow on large entries.
func FrobeniusNorm(m *Dense) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}

	return floats.Norm(m.data, 2), nil
}

// FrobeniusNorm is the method form of the package-level kernel.
func (m *Dense) FrobeniusNorm() float64 {
	return floats.Norm(m.data, 2)
}

// AllClose reports whether |a-b| ≤ atol + rtol*|b| element-wise for same-shaped matrices.
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf("AllClose", err)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	var idx int
	var av, bv float64
	for idx = range a.data {
		av, bv = a.data[idx], b.data[idx]
		if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
			return false, nil
		}
	}

	return true, nil
}
