// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const opThinR = "ThinR"

// ThinR returns the triangular factor R of an economy QR decomposition U = Q·R,
// with Q having orthonormal columns. For an (r × c) input with r ≥ c, R is
// (c × c) upper-triangular. For a wide input (r < c) the decomposition
// U = I·U is used and R is a copy of U.
//
// Because Q preserves Frobenius norms, ‖U·Vᵀ‖_F = ‖R_U·R_Vᵀ‖_F; the sparse
// objective relies on this to avoid forming an r×r' product.
//
// Implementation:
//   - Stage 1: wrap the row-major buffer as a gonum mat.Dense (no copy).
//   - Stage 2: Householder QR via mat.QR, extract the leading c×c block of R.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c²), Space O(r*c) inside gonum.
func ThinR(u *Dense) (*Dense, error) {
	if err := ValidateNotNil(u); err != nil {
		return nil, matrixErrorf(opThinR, err)
	}
	if u.r < u.c {
		return u.Copy(), nil
	}

	var qr mat.QR
	qr.Factorize(mat.NewDense(u.r, u.c, u.data))
	var full mat.Dense
	qr.RTo(&full)

	res, err := NewDense(u.c, u.c)
	if err != nil {
		return nil, matrixErrorf(opThinR, err)
	}
	var i, j int
	for i = 0; i < u.c; i++ {
		for j = i; j < u.c; j++ {
			res.data[i*u.c+j] = full.At(i, j)
		}
	}
	if math.IsNaN(res.FrobeniusNorm()) {
		return nil, matrixErrorf(opThinR, fmt.Errorf("non-finite R: %w", ErrNaNInf))
	}

	return res, nil
}
