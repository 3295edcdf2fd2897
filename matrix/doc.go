// SPDX-License-Identifier: MIT

// Package matrix provides the dense row-major storage and the linear-algebra
// kernels used by low-rank factor models.
//
// The package offers:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and raw
//     row access for hot loops.
//   - Products that never form an explicit transpose: Mul (A·B), MulTransA
//     (Aᵀ·B) and Gram (Uᵀ·U).
//   - Elementwise algebra: Hadamard, HadamardInPlace, Fill.
//   - Reductions: Trace, TraceOfProduct, FrobeniusNorm, column norms and
//     positive-entry counts.
//   - ThinR, the k×k triangular factor of an economy QR, backed by gonum.
//
// All kernels validate shapes up front and return the sentinels declared in
// errors.go, wrapped with the operation name.
package matrix
