// SPDX-License-Identifier: MIT

// Package sparse provides a compressed-sparse-column (CSC) matrix used as the
// read-only input of sparse factor models.
//
// The container exposes exactly the capability a sparse objective needs:
// dimensions, the Frobenius norm, and per-column (row, value) iteration. It is
// immutable after construction; every builder copies its inputs.
//
// Layout:
//   - colPtr has cols+1 entries; column j occupies [colPtr[j], colPtr[j+1]).
//   - rowIdx and values are parallel; row indices are strictly increasing
//     inside a column.
package sparse
