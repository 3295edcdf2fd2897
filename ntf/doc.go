// SPDX-License-Identifier: MIT

// Package ntf holds the factor set of a rank-k CP (CANDECOMP/PARAFAC)
// decomposition of an order-N tensor:
//
//	X ≈ Σ_r λ_r · u⁽⁰⁾_r ∘ u⁽¹⁾_r ∘ … ∘ u⁽ᴺ⁻¹⁾_r
//
// Mode i is a d_i×k factor matrix (k×d_i under the transposed layout; the
// layout changes storage only). Per-mode column norms live in an N×k lambda
// matrix filled by Normalize.
//
// Khatri-Rao convention: KRP(n) multiplies the factors of every mode except n
// visited in reverse order N−1, …, 0. Column r is the vectorised outer
// product of the r-th columns; the last visited mode varies fastest, so for
// dims (2,3,4) and n=2 the row of (i₀,i₁) is i₀ + 2·i₁. Reconstructions use
// the same convention and come out column-major (mode 0 fastest), matching
// the tensor package.
//
// A FactorSet is not safe for concurrent mutation.
package ntf
