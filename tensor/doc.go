// SPDX-License-Identifier: MIT

// Package tensor provides a dense order-N float64 tensor.
//
// Storage is column-major (first-mode fastest): the element at index
// (i₀, i₁, …, i_{N−1}) lives at offset i₀ + d₀·(i₁ + d₁·(i₂ + …)). This is the
// layout in which the mode-n unfolding lines up with the reverse-order
// Khatri-Rao products built by package ntf, and the layout produced when a
// rank-k CP model is reconstructed.
package tensor
