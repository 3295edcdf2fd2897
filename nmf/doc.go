// SPDX-License-Identifier: MIT

// Package nmf holds the two-factor model of a non-negative matrix
// factorisation A ≈ W·Hᵀ and scores it.
//
// A FactorModel owns W (m×k) and H (n×k), the read-only input A (m×n) and a
// per-iteration statistics table. The update rule itself (multiplicative
// updates, ALS, block principal pivoting, ...) lives in the caller: it reads
// and mutates the factors through W and H, then asks the model for the
// objective error and records statistics.
//
// Objective error:
//
//	‖A − WHᵀ‖²_F = ‖A‖²_F − 2·trace(Hᵀ(AᵀW)) + trace((WᵀW)(HᵀH))       (dense A)
//	             = Σ_nz (a − wᵢ·hⱼ)² + ‖R_W·R_Hᵀ‖²_F − Σ_nz (wᵢ·hⱼ)²      (sparse A)
//
// where R_W and R_H are the triangular factors of thin QR decompositions. The
// reconstruction WHᵀ is never formed. A negative radicand caused by
// cancellation is clamped to zero and logged; it is never an error.
//
// Concurrency:
//   - A FactorModel is not safe for concurrent mutation. The statistics table
//     may be read concurrently (see stats.Collector).
//   - The sparse reduction may shard columns over Workers goroutines; partial
//     sums are merged in shard order, so results are reproducible for a
//     fixed worker count.
package nmf
