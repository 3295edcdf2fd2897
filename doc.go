// Package lowrank is the factor-storage and scoring core of non-negative
// matrix and tensor factorisation solvers.
//
// What is lowrank?
//
//	A small, deterministic library that keeps low-rank factors of a matrix or
//	an order-N tensor and scores them against the data without ever forming
//	the dense reconstruction:
//		• nmf:    FactorModel, W·Hᵀ ≈ A, dense and sparse objective error
//		• ntf:    FactorSet, CP factors, Gram / Khatri-Rao algebra, MTTKRP
//		• matrix: row-major Dense storage and product kernels
//		• sparse: compressed-sparse-column input
//		• tensor: column-major dense tensors and mode-n unfolding
//		• stats:  per-iteration statistics table + Prometheus collector
//		• config: YAML configuration with validation
//
// The update rule (MU, ALS, BPP, ...) is the caller's: it reads and mutates
// the factors, then asks lowrank for the objective error and statistics.
// See examples/ for a complete solver loop.
//
// Quick sketch:
//
//	fm, _ := nmf.New(ratings, 10, nmf.WithSeed(1))
//	for it := 1; it <= fm.NumIterations(); it++ {
//		update(fm.W(), fm.H())
//		fm.ComputeObjectiveError()
//		fm.CollectStats(it)
//	}
//
//	go get github.com/katalvlaran/lowrank
package lowrank
