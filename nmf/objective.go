// SPDX-License-Identifier: MIT

package nmf

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/lowrank/matrix"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// ComputeObjectiveError returns ‖A − WHᵀ‖_F for the current factors and
// caches it (see ObjectiveError). The dense or sparse path is chosen by the
// kind of input.
//
// Errors: ErrReleased, ErrDimensionMismatch when a factor was replaced by one
// of another shape.
func (fm *FactorModel) ComputeObjectiveError() (float64, error) {
	if fm.released {
		return 0, fmt.Errorf("%s: %w", opObjective, ErrReleased)
	}
	if err := fm.checkFactors(); err != nil {
		return 0, fmt.Errorf("%s: %w", opObjective, err)
	}
	start := time.Now()
	var (
		sq   float64
		err  error
		path string
	)
	if fm.sparse != nil {
		path = "sparse"
		sq, err = fm.sparseSquaredError()
	} else {
		path = "dense"
		sq, err = fm.denseSquaredError()
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opObjective, err)
	}
	fm.store(sq)
	fm.log.Debug("objective error",
		slog.String("path", path),
		slog.Float64("error", fm.objErr),
		slog.Duration("elapsed", time.Since(start)))

	return fm.objErr, nil
}

// ComputeObjectiveErrorCached evaluates the dense objective from
// caller-cached products: at = Aᵀ (n×m, dense or sparse), wtw = WᵀW and
// htw = HᵀH (both k×k). Solvers that already hold these avoid recomputing them.
//
// Errors: ErrReleased, ErrNilInput, ErrUnsupportedInput, ErrDimensionMismatch.
func (fm *FactorModel) ComputeObjectiveErrorCached(at Input, wtw, htw *matrix.Dense) (float64, error) {
	if fm.released {
		return 0, fmt.Errorf("%s: %w", opCached, ErrReleased)
	}
	if at == nil || wtw == nil || htw == nil {
		return 0, fmt.Errorf("%s: %w", opCached, ErrNilInput)
	}
	if at.Rows() != fm.n || at.Cols() != fm.m {
		return 0, fmt.Errorf("%s: Aᵀ is %dx%d, want %dx%d: %w", opCached, at.Rows(), at.Cols(), fm.n, fm.m, ErrDimensionMismatch)
	}
	if err := matrix.ValidateShape(wtw, fm.k, fm.k); err != nil {
		return 0, fmt.Errorf("%s: WᵀW: %w", opCached, err)
	}
	if err := matrix.ValidateShape(htw, fm.k, fm.k); err != nil {
		return 0, fmt.Errorf("%s: HᵀH: %w", opCached, err)
	}
	if err := fm.checkFactors(); err != nil {
		return 0, fmt.Errorf("%s: %w", opCached, err)
	}

	var (
		atw *matrix.Dense
		err error
	)
	switch in := at.(type) {
	case *matrix.Dense:
		atw, err = matrix.Mul(in, fm.w)
	case SparseInput:
		atw, err = sparseMulDense(in, fm.w)
	default:
		err = fmt.Errorf("%T: %w", at, ErrUnsupportedInput)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opCached, err)
	}
	sq, err := fm.denseTerms(atw, wtw, htw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opCached, err)
	}
	fm.store(sq)

	return fm.objErr, nil
}

// checkFactors guards against factors swapped for ones of another shape.
func (fm *FactorModel) checkFactors() error {
	if err := matrix.ValidateShape(fm.w, fm.m, fm.k); err != nil {
		return fmt.Errorf("W: %w", err)
	}
	if err := matrix.ValidateShape(fm.h, fm.n, fm.k); err != nil {
		return fmt.Errorf("H: %w", err)
	}

	return nil
}

// store clamps a negative squared error to zero and caches the result.
func (fm *FactorModel) store(sq float64) {
	if sq < 0 {
		fm.log.Debug("negative squared objective clamped to zero", slog.Float64("squared", sq))
		sq = 0
	}
	fm.sqErr = sq
	fm.objErr = math.Sqrt(sq)
}

// denseSquaredError evaluates ‖A‖² − 2·trace(Hᵀ(AᵀW)) + trace((WᵀW)(HᵀH)).
// Cost O(m·n·k + (m+n)·k²); WHᵀ is never formed.
func (fm *FactorModel) denseSquaredError() (float64, error) {
	atw, err := matrix.MulTransA(fm.dense, fm.w) // n×k
	if err != nil {
		return 0, err
	}
	wtw, err := matrix.Gram(fm.w)
	if err != nil {
		return 0, err
	}
	hth, err := matrix.Gram(fm.h)
	if err != nil {
		return 0, err
	}

	return fm.denseTerms(atw, wtw, hth)
}

// denseTerms combines the three terms of the dense expansion.
func (fm *FactorModel) denseTerms(atw, wtw, hth *matrix.Dense) (float64, error) {
	cross, err := matrix.TraceOfTransProduct(fm.h, atw) // trace(Hᵀ·AᵀW)
	if err != nil {
		return 0, err
	}
	model, err := matrix.TraceOfProduct(wtw, hth)
	if err != nil {
		return 0, err
	}

	return fm.normA*fm.normA - 2*cross + model, nil
}

// partial is one shard's contribution to the sparse reduction.
type partial struct {
	sse  float64 // Σ (a − w·h)² over stored entries
	wh2  float64 // Σ (w·h)² over stored entries
	seen int     // stored entries visited
}

// sparseSquaredError evaluates the sparse identity
//
//	‖A − WHᵀ‖² = Σ_nz (a − w·h)² + ‖WHᵀ‖² − Σ_nz (w·h)²
//
// with ‖WHᵀ‖_F = ‖R_W·R_Hᵀ‖_F from thin QR factors of W and H.
// Cost O(nnz·k + (m+n)·k²).
func (fm *FactorModel) sparseSquaredError() (float64, error) {
	parts, err := fm.reduceNonZeros()
	if err != nil {
		return 0, err
	}
	var total partial
	var p partial
	for _, p = range parts { // shard order keeps the sum reproducible
		total.sse += p.sse
		total.wh2 += p.wh2
		total.seen += p.seen
	}

	rw, err := matrix.ThinR(fm.w)
	if err != nil {
		return 0, err
	}
	rh, err := matrix.ThinR(fm.h)
	if err != nil {
		return 0, err
	}
	rhT, err := matrix.Transpose(rh)
	if err != nil {
		return 0, err
	}
	prod, err := matrix.Mul(rw, rhT)
	if err != nil {
		return 0, err
	}
	norm := prod.FrobeniusNorm()
	fm.log.Debug("sparse reduction",
		slog.Int("nnz", total.seen),
		slog.Int("shards", len(parts)))

	return total.sse + norm*norm - total.wh2, nil
}

// reduceNonZeros splits the columns of A into contiguous ranges, one per
// worker, and reduces each range on its own goroutine.
func (fm *FactorModel) reduceNonZeros() ([]partial, error) {
	workers := fm.cfg.Workers
	if workers > fm.n {
		workers = fm.n
	}
	if workers < 1 {
		workers = 1
	}
	parts := make([]partial, workers)
	if workers == 1 {
		parts[0] = fm.reduceColumns(0, fm.n)

		return parts, nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (fm.n + workers - 1) / workers
	var s int
	for s = 0; s < workers; s++ {
		lo := s * chunk
		hi := min(lo+chunk, fm.n)
		shard := s
		g.Go(func() error {
			if lo < hi {
				parts[shard] = fm.reduceColumns(lo, hi)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return parts, nil
}

// reduceColumns accumulates the non-zero sums for columns [lo, hi).
// Column j of A pairs with row j of H; stored row i pairs with row i of W.
func (fm *FactorModel) reduceColumns(lo, hi int) partial {
	var (
		p      partial
		j, q   int
		rows   []int
		vals   []float64
		hRow   []float64
		wRow   []float64
		wh, df float64
	)
	for j = lo; j < hi; j++ {
		rows, vals = fm.sparse.Column(j)
		if len(rows) == 0 {
			continue
		}
		hRow, _ = fm.h.RawRow(j)
		for q = range rows {
			wRow, _ = fm.w.RawRow(rows[q])
			wh = floats.Dot(wRow, hRow)
			df = vals[q] - wh
			p.sse += df * df
			p.wh2 += wh * wh
		}
		p.seen += len(rows)
	}

	return p
}

// sparseMulDense returns S·B for a compressed-column S (r×c) and dense B (c×q).
func sparseMulDense(s SparseInput, b *matrix.Dense) (*matrix.Dense, error) {
	if s.Cols() != b.Rows() {
		return nil, fmt.Errorf("sparse %dx%d · %dx%d: %w", s.Rows(), s.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}
	out, err := matrix.NewDense(s.Rows(), b.Cols())
	if err != nil {
		return nil, err
	}
	var (
		j, q   int
		rows   []int
		vals   []float64
		bRow   []float64
		outRow []float64
	)
	for j = 0; j < s.Cols(); j++ {
		bRow, _ = b.RawRow(j)
		rows, vals = s.Column(j)
		for q = range rows {
			outRow, _ = out.RawRow(rows[q])
			floats.AddScaled(outRow, vals[q], bRow)
		}
	}

	return out, nil
}
