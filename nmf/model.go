// SPDX-License-Identifier: MIT

package nmf

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/lowrank/config"
	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/stats"
)

// Input is the read-only data matrix A (m×n).
// *matrix.Dense and *sparse.CSC implement it.
type Input interface {
	Rows() int
	Cols() int
	FrobeniusNorm() float64
}

// SparseInput is an Input exposing compressed-column traversal.
// Column returns the row indices and values of the stored entries of column
// j in increasing row order; the slices are read, never modified.
type SparseInput interface {
	Input
	NNZ() int
	Column(j int) (rows []int, vals []float64)
}

// Operation tags for error wrapping.
const (
	opNew            = "nmf.New"
	opNewWithFactors = "nmf.NewWithFactors"
	opObjective      = "nmf.ComputeObjectiveError"
	opCached         = "nmf.ComputeObjectiveErrorCached"
	opCollectStats   = "nmf.CollectStats"
	opRecordTimings  = "nmf.RecordTimings"
	opSetIterations  = "nmf.SetNumIterations"
)

// FactorModel is the low-rank model A ≈ W·Hᵀ.
type FactorModel struct {
	a      Input
	dense  *matrix.Dense // non-nil on the dense path
	sparse SparseInput   // non-nil on the sparse path

	w, h   *matrix.Dense // live factors, m×k and n×k
	w0, h0 *matrix.Dense // seed snapshots (nil for random construction)

	m, n, k int
	normA   float64

	objErr float64 // last computed ‖A − WHᵀ‖_F
	sqErr  float64 // its clamped square

	numIterations int
	table         *stats.Table

	cfg      config.Config
	log      *slog.Logger
	released bool
}

// New builds a model with W (m×k) and H (n×k) drawn uniformly from (0, 1].
//
// Errors:
//   - ErrNilInput, ErrUnsupportedInput, ErrInvalidRank, ErrInvalidConfig.
func New(a Input, k int, opts ...Option) (*FactorModel, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%s(k=%d): %w", opNew, k, ErrInvalidRank)
	}
	fm, err := newModel(a, k, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	rng := o.rng
	if rng == nil {
		rng = matrix.NewRand(o.cfg.Seed)
	}
	// W is drawn before H so a seed pins both.
	if fm.w, err = matrix.NewRandomPositive(fm.m, k, rng); err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	if fm.h, err = matrix.NewRandomPositive(fm.n, k, rng); err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}

	return fm, nil
}

// NewWithFactors adopts w0 (m×k) and h0 (n×k) as the live factors and keeps
// independent copies as the initial snapshot.
//
// Errors:
//   - ErrNilInput, ErrUnsupportedInput, ErrInvalidConfig.
//   - ErrDimensionMismatch when w0.Cols() != h0.Cols(), w0.Rows() != m or h0.Rows() != n.
func NewWithFactors(a Input, w0, h0 *matrix.Dense, opts ...Option) (*FactorModel, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewWithFactors, err)
	}
	if w0 == nil || h0 == nil {
		return nil, fmt.Errorf("%s: factor: %w", opNewWithFactors, ErrNilInput)
	}
	if w0.Cols() != h0.Cols() {
		return nil, fmt.Errorf("%s: rank %d vs %d: %w", opNewWithFactors, w0.Cols(), h0.Cols(), ErrDimensionMismatch)
	}
	fm, err := newModel(a, w0.Cols(), o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewWithFactors, err)
	}
	if w0.Rows() != fm.m || h0.Rows() != fm.n {
		return nil, fmt.Errorf("%s: W %dx%d, H %dx%d for A %dx%d: %w",
			opNewWithFactors, w0.Rows(), w0.Cols(), h0.Rows(), h0.Cols(), fm.m, fm.n, ErrDimensionMismatch)
	}
	fm.w, fm.h = w0, h0
	fm.w0, fm.h0 = w0.Copy(), h0.Copy()

	return fm, nil
}

// newModel classifies the input and sets up everything except the factors.
func newModel(a Input, k int, o options) (*FactorModel, error) {
	if a == nil {
		return nil, ErrNilInput
	}
	fm := &FactorModel{a: a, k: k, cfg: o.cfg, log: o.logger}
	switch in := a.(type) {
	case *matrix.Dense:
		if in == nil {
			return nil, ErrNilInput
		}
		fm.dense = in
	case SparseInput:
		fm.sparse = in
	default:
		return nil, fmt.Errorf("%T: %w", a, ErrUnsupportedInput)
	}
	fm.m, fm.n = a.Rows(), a.Cols()
	if fm.m <= 0 || fm.n <= 0 {
		return nil, fmt.Errorf("input %dx%d: %w", fm.m, fm.n, matrix.ErrInvalidDimensions)
	}
	fm.normA = a.FrobeniusNorm()
	fm.objErr = math.Inf(1)
	fm.sqErr = math.Inf(1)
	fm.numIterations = o.cfg.NumIterations
	table, err := stats.NewTable(fm.numIterations)
	if err != nil {
		return nil, err
	}
	fm.table = table

	return fm, nil
}

// W returns the live left factor (m×k). Mutations are visible to the model.
func (fm *FactorModel) W() *matrix.Dense { return fm.w }

// H returns the live right factor (n×k).
func (fm *FactorModel) H() *matrix.Dense { return fm.h }

// InitialW returns the seed snapshot of W, or nil when W was random.
func (fm *FactorModel) InitialW() *matrix.Dense { return fm.w0 }

// InitialH returns the seed snapshot of H, or nil when H was random.
func (fm *FactorModel) InitialH() *matrix.Dense { return fm.h0 }

// Input returns A.
func (fm *FactorModel) Input() Input { return fm.a }

// Shape returns (m, n, k).
func (fm *FactorModel) Shape() (m, n, k int) { return fm.m, fm.n, fm.k }

// Sparse reports whether the sparse objective path is used.
func (fm *FactorModel) Sparse() bool { return fm.sparse != nil }

// NormA returns ‖A‖_F, recorded once at construction.
func (fm *FactorModel) NormA() float64 { return fm.normA }

// ObjectiveError returns the last computed ‖A − WHᵀ‖_F (+Inf before the first computation).
func (fm *FactorModel) ObjectiveError() float64 { return fm.objErr }

// SquaredObjectiveError returns the square of ObjectiveError.
func (fm *FactorModel) SquaredObjectiveError() float64 { return fm.sqErr }

// Stats returns the statistics table.
func (fm *FactorModel) Stats() *stats.Table { return fm.table }

// NumIterations returns the iteration budget.
func (fm *FactorModel) NumIterations() int { return fm.numIterations }

// SetNumIterations changes the iteration budget. The statistics table is
// re-sized only while none of its rows has been written.
func (fm *FactorModel) SetNumIterations(n int) error {
	if fm.released {
		return fmt.Errorf("%s: %w", opSetIterations, ErrReleased)
	}
	if n < 0 {
		return fmt.Errorf("%s(%d): %w", opSetIterations, n, ErrInvalidConfig)
	}
	fm.numIterations = n
	fm.cfg.NumIterations = n
	if fm.table.Touched() {
		fm.log.Warn("statistics table already written; keeping its size",
			slog.Int("budget", n), slog.Int("rows", fm.table.Len()))

		return nil
	}
	table, err := stats.NewTable(n)
	if err != nil {
		return fmt.Errorf("%s: %w", opSetIterations, err)
	}
	fm.table = table

	return nil
}

// CollectStats writes ‖W‖_F, ‖H‖_F, density(W), density(H) and the last
// objective error into row iteration of the statistics table.
//
// density(W) = count(W>0)/(m·k); density(H) = count(H>0)/(d·k) where d is m
// under config.DensityDivisorLeft and n under config.DensityDivisorOwn.
//
// Errors: ErrOutOfRange, ErrReleased.
func (fm *FactorModel) CollectStats(iteration int) error {
	if fm.released {
		return fmt.Errorf("%s: %w", opCollectStats, ErrReleased)
	}
	divisor := fm.m
	if fm.cfg.DensityDivisor == config.DensityDivisorOwn {
		divisor = fm.n
	}
	ms := stats.Measures{
		NormW:          fm.w.FrobeniusNorm(),
		NormH:          fm.h.FrobeniusNorm(),
		DensityW:       float64(fm.w.CountPositive()) / float64(fm.m*fm.k),
		DensityH:       float64(fm.h.CountPositive()) / float64(divisor*fm.k),
		ObjectiveError: fm.objErr,
	}
	if err := fm.table.SetMeasures(iteration, ms); err != nil {
		return fmt.Errorf("%s: %w", opCollectStats, err)
	}

	return nil
}

// RecordTimings stores the H and W update durations of an iteration.
// Errors: ErrOutOfRange, ErrReleased.
func (fm *FactorModel) RecordTimings(iteration int, hTime, wTime time.Duration) error {
	if fm.released {
		return fmt.Errorf("%s: %w", opRecordTimings, ErrReleased)
	}
	if err := fm.table.SetTimings(iteration, hTime, wTime); err != nil {
		return fmt.Errorf("%s: %w", opRecordTimings, err)
	}

	return nil
}

// Converged reports whether the objective error moved by at most
// ConvergenceTolerance relative to previous. It is false until two finite
// errors exist.
func (fm *FactorModel) Converged(previous float64) bool {
	cur := fm.objErr
	if math.IsInf(cur, 0) || math.IsInf(previous, 0) || math.IsNaN(previous) {
		return false
	}
	scale := math.Max(math.Abs(previous), matrix.DefaultEpsilon)

	return math.Abs(previous-cur) <= fm.cfg.ConvergenceTolerance*scale
}

// Clear releases A, the factors and the statistics table. Idempotent.
func (fm *FactorModel) Clear() {
	if fm.released {
		return
	}
	fm.table.Release()
	fm.a, fm.dense, fm.sparse = nil, nil, nil
	fm.w, fm.h, fm.w0, fm.h0 = nil, nil, nil, nil
	fm.released = true
}

// Released reports whether Clear has run.
func (fm *FactorModel) Released() bool { return fm.released }
