// SPDX-License-Identifier: MIT

package ntf

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/tensor"
	"gonum.org/v1/gonum/floats"
)

// gramOf returns UᵢᵀUᵢ (k×k) regardless of the storage layout.
func (fs *FactorSet) gramOf(i int) (*matrix.Dense, error) {
	if fs.transposed {
		return matrix.GramRows(fs.factors[i])
	}

	return matrix.Gram(fs.factors[i])
}

func (fs *FactorSet) checkAccum(op string, accum *matrix.Dense) error {
	if fs.released {
		return fmt.Errorf("%s: %w", op, ErrReleased)
	}
	if accum == nil {
		return fmt.Errorf("%s: %w", op, ErrNilInput)
	}
	if err := matrix.ValidateShape(accum, fs.k, fs.k); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Gram multiplies accum element-wise by UᵢᵀUᵢ for every mode i.
// accum must be k×k; pass all ones to get the plain Hadamard product of Grams.
func (fs *FactorSet) Gram(accum *matrix.Dense) error {
	if err := fs.checkAccum(opGram, accum); err != nil {
		return err
	}

	return fs.hadamardGrams(opGram, accum, -1)
}

// GramLeaveOutOne sets accum to ⊙_{i≠n} UᵢᵀUᵢ, the normal-equation matrix of
// the mode-n least-squares update.
func (fs *FactorSet) GramLeaveOutOne(n int, accum *matrix.Dense) error {
	if err := fs.checkAccum(opGramLOO, accum); err != nil {
		return err
	}
	if err := fs.checkMode(opGramLOO, n); err != nil {
		return err
	}
	accum.Fill(1)

	return fs.hadamardGrams(opGramLOO, accum, n)
}

func (fs *FactorSet) hadamardGrams(op string, accum *matrix.Dense, skip int) error {
	var (
		i   int
		g   *matrix.Dense
		err error
	)
	for i = range fs.factors {
		if i == skip {
			continue
		}
		if g, err = fs.gramOf(i); err != nil {
			return fmt.Errorf("%s: mode %d: %w", op, i, err)
		}
		if err = matrix.HadamardInPlace(accum, g); err != nil {
			return fmt.Errorf("%s: mode %d: %w", op, i, err)
		}
	}

	return nil
}

// krpRows returns ∏_{i≠n} d_i, bounded by MaxDenseElements/k.
func (fs *FactorSet) krpRows(op string, n int) (int, error) {
	rest := make([]int, 0, len(fs.dims)-1)
	var i int
	for i = range fs.dims {
		if i != n {
			rest = append(rest, fs.dims[i])
		}
	}
	rows, err := tensor.Numel(rest)
	if err != nil {
		return 0, fmt.Errorf("%s(%d): %w", op, n, err)
	}
	if rows > fs.cfg.MaxDenseElements/fs.k {
		return 0, fmt.Errorf("%s(%d): %d×%d exceeds %d elements: %w",
			op, n, rows, fs.k, fs.cfg.MaxDenseElements, ErrResourceExhausted)
	}

	return rows, nil
}

// column copies rank column r of mode i (logical d_i×k view) into dst.
func (fs *FactorSet) column(i, r int, dst []float64) []float64 {
	if fs.transposed {
		row, _ := fs.factors[i].RawRow(r)
		return append(dst[:0], row...)
	}
	col, _ := fs.factors[i].Column(r, dst[:cap(dst)])

	return col
}

// KRPLeaveOutOne writes the Khatri-Rao product of every factor except mode n
// into out, which must be (∏_{i≠n} d_i)×k. Modes are visited N−1, …, 0; the
// newest mode of every outer product varies fastest.
//
// Errors: ErrOutOfRange, ErrReleased, ErrNilInput, ErrDimensionMismatch,
// ErrResourceExhausted.
func (fs *FactorSet) KRPLeaveOutOne(n int, out *matrix.Dense) error {
	if err := fs.checkMode(opKRP, n); err != nil {
		return err
	}
	if out == nil {
		return fmt.Errorf("%s(%d): %w", opKRP, n, ErrNilInput)
	}
	rows, err := fs.krpRows(opKRP, n)
	if err != nil {
		return err
	}
	if err = matrix.ValidateShape(out, rows, fs.k); err != nil {
		return fmt.Errorf("%s(%d): %w", opKRP, n, err)
	}

	// Ping-pong buffers sized to the final column; each step reads cur[:size]
	// and writes next[:size·d].
	cur := make([]float64, rows)
	next := make([]float64, rows)
	vec := make([]float64, 0, maxDim(fs.dims))
	raw := out.RawData()
	var (
		r, i, a, b, p, size, d int
		first                  bool
		cb                     float64
	)
	for r = 0; r < fs.k; r++ {
		first = true
		for i = len(fs.dims) - 1; i >= 0; i-- {
			if i == n {
				continue
			}
			vec = fs.column(i, r, vec)
			if first {
				size = copy(cur, vec)
				first = false
				continue
			}
			d = len(vec)
			for b = 0; b < size; b++ {
				cb = cur[b]
				for a = 0; a < d; a++ {
					next[a+d*b] = vec[a] * cb
				}
			}
			size *= d
			cur, next = next, cur
		}
		for p = 0; p < rows; p++ {
			raw[p*fs.k+r] = cur[p]
		}
	}

	return nil
}

// KRP allocates and returns KRPLeaveOutOne(n).
func (fs *FactorSet) KRP(n int) (*matrix.Dense, error) {
	if err := fs.checkMode(opKRP, n); err != nil {
		return nil, err
	}
	rows, err := fs.krpRows(opKRP, n)
	if err != nil {
		return nil, err
	}
	out, err := matrix.NewDense(rows, fs.k)
	if err != nil {
		return nil, fmt.Errorf("%s(%d): %w", opKRP, n, err)
	}
	if err = fs.KRPLeaveOutOne(n, out); err != nil {
		return nil, err
	}

	return out, nil
}

// RankKTensor reconstructs Σ_r u⁽⁰⁾_r ∘ … ∘ u⁽ᴺ⁻¹⁾_r as U₀·KRP(0)ᵀ reshaped
// to the set's dims. Lambda is not applied; see RankKTensorWeighted.
//
// Errors: ErrReleased, ErrResourceExhausted when ∏ dims exceeds MaxDenseElements.
func (fs *FactorSet) RankKTensor() (*tensor.Dense, error) {
	return fs.rankK(nil)
}

// RankKTensorWeighted reconstructs Σ_r λ_r·u⁽⁰⁾_r ∘ … ∘ u⁽ᴺ⁻¹⁾_r with λ from
// ComponentWeights. A normalised set reproduces the tensor of its
// unnormalised origin.
func (fs *FactorSet) RankKTensorWeighted() (*tensor.Dense, error) {
	if fs.released {
		return nil, fmt.Errorf("%s: %w", opRankK, ErrReleased)
	}
	w, err := fs.ComponentWeights()
	if err != nil {
		return nil, err
	}

	return fs.rankK(w)
}

func (fs *FactorSet) rankK(weights []float64) (*tensor.Dense, error) {
	if fs.released {
		return nil, fmt.Errorf("%s: %w", opRankK, ErrReleased)
	}
	total, err := tensor.Numel(fs.dims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRankK, err)
	}
	if total > fs.cfg.MaxDenseElements {
		return nil, fmt.Errorf("%s: %v holds %d elements, limit %d: %w",
			opRankK, fs.dims, total, fs.cfg.MaxDenseElements, ErrResourceExhausted)
	}
	krp, err := fs.KRP(0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRankK, err)
	}
	u0, err := fs.logical(0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRankK, err)
	}
	if weights != nil {
		u0 = u0.Copy()
		var r int
		for r = range weights {
			if err = u0.ScaleColumn(r, weights[r]); err != nil {
				return nil, fmt.Errorf("%s: %w", opRankK, err)
			}
		}
	}
	krpT, err := matrix.Transpose(krp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRankK, err)
	}
	flat, err := matrix.Mul(u0, krpT) // d₀ × ∏_{i>0} d_i
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRankK, err)
	}
	fs.log.Debug("rank-k reconstruction",
		slog.Any("dims", fs.dims),
		slog.Int("rank", fs.k),
		slog.Bool("weighted", weights != nil))

	return tensor.FromMatrixData(fs.dims, flat)
}

// MTTKRP returns X₍ₙ₎·KRP(n) (d_n×k), the matricised-tensor times Khatri-Rao
// product, streaming x in storage order. Neither the unfolding nor the
// Khatri-Rao product is formed.
//
// Errors: ErrNilInput, ErrReleased, ErrOutOfRange, ErrDimensionMismatch
// (x dims differ from the set's).
func (fs *FactorSet) MTTKRP(x *tensor.Dense, n int) (*matrix.Dense, error) {
	if err := fs.checkMode(opMTTKRP, n); err != nil {
		return nil, err
	}
	if x == nil {
		return nil, fmt.Errorf("%s(%d): %w", opMTTKRP, n, ErrNilInput)
	}
	if !equalDims(x.Dims(), fs.dims) {
		return nil, fmt.Errorf("%s(%d): tensor %v vs factors %v: %w", opMTTKRP, n, x.Dims(), fs.dims, ErrDimensionMismatch)
	}
	views := make([]*matrix.Dense, len(fs.dims))
	var (
		i   int
		err error
	)
	for i = range fs.dims {
		if views[i], err = fs.logical(i); err != nil {
			return nil, fmt.Errorf("%s(%d): %w", opMTTKRP, n, err)
		}
	}
	out, err := matrix.NewDense(fs.dims[n], fs.k)
	if err != nil {
		return nil, fmt.Errorf("%s(%d): %w", opMTTKRP, n, err)
	}

	idx := make([]int, len(fs.dims))
	prod := make([]float64, fs.k)
	var (
		v      float64
		urow   []float64
		outRow []float64
	)
	for _, v = range x.RawData() {
		if v != 0 {
			for i = range prod {
				prod[i] = v
			}
			for i = range views {
				if i == n {
					continue
				}
				urow, _ = views[i].RawRow(idx[i])
				floats.Mul(prod, urow)
			}
			outRow, _ = out.RawRow(idx[n])
			floats.Add(outRow, prod)
		}
		tensor.Advance(idx, fs.dims)
	}

	return out, nil
}

func equalDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	var i int
	for i = range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func maxDim(dims []int) int {
	m := 0
	var d int
	for _, d = range dims {
		m = max(m, d)
	}

	return m
}
