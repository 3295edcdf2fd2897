// SPDX-License-Identifier: MIT

package ntf

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/lowrank/config"
	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/tensor"
	"gonum.org/v1/gonum/floats"
)

// Operation tags for error wrapping.
const (
	opNew        = "ntf.New"
	opFactor     = "ntf.Factor"
	opSet        = "ntf.Set"
	opNormalize  = "ntf.Normalize"
	opTrans      = "ntf.Trans"
	opGram       = "ntf.Gram"
	opGramLOO    = "ntf.GramLeaveOutOne"
	opKRP        = "ntf.KRPLeaveOutOne"
	opRankK      = "ntf.RankKTensor"
	opMTTKRP     = "ntf.MTTKRP"
	opComponents = "ntf.ComponentWeights"
)

// FactorSet is the set of mode factors of a rank-k CP model.
type FactorSet struct {
	dims       []int
	k          int
	transposed bool
	factors    []*matrix.Dense // stored layout: d_i×k, or k×d_i when transposed
	lambda     *matrix.Dense   // N×k column norms
	cfg        config.Config
	log        *slog.Logger
	released   bool
}

// New allocates N = len(dims) factors with entries drawn uniformly from
// (0, 1] and sets lambda to all ones.
//
// Errors: ErrInvalidOrder, ErrInvalidDimensions, ErrInvalidRank,
// ErrInvalidConfig, ErrResourceExhausted (∏ dims overflows int).
func New(dims []int, k int, opts ...Option) (*FactorSet, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	if len(dims) < 2 {
		return nil, fmt.Errorf("%s(%v): %w", opNew, dims, ErrInvalidOrder)
	}
	if _, err = tensor.Numel(dims); err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%s(k=%d): %w", opNew, k, ErrInvalidRank)
	}
	rng := o.rng
	if rng == nil {
		rng = matrix.NewRand(o.cfg.Seed)
	}
	fs := &FactorSet{
		dims:       append([]int(nil), dims...),
		k:          k,
		transposed: o.transposed,
		factors:    make([]*matrix.Dense, len(dims)),
		cfg:        o.cfg,
		log:        o.logger,
	}
	var i, r, c int
	for i = range dims {
		r, c = fs.storedShape(i)
		if fs.factors[i], err = matrix.NewRandomPositive(r, c, rng); err != nil {
			return nil, fmt.Errorf("%s: mode %d: %w", opNew, i, err)
		}
	}
	if fs.lambda, err = matrix.NewOnes(len(dims), k); err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}

	return fs, nil
}

// storedShape returns the storage shape of mode i.
func (fs *FactorSet) storedShape(i int) (rows, cols int) {
	if fs.transposed {
		return fs.k, fs.dims[i]
	}

	return fs.dims[i], fs.k
}

// Order returns N.
func (fs *FactorSet) Order() int { return len(fs.dims) }

// Rank returns k.
func (fs *FactorSet) Rank() int { return fs.k }

// Dims returns a copy of the dimension vector.
func (fs *FactorSet) Dims() []int { return append([]int(nil), fs.dims...) }

// Transposed reports whether factors are stored k×d_i.
func (fs *FactorSet) Transposed() bool { return fs.transposed }

// Released reports whether Release has run.
func (fs *FactorSet) Released() bool { return fs.released }

func (fs *FactorSet) checkMode(op string, i int) error {
	if fs.released {
		return fmt.Errorf("%s: %w", op, ErrReleased)
	}
	if i < 0 || i >= len(fs.dims) {
		return fmt.Errorf("%s(%d): order %d: %w", op, i, len(fs.dims), ErrOutOfRange)
	}

	return nil
}

// Factor returns the live factor of mode i in its stored layout.
// Errors: ErrOutOfRange, ErrReleased.
func (fs *FactorSet) Factor(i int) (*matrix.Dense, error) {
	if err := fs.checkMode(opFactor, i); err != nil {
		return nil, err
	}

	return fs.factors[i], nil
}

// Set replaces mode i with a copy of m. Only the element count is checked; a
// replacement of another shape is re-read row-major into the stored layout.
// On error the current factor is left untouched.
//
// Errors: ErrNilInput, ErrOutOfRange, ErrReleased, ErrSizeMismatch.
func (fs *FactorSet) Set(i int, m *matrix.Dense) error {
	if err := fs.checkMode(opSet, i); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%s(%d): %w", opSet, i, ErrNilInput)
	}
	cur := fs.factors[i]
	if m.Len() != cur.Len() {
		return fmt.Errorf("%s(%d): %d elements, want %d: %w", opSet, i, m.Len(), cur.Len(), ErrSizeMismatch)
	}
	next := m.Copy()
	if next.Rows() != cur.Rows() {
		reshaped, err := next.Reshape(cur.Rows(), cur.Cols())
		if err != nil {
			return fmt.Errorf("%s(%d): %w", opSet, i, err)
		}
		next = reshaped
	}
	fs.factors[i] = next

	return nil
}

// logical returns mode i as a d_i×k matrix: the live factor in the default
// layout, a transposed copy otherwise.
func (fs *FactorSet) logical(i int) (*matrix.Dense, error) {
	if !fs.transposed {
		return fs.factors[i], nil
	}

	return matrix.Transpose(fs.factors[i])
}

// Normalize scales every rank column of mode i to unit Euclidean norm and
// stores the norms in row i of lambda. A zero column keeps lambda 0 and is
// left unchanged.
func (fs *FactorSet) Normalize(mode int) error {
	if err := fs.checkMode(opNormalize, mode); err != nil {
		return err
	}
	u := fs.factors[mode]
	lrow, _ := fs.lambda.RawRow(mode)
	var (
		r    int
		norm float64
		err  error
		row  []float64
	)
	for r = 0; r < fs.k; r++ {
		if fs.transposed {
			row, _ = u.RawRow(r)
			norm = floats.Norm(row, 2)
		} else if norm, err = u.ColumnNorm(r); err != nil {
			return fmt.Errorf("%s(%d): %w", opNormalize, mode, err)
		}
		lrow[r] = norm
		if norm == 0 {
			continue
		}
		if fs.transposed {
			floats.Scale(1/norm, row)
		} else if err = u.ScaleColumn(r, 1/norm); err != nil {
			return fmt.Errorf("%s(%d): %w", opNormalize, mode, err)
		}
	}

	return nil
}

// NormalizeAll normalises every mode.
func (fs *FactorSet) NormalizeAll() error {
	var i int
	for i = range fs.dims {
		if err := fs.Normalize(i); err != nil {
			return err
		}
	}

	return nil
}

// Lambda returns a copy of the N×k norm matrix, or nil after Release.
func (fs *FactorSet) Lambda() *matrix.Dense {
	if fs.released {
		return nil
	}

	return fs.lambda.Copy()
}

// ComponentWeights returns λ_r = ∏_i lambda(i, r) for each rank column.
func (fs *FactorSet) ComponentWeights() ([]float64, error) {
	if fs.released {
		return nil, fmt.Errorf("%s: %w", opComponents, ErrReleased)
	}
	w := make([]float64, fs.k)
	floats.AddConst(1, w)
	var i int
	var row []float64
	for i = range fs.dims {
		row, _ = fs.lambda.RawRow(i)
		floats.Mul(w, row)
	}

	return w, nil
}

// Trans writes the transpose of every factor into out via out.Set.
// out must have the same order and rank; it is typically built with the
// opposite layout.
//
// Errors: ErrNilInput, ErrReleased, ErrDimensionMismatch, ErrSizeMismatch.
func (fs *FactorSet) Trans(out *FactorSet) error {
	if fs.released {
		return fmt.Errorf("%s: %w", opTrans, ErrReleased)
	}
	if out == nil {
		return fmt.Errorf("%s: %w", opTrans, ErrNilInput)
	}
	if out.Order() != fs.Order() || out.Rank() != fs.k {
		return fmt.Errorf("%s: order/rank %d/%d vs %d/%d: %w",
			opTrans, out.Order(), out.Rank(), fs.Order(), fs.k, ErrDimensionMismatch)
	}
	var (
		i   int
		t   *matrix.Dense
		err error
	)
	for i = range fs.factors {
		if t, err = matrix.Transpose(fs.factors[i]); err != nil {
			return fmt.Errorf("%s: mode %d: %w", opTrans, i, err)
		}
		if err = out.Set(i, t); err != nil {
			return fmt.Errorf("%s: %w", opTrans, err)
		}
	}

	return nil
}

// String summarises the set: order, rank, dims, layout and component weights.
func (fs *FactorSet) String() string {
	if fs.released {
		return "FactorSet(released)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "FactorSet(order=%d, rank=%d, dims=%v, transposed=%t)\n",
		len(fs.dims), fs.k, fs.dims, fs.transposed)
	w, _ := fs.ComponentWeights()
	fmt.Fprintf(&b, "lambda=%v\n", w)

	return b.String()
}

// Release drops the factors and lambda. Idempotent.
func (fs *FactorSet) Release() {
	if fs.released {
		return
	}
	fs.factors, fs.lambda = nil, nil
	fs.released = true
}
