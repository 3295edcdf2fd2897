// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lowrank/matrix"
	"gonum.org/v1/gonum/floats"
)

// Dense is a column-major order-N tensor.
type Dense struct {
	dims    []int
	strides []int // strides[0]==1, strides[i]==strides[i-1]*dims[i-1]
	data    []float64
}

// Numel returns ∏ dims, guarding against non-positive extents and int overflow.
//
// Errors:
//   - ErrInvalidDimensions, ErrResourceExhausted (overflow).
func Numel(dims []int) (int, error) {
	if len(dims) == 0 {
		return 0, ErrInvalidDimensions
	}
	n := 1
	var d int
	for _, d = range dims {
		if d <= 0 {
			return 0, fmt.Errorf("Numel(%v): %w", dims, ErrInvalidDimensions)
		}
		if n > math.MaxInt/d {
			return 0, fmt.Errorf("Numel(%v): %w", dims, ErrResourceExhausted)
		}
		n *= d
	}

	return n, nil
}

// New allocates a zero tensor with the given dimension vector.
// Complexity: O(∏ dims).
func New(dims []int) (*Dense, error) {
	n, err := Numel(dims)
	if err != nil {
		return nil, err
	}

	return newWithData(dims, make([]float64, n)), nil
}

// FromData builds a tensor from column-major values (copied).
// Errors: ErrInvalidDimensions, ErrResourceExhausted, ErrDimensionMismatch (len(data) != ∏ dims).
func FromData(dims []int, data []float64) (*Dense, error) {
	n, err := Numel(dims)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("FromData(%v): len=%d: %w", dims, len(data), ErrDimensionMismatch)
	}

	return newWithData(dims, append([]float64(nil), data...)), nil
}

// newWithData adopts data (no copy); the caller guarantees len(data)==∏ dims.
func newWithData(dims []int, data []float64) *Dense {
	d := append([]int(nil), dims...)
	strides := make([]int, len(d))
	s := 1
	var i int
	for i = range d {
		strides[i] = s
		s *= d[i]
	}

	return &Dense{dims: d, strides: strides, data: data}
}

// FromMatrixData reshapes the column-major contents of an (d₀ × ∏_{i>0} d_i)
// matrix into a tensor. Used to turn U₀·KRPᵀ into the reconstructed tensor.
func FromMatrixData(dims []int, m *matrix.Dense) (*Dense, error) {
	n, err := Numel(dims)
	if err != nil {
		return nil, err
	}
	if err = matrix.ValidateShape(m, dims[0], n/dims[0]); err != nil {
		return nil, fmt.Errorf("FromMatrixData(%v): %w", dims, err)
	}
	// Row-major (i, p) → column-major offset i + d₀·p.
	rows, cols := m.Shape()
	data := make([]float64, n)
	var i, p int
	var row []float64
	for i = 0; i < rows; i++ {
		row, _ = m.RawRow(i)
		for p = 0; p < cols; p++ {
			data[i+rows*p] = row[p]
		}
	}

	return newWithData(dims, data), nil
}

// Dims returns a copy of the dimension vector.
func (t *Dense) Dims() []int { return append([]int(nil), t.dims...) }

// Order returns N, the number of modes.
func (t *Dense) Order() int { return len(t.dims) }

// Len returns the total element count.
func (t *Dense) Len() int { return len(t.data) }

// RawData returns the column-major buffer (shared, not copied).
func (t *Dense) RawData() []float64 { return t.data }

// Offset maps a multi-index to its column-major offset.
// Errors: ErrDimensionMismatch (wrong index arity), ErrOutOfRange.
func (t *Dense) Offset(idx ...int) (int, error) {
	if len(idx) != len(t.dims) {
		return 0, fmt.Errorf("Offset: %d indices for order %d: %w", len(idx), len(t.dims), ErrDimensionMismatch)
	}
	off := 0
	var i int
	for i = range idx {
		if idx[i] < 0 || idx[i] >= t.dims[i] {
			return 0, fmt.Errorf("Offset%v: mode %d: %w", idx, i, ErrOutOfRange)
		}
		off += idx[i] * t.strides[i]
	}

	return off, nil
}

// At returns the element at the multi-index.
func (t *Dense) At(idx ...int) (float64, error) {
	off, err := t.Offset(idx...)
	if err != nil {
		return 0, err
	}

	return t.data[off], nil
}

// Set stores v at the multi-index.
func (t *Dense) Set(v float64, idx ...int) error {
	off, err := t.Offset(idx...)
	if err != nil {
		return err
	}
	t.data[off] = v

	return nil
}

// FrobeniusNorm returns √(Σ x²).
func (t *Dense) FrobeniusNorm() float64 { return floats.Norm(t.data, 2) }

// Clone returns a deep copy.
func (t *Dense) Clone() *Dense {
	return newWithData(t.dims, append([]float64(nil), t.data...))
}

// Unfold returns the mode-n matricization X₍ₙ₎ with shape d_n × ∏_{i≠n} d_i.
// Column index of element (i₀,…,i_{N−1}) is the column-major offset of the
// remaining indices with the lowest mode varying fastest (Kolda & Bader).
//
// Complexity: O(∏ dims).
func (t *Dense) Unfold(n int) (*matrix.Dense, error) {
	if n < 0 || n >= len(t.dims) {
		return nil, fmt.Errorf("Unfold(%d): %w", n, ErrOutOfRange)
	}
	dn := t.dims[n]
	cols := len(t.data) / dn
	out, err := matrix.NewDense(dn, cols)
	if err != nil {
		return nil, err
	}
	raw := out.RawData()
	// Walk the buffer in storage order with an odometer over the multi-index.
	idx := make([]int, len(t.dims))
	var off, m, col, stride int
	for off = 0; off < len(t.data); off++ {
		col, stride = 0, 1
		for m = range t.dims {
			if m == n {
				continue
			}
			col += idx[m] * stride
			stride *= t.dims[m]
		}
		raw[idx[n]*cols+col] = t.data[off]
		Advance(idx, t.dims)
	}

	return out, nil
}

// Advance increments a column-major multi-index odometer in place (mode 0
// fastest), wrapping to all zeros after the last element. Kernels use it to
// stream a tensor in storage order while tracking the multi-index.
func Advance(idx, dims []int) {
	var m int
	for m = range idx {
		idx[m]++
		if idx[m] < dims[m] {
			return
		}
		idx[m] = 0
	}
}
