// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/lowrank/matrix"
	"gonum.org/v1/gonum/floats"
)

// CSC is an immutable compressed-sparse-column matrix.
type CSC struct {
	rows, cols int
	colPtr     []int     // len == cols+1
	rowIdx     []int     // len == nnz, strictly increasing per column
	values     []float64 // len == nnz
}

// Triplet is one (row, col, value) coordinate entry.
type Triplet struct {
	Row   int
	Col   int
	Value float64
}

// NewCSC validates and copies raw compressed-column arrays.
//
// Errors:
//   - ErrInvalidDimensions when rows<=0 or cols<=0.
//   - ErrMalformed for inconsistent arrays.
//   - ErrOutOfRange for a row index outside [0,rows).
//   - ErrNaNInf for non-finite values.
//
// Complexity: O(cols + nnz).
func NewCSC(rows, cols int, colPtr, rowIdx []int, values []float64) (*CSC, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(colPtr) != cols+1 || len(rowIdx) != len(values) {
		return nil, fmt.Errorf("NewCSC: array lengths: %w", ErrMalformed)
	}
	if colPtr[0] != 0 || colPtr[cols] != len(values) {
		return nil, fmt.Errorf("NewCSC: column pointer bounds: %w", ErrMalformed)
	}
	var j, p int
	for j = 0; j < cols; j++ {
		if colPtr[j] > colPtr[j+1] {
			return nil, fmt.Errorf("NewCSC: column %d pointer decreases: %w", j, ErrMalformed)
		}
		for p = colPtr[j]; p < colPtr[j+1]; p++ {
			if rowIdx[p] < 0 || rowIdx[p] >= rows {
				return nil, fmt.Errorf("NewCSC: row %d in column %d: %w", rowIdx[p], j, ErrOutOfRange)
			}
			if p > colPtr[j] && rowIdx[p] <= rowIdx[p-1] {
				return nil, fmt.Errorf("NewCSC: column %d rows not strictly increasing: %w", j, ErrMalformed)
			}
			if math.IsNaN(values[p]) || math.IsInf(values[p], 0) {
				return nil, fmt.Errorf("NewCSC: (%d,%d): %w", rowIdx[p], j, ErrNaNInf)
			}
		}
	}

	return &CSC{
		rows:   rows,
		cols:   cols,
		colPtr: append([]int(nil), colPtr...),
		rowIdx: append([]int(nil), rowIdx...),
		values: append([]float64(nil), values...),
	}, nil
}

// FromTriplets builds a CSC matrix from coordinate entries.
// Duplicated coordinates are summed; entries summing to exactly zero are dropped.
// Input order does not matter.
//
// Complexity: O(nnz log nnz).
func FromTriplets(rows, cols int, entries []Triplet) (*CSC, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	ts := append([]Triplet(nil), entries...)
	var t Triplet
	for _, t = range ts {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("FromTriplets: (%d,%d): %w", t.Row, t.Col, ErrOutOfRange)
		}
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			return nil, fmt.Errorf("FromTriplets: (%d,%d): %w", t.Row, t.Col, ErrNaNInf)
		}
	}
	sort.Slice(ts, func(a, b int) bool {
		if ts[a].Col != ts[b].Col {
			return ts[a].Col < ts[b].Col
		}
		return ts[a].Row < ts[b].Row
	})

	colPtr := make([]int, cols+1)
	rowIdx := make([]int, 0, len(ts))
	values := make([]float64, 0, len(ts))
	var i, last int
	for i = 0; i < len(ts); {
		t = ts[i]
		sum := t.Value
		for i++; i < len(ts) && ts[i].Col == t.Col && ts[i].Row == t.Row; i++ {
			sum += ts[i].Value
		}
		if sum == 0 {
			continue
		}
		rowIdx = append(rowIdx, t.Row)
		values = append(values, sum)
		colPtr[t.Col+1]++
	}
	// Prefix-sum the per-column counts into pointers.
	for last = 0; last < cols; last++ {
		colPtr[last+1] += colPtr[last]
	}

	return &CSC{rows: rows, cols: cols, colPtr: colPtr, rowIdx: rowIdx, values: values}, nil
}

// FromDense compresses the non-zero entries of d.
// Complexity: O(r*c).
func FromDense(d *matrix.Dense) (*CSC, error) {
	if err := matrix.ValidateNotNil(d); err != nil {
		return nil, fmt.Errorf("FromDense: %w", err)
	}
	rows, cols := d.Shape()
	colPtr := make([]int, cols+1)
	rowIdx := make([]int, 0)
	values := make([]float64, 0)
	var i, j int
	var v float64
	for j = 0; j < cols; j++ {
		for i = 0; i < rows; i++ {
			v, _ = d.At(i, j) // in range by construction
			if v != 0 {
				rowIdx = append(rowIdx, i)
				values = append(values, v)
			}
		}
		colPtr[j+1] = len(values)
	}

	return &CSC{rows: rows, cols: cols, colPtr: colPtr, rowIdx: rowIdx, values: values}, nil
}

// Rows returns the row count.
func (s *CSC) Rows() int { return s.rows }

// Cols returns the column count.
func (s *CSC) Cols() int { return s.cols }

// NNZ returns the number of stored entries.
func (s *CSC) NNZ() int { return len(s.values) }

// Density returns NNZ/(rows*cols).
func (s *CSC) Density() float64 {
	return float64(len(s.values)) / (float64(s.rows) * float64(s.cols))
}

// FrobeniusNorm returns √(Σ v²) over stored entries.
func (s *CSC) FrobeniusNorm() float64 {
	return floats.Norm(s.values, 2)
}

// Column returns the row indices and values of column j.
// Both slices share the matrix storage and must not be modified.
// An out-of-range j yields empty slices.
func (s *CSC) Column(j int) (rows []int, vals []float64) {
	if j < 0 || j >= s.cols {
		return nil, nil
	}
	lo, hi := s.colPtr[j], s.colPtr[j+1]

	return s.rowIdx[lo:hi:hi], s.values[lo:hi:hi]
}

// Do visits every stored entry in column-major order as (col, row, value).
// Stops early when f returns false.
func (s *CSC) Do(f func(col, row int, v float64) bool) {
	var j, p int
	for j = 0; j < s.cols; j++ {
		for p = s.colPtr[j]; p < s.colPtr[j+1]; p++ {
			if !f(j, s.rowIdx[p], s.values[p]) {
				return
			}
		}
	}
}

// At returns the value at (i, j); absent entries read as zero.
// Complexity: O(log nnz(col j)).
func (s *CSC) At(i, j int) (float64, error) {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		return 0, fmt.Errorf("CSC.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	rows, vals := s.Column(j)
	k := sort.SearchInts(rows, i)
	if k < len(rows) && rows[k] == i {
		return vals[k], nil
	}

	return 0, nil
}

// ToDense expands the matrix into a fresh *matrix.Dense.
func (s *CSC) ToDense() (*matrix.Dense, error) {
	d, err := matrix.NewDense(s.rows, s.cols)
	if err != nil {
		return nil, err
	}
	s.Do(func(col, row int, v float64) bool {
		err = d.Set(row, col, v)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Transpose returns Sᵀ as a new CSC matrix (a CSR view of S, re-labelled).
// Complexity: O(rows + cols + nnz).
func (s *CSC) Transpose() *CSC {
	colPtr := make([]int, s.rows+1)
	var p int
	for p = range s.rowIdx {
		colPtr[s.rowIdx[p]+1]++
	}
	var i int
	for i = 0; i < s.rows; i++ {
		colPtr[i+1] += colPtr[i]
	}
	next := append([]int(nil), colPtr[:s.rows]...)
	rowIdx := make([]int, len(s.values))
	values := make([]float64, len(s.values))
	// Visiting columns in increasing order keeps row indices sorted in the result.
	s.Do(func(col, row int, v float64) bool {
		q := next[row]
		rowIdx[q] = col
		values[q] = v
		next[row]++
		return true
	})

	return &CSC{rows: s.cols, cols: s.rows, colPtr: colPtr, rowIdx: rowIdx, values: values}
}

// MulDense returns S·B for a dense B with B.Rows()==S.Cols().
// Complexity: O(nnz * B.Cols()).
func (s *CSC) MulDense(b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(b); err != nil {
		return nil, fmt.Errorf("CSC.MulDense: %w", err)
	}
	if b.Rows() != s.cols {
		return nil, fmt.Errorf("CSC.MulDense: %dx%d · %dx%d: %w", s.rows, s.cols, b.Rows(), b.Cols(), ErrDimensionMismatch)
	}
	out, err := matrix.NewDense(s.rows, b.Cols())
	if err != nil {
		return nil, err
	}
	var (
		j, p   int
		bRow   []float64
		outRow []float64
		rows   []int
		vals   []float64
	)
	for j = 0; j < s.cols; j++ {
		bRow, _ = b.RawRow(j)
		rows, vals = s.Column(j)
		for p = range rows {
			outRow, _ = out.RawRow(rows[p])
			floats.AddScaled(outRow, vals[p], bRow)
		}
	}

	return out, nil
}

// MulTransDense returns Sᵀ·B for a dense B with B.Rows()==S.Rows(), without
// forming Sᵀ: row j of the result is Σ_p S[row_p, j]·B[row_p, :].
// Complexity: O(nnz * B.Cols()).
func (s *CSC) MulTransDense(b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(b); err != nil {
		return nil, fmt.Errorf("CSC.MulTransDense: %w", err)
	}
	if b.Rows() != s.rows {
		return nil, fmt.Errorf("CSC.MulTransDense: (%dx%d)ᵀ · %dx%d: %w", s.rows, s.cols, b.Rows(), b.Cols(), ErrDimensionMismatch)
	}
	out, err := matrix.NewDense(s.cols, b.Cols())
	if err != nil {
		return nil, err
	}
	var (
		j, p   int
		bRow   []float64
		outRow []float64
		rows   []int
		vals   []float64
	)
	for j = 0; j < s.cols; j++ {
		outRow, _ = out.RawRow(j)
		rows, vals = s.Column(j)
		for p = range rows {
			bRow, _ = b.RawRow(rows[p])
			floats.AddScaled(outRow, vals[p], bRow)
		}
	}

	return out, nil
}
