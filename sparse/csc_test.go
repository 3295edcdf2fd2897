// SPDX-License-Identifier: MIT

package sparse_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/sparse"
	"github.com/stretchr/testify/require"
)

// fixture is the 3×4 matrix
//
//	[1 0 0 2]
//	[0 0 3 0]
//	[4 0 5 0]
func fixture(t *testing.T) *sparse.CSC {
	t.Helper()
	s, err := sparse.NewCSC(3, 4,
		[]int{0, 2, 2, 4, 5},
		[]int{0, 2, 1, 2, 0},
		[]float64{1, 4, 3, 5, 2})
	require.NoError(t, err)

	return s
}

func TestCSCBasics(t *testing.T) {
	s := fixture(t)
	require.Equal(t, 3, s.Rows())
	require.Equal(t, 4, s.Cols())
	require.Equal(t, 5, s.NNZ())
	require.InDelta(t, 5.0/12, s.Density(), 1e-15)
	require.InDelta(t, math.Sqrt(1+16+9+25+4), s.FrobeniusNorm(), 1e-12)

	rows, vals := s.Column(2)
	require.Equal(t, []int{1, 2}, rows)
	require.Equal(t, []float64{3, 5}, vals)
	rows, vals = s.Column(1)
	require.Empty(t, rows)
	require.Empty(t, vals)
	rows, _ = s.Column(9)
	require.Nil(t, rows)

	v, err := s.At(2, 2)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)
	v, err = s.At(1, 0)
	require.NoError(t, err)
	require.Zero(t, v)
	_, err = s.At(3, 0)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)
}

func TestNewCSCValidation(t *testing.T) {
	cases := []struct {
		name   string
		colPtr []int
		rowIdx []int
		values []float64
		want   error
	}{
		{"short colPtr", []int{0, 1}, []int{0}, []float64{1}, sparse.ErrMalformed},
		{"bad last pointer", []int{0, 1, 2}, []int{0}, []float64{1}, sparse.ErrMalformed},
		{"decreasing pointer", []int{0, 2, 1}, []int{0, 1}, []float64{1, 2}, sparse.ErrMalformed},
		{"row out of range", []int{0, 1, 1}, []int{3}, []float64{1}, sparse.ErrOutOfRange},
		{"unsorted rows", []int{0, 2, 2}, []int{1, 0}, []float64{1, 2}, sparse.ErrMalformed},
		{"nan", []int{0, 1, 1}, []int{0}, []float64{math.NaN()}, sparse.ErrNaNInf},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sparse.NewCSC(2, 2, tc.colPtr, tc.rowIdx, tc.values)
			require.ErrorIs(t, err, tc.want)
		})
	}
	_, err := sparse.NewCSC(0, 2, nil, nil, nil)
	require.ErrorIs(t, err, sparse.ErrInvalidDimensions)
}

func TestFromTriplets(t *testing.T) {
	s, err := sparse.FromTriplets(3, 4, []sparse.Triplet{
		{Row: 2, Col: 2, Value: 5},
		{Row: 0, Col: 3, Value: 2},
		{Row: 2, Col: 0, Value: 1},
		{Row: 2, Col: 0, Value: 3}, // summed with the entry above
		{Row: 0, Col: 0, Value: 1},
		{Row: 1, Col: 2, Value: 3},
		{Row: 1, Col: 1, Value: 2},
		{Row: 1, Col: 1, Value: -2}, // cancels out
	})
	require.NoError(t, err)
	want := fixture(t)

	a, err := s.ToDense()
	require.NoError(t, err)
	b, err := want.ToDense()
	require.NoError(t, err)
	require.Equal(t, b.RawData(), a.RawData())
	require.Equal(t, 5, s.NNZ())

	_, err = sparse.FromTriplets(3, 4, []sparse.Triplet{{Row: 3, Col: 0, Value: 1}})
	require.ErrorIs(t, err, sparse.ErrOutOfRange)
	_, err = sparse.FromTriplets(3, 4, []sparse.Triplet{{Row: 0, Col: 0, Value: math.Inf(-1)}})
	require.ErrorIs(t, err, sparse.ErrNaNInf)
}

func TestFromDenseRoundTrip(t *testing.T) {
	d, err := matrix.NewDenseFrom(2, 3, []float64{0, 1, 0, 2, 0, 3})
	require.NoError(t, err)
	s, err := sparse.FromDense(d)
	require.NoError(t, err)
	require.Equal(t, 3, s.NNZ())

	back, err := s.ToDense()
	require.NoError(t, err)
	require.Equal(t, d.RawData(), back.RawData())

	_, err = sparse.FromDense(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestDoVisitsColumnMajor(t *testing.T) {
	s := fixture(t)
	var got [][3]float64
	s.Do(func(col, row int, v float64) bool {
		got = append(got, [3]float64{float64(col), float64(row), v})
		return true
	})
	require.Equal(t, [][3]float64{{0, 0, 1}, {0, 2, 4}, {2, 1, 3}, {2, 2, 5}, {3, 0, 2}}, got)

	var n int
	s.Do(func(int, int, float64) bool {
		n++
		return false
	})
	require.Equal(t, 1, n)
}

func TestTranspose(t *testing.T) {
	s := fixture(t)
	st := s.Transpose()
	require.Equal(t, 4, st.Rows())
	require.Equal(t, 3, st.Cols())

	d, err := s.ToDense()
	require.NoError(t, err)
	dt, err := matrix.Transpose(d)
	require.NoError(t, err)
	got, err := st.ToDense()
	require.NoError(t, err)
	require.Equal(t, dt.RawData(), got.RawData())

	rows, _ := st.Column(2)
	require.Equal(t, []int{0, 2}, rows, "row indices stay sorted")
}

func TestMulDense(t *testing.T) {
	s := fixture(t)
	d, err := s.ToDense()
	require.NoError(t, err)
	b, err := matrix.NewDenseFrom(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	got, err := s.MulDense(b)
	require.NoError(t, err)
	want, err := matrix.Mul(d, b)
	require.NoError(t, err)
	require.Equal(t, want.RawData(), got.RawData())

	c, err := matrix.NewDenseFrom(3, 2, []float64{1, 0, 2, 1, 0, 3})
	require.NoError(t, err)
	gotT, err := s.MulTransDense(c)
	require.NoError(t, err)
	wantT, err := matrix.MulTransA(d, c)
	require.NoError(t, err)
	require.Equal(t, wantT.RawData(), gotT.RawData())

	_, err = s.MulDense(c)
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)
	_, err = s.MulTransDense(b)
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)
}
