// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/katalvlaran/lowrank/matrix"
	"github.com/stretchr/testify/require"
)

func TestNewDenseDefaultZero(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{
		{3, 3},
		{2, 6},
	} {
		name := fmt.Sprintf("%dx%d", tc.rows, tc.cols)
		t.Run(name, func(t *testing.T) {
			m := MustDense(t, tc.rows, tc.cols)
			var i, j int
			for i = 0; i < tc.rows; i++ {
				for j = 0; j < tc.cols; j++ {
					if v := MustAt(t, m, i, j); v != 0.0 {
						t.Fatalf("element [%d,%d] of a new Dense(%dx%d) must be 0", i, j, tc.rows, tc.cols)
					}
				}
			}
		})
	}
}

func TestNewDenseErrors(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrDataLength)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestDenseAccessors(t *testing.T) {
	m := MustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)
	r, c := m.Shape()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	require.Equal(t, 6, m.Len())
	require.Equal(t, 6.0, MustAt(t, m, 1, 2))

	_, err := m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 3, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	row, err := m.RawRow(1)
	require.NoError(t, err)
	row[0] = 40 // shares storage
	require.Equal(t, 40.0, MustAt(t, m, 1, 0))
	_, err = m.RawRow(-1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	col, err := m.Column(1, nil)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 5}, col)
	_, err = m.Column(3, nil)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestDenseCopySemantics(t *testing.T) {
	m := MustFrom(t, 2, 2, 1, 2, 3, 4)
	cp := m.Copy()
	require.NoError(t, cp.Set(0, 0, 9))
	require.Equal(t, 1.0, MustAt(t, m, 0, 0))

	cl := m.Clone()
	require.Equal(t, 4.0, MustAt(t, cl, 1, 1))

	dst := MustDense(t, 2, 2)
	require.NoError(t, dst.CopyFrom(m))
	require.Equal(t, m.RawData(), dst.RawData())
	require.ErrorIs(t, dst.CopyFrom(MustDense(t, 1, 4)), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, dst.CopyFrom(nil), matrix.ErrNilMatrix)
}

func TestDenseReshape(t *testing.T) {
	m := MustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)
	r, err := m.Reshape(3, 2)
	require.NoError(t, err)
	require.Equal(t, 3.0, MustAt(t, r, 1, 0))
	require.NoError(t, r.Set(0, 0, 7))
	require.Equal(t, 7.0, MustAt(t, m, 0, 0), "reshape shares storage")

	_, err = m.Reshape(4, 2)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = m.Reshape(0, 6)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestDenseApplyAndDo(t *testing.T) {
	m := MustFrom(t, 2, 2, 1, 2, 3, 4)
	require.NoError(t, m.Apply(func(_, _ int, v float64) float64 { return v * 2 }))
	require.Equal(t, []float64{2, 4, 6, 8}, m.RawData())
	require.ErrorIs(t, m.Apply(func(_, _ int, v float64) float64 { return math.NaN() }), matrix.ErrNaNInf)

	var visited int
	m.Do(func(i, j int, v float64) bool {
		visited++
		return visited < 3
	})
	require.Equal(t, 3, visited)
	require.Equal(t, "[2, 4]\n[6, 8]\n", MustFrom(t, 2, 2, 2, 4, 6, 8).String())
}

func TestColumnKernels(t *testing.T) {
	m := MustFrom(t, 3, 2,
		3, 0,
		4, 0,
		0, -2)
	n0, err := m.ColumnNorm(0)
	require.NoError(t, err)
	require.InDelta(t, 5.0, n0, 1e-15)
	require.Equal(t, []float64{5, 2}, m.ColumnNorms())

	// Huge entries do not overflow the scaled norm.
	big := MustFrom(t, 2, 1, 1e200, 1e200)
	nb, err := big.ColumnNorm(0)
	require.NoError(t, err)
	require.InEpsilon(t, math.Sqrt2*1e200, nb, 1e-12)

	require.NoError(t, m.ScaleColumn(0, 0.2))
	require.InDelta(t, 0.6, MustAt(t, m, 0, 0), 1e-15)
	require.ErrorIs(t, m.ScaleColumn(2, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.ScaleColumn(0, math.Inf(1)), matrix.ErrNaNInf)
	_, err = m.ColumnNorm(-1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	require.Equal(t, 2, m.CountPositive())
}

func TestRandomPositive(t *testing.T) {
	a, err := matrix.NewRandomPositive(4, 3, matrix.NewRand(5))
	require.NoError(t, err)
	b, err := matrix.NewRandomPositive(4, 3, matrix.NewRand(5))
	require.NoError(t, err)
	require.Equal(t, a.RawData(), b.RawData())
	require.Equal(t, 12, a.CountPositive())

	var v float64
	for _, v = range a.RawData() {
		require.Greater(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}

	// Seed 0 selects the default seed; a nil source uses the same stream.
	c, err := matrix.NewRandomPositive(4, 3, matrix.NewRand(0))
	require.NoError(t, err)
	d, err := matrix.NewRandomPositive(4, 3, nil)
	require.NoError(t, err)
	require.Equal(t, c.RawData(), d.RawData())
}
