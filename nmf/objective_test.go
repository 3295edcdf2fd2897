// SPDX-License-Identifier: MIT

package nmf_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/nmf"
	"github.com/katalvlaran/lowrank/sparse"
	"github.com/stretchr/testify/require"
)

// bruteForceError forms W·Hᵀ explicitly and returns ‖A − WHᵀ‖_F.
func bruteForceError(t *testing.T, a, w, h *matrix.Dense) float64 {
	t.Helper()
	ht, err := matrix.Transpose(h)
	require.NoError(t, err)
	wh, err := matrix.Mul(w, ht)
	require.NoError(t, err)
	var sum float64
	var i, j int
	var av, mv float64
	for i = 0; i < a.Rows(); i++ {
		for j = 0; j < a.Cols(); j++ {
			av, _ = a.At(i, j)
			mv, _ = wh.At(i, j)
			sum += (av - mv) * (av - mv)
		}
	}

	return math.Sqrt(sum)
}

// sparseProblem returns a random m×n matrix with roughly the given fill.
func sparseProblem(t *testing.T, m, n int, fill float64, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	a, err := matrix.NewDense(m, n)
	require.NoError(t, err)
	var i, j int
	for i = 0; i < m; i++ {
		for j = 0; j < n; j++ {
			if rng.Float64() < fill {
				require.NoError(t, a.Set(i, j, 1+4*rng.Float64()))
			}
		}
	}

	return a
}

func TestObjectiveExactReconstruction(t *testing.T) {
	a, w, h := exactProblem(t)
	s, err := sparse.FromDense(a)
	require.NoError(t, err)

	dense, err := nmf.NewWithFactors(a, w, h)
	require.NoError(t, err)
	e, err := dense.ComputeObjectiveError()
	require.NoError(t, err)
	require.InDelta(t, 0, e, 1e-6)
	require.GreaterOrEqual(t, dense.SquaredObjectiveError(), 0.0)

	sp, err := nmf.NewWithFactors(s, w.Copy(), h.Copy())
	require.NoError(t, err)
	e, err = sp.ComputeObjectiveError()
	require.NoError(t, err)
	require.InDelta(t, 0, e, 1e-6)
	require.Equal(t, e, sp.ObjectiveError())
}

func TestObjectiveMatchesBruteForce(t *testing.T) {
	a := sparseProblem(t, 12, 9, 0.4, 3)
	fm, err := nmf.New(a, 3, nmf.WithSeed(11))
	require.NoError(t, err)

	e, err := fm.ComputeObjectiveError()
	require.NoError(t, err)
	want := bruteForceError(t, a, fm.W(), fm.H())
	require.InDelta(t, want, e, 1e-8*math.Max(1, want))
	require.InDelta(t, e*e, fm.SquaredObjectiveError(), 1e-8*math.Max(1, want*want))
}

func TestDenseAndSparseAgree(t *testing.T) {
	cases := []struct {
		name    string
		m, n, k int
		fill    float64
		workers int
	}{
		{"tall", 20, 7, 3, 0.3, 1},
		{"wide", 6, 25, 2, 0.2, 1},
		{"rank above rows", 3, 8, 5, 0.5, 1},
		{"sharded", 30, 40, 4, 0.1, 4},
		{"more workers than columns", 10, 3, 2, 0.6, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := sparseProblem(t, tc.m, tc.n, tc.fill, int64(tc.m*tc.n))
			s, err := sparse.FromDense(a)
			require.NoError(t, err)

			dense, err := nmf.New(a, tc.k, nmf.WithSeed(5))
			require.NoError(t, err)
			sp, err := nmf.New(s, tc.k, nmf.WithSeed(5), nmf.WithWorkers(tc.workers))
			require.NoError(t, err)
			require.Equal(t, dense.W().RawData(), sp.W().RawData())

			ed, err := dense.ComputeObjectiveError()
			require.NoError(t, err)
			es, err := sp.ComputeObjectiveError()
			require.NoError(t, err)
			require.InDelta(t, ed, es, 1e-8*math.Max(1, ed))
			require.InDelta(t, bruteForceError(t, a, dense.W(), dense.H()), es, 1e-8*math.Max(1, ed))
		})
	}
}

func TestSparseWorkersDeterministic(t *testing.T) {
	a := sparseProblem(t, 40, 60, 0.15, 9)
	s, err := sparse.FromDense(a)
	require.NoError(t, err)

	fm, err := nmf.New(s, 4, nmf.WithWorkers(3))
	require.NoError(t, err)
	first, err := fm.ComputeObjectiveError()
	require.NoError(t, err)
	second, err := fm.ComputeObjectiveError()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestObjectiveEmptySparseColumns(t *testing.T) {
	s, err := sparse.FromTriplets(4, 5, []sparse.Triplet{{Row: 1, Col: 2, Value: 3}})
	require.NoError(t, err)
	fm, err := nmf.New(s, 2)
	require.NoError(t, err)

	e, err := fm.ComputeObjectiveError()
	require.NoError(t, err)
	d, err := s.ToDense()
	require.NoError(t, err)
	require.InDelta(t, bruteForceError(t, d, fm.W(), fm.H()), e, 1e-9)
}

func TestObjectiveCached(t *testing.T) {
	a := sparseProblem(t, 8, 6, 0.5, 21)
	fm, err := nmf.New(a, 2, nmf.WithSeed(4))
	require.NoError(t, err)
	want, err := fm.ComputeObjectiveError()
	require.NoError(t, err)

	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	wtw, err := matrix.Gram(fm.W())
	require.NoError(t, err)
	hth, err := matrix.Gram(fm.H())
	require.NoError(t, err)

	got, err := fm.ComputeObjectiveErrorCached(at, wtw, hth)
	require.NoError(t, err)
	require.InDelta(t, want, got, 1e-9*math.Max(1, want))

	// A sparse Aᵀ gives the same value.
	st, err := sparse.FromDense(at)
	require.NoError(t, err)
	got, err = fm.ComputeObjectiveErrorCached(st, wtw, hth)
	require.NoError(t, err)
	require.InDelta(t, want, got, 1e-9*math.Max(1, want))

	// Passing A instead of Aᵀ is a shape error.
	_, err = fm.ComputeObjectiveErrorCached(a, wtw, hth)
	require.ErrorIs(t, err, nmf.ErrDimensionMismatch)

	bad, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	_, err = fm.ComputeObjectiveErrorCached(at, bad, hth)
	require.ErrorIs(t, err, nmf.ErrDimensionMismatch)
	_, err = fm.ComputeObjectiveErrorCached(at, wtw, nil)
	require.ErrorIs(t, err, nmf.ErrNilInput)
}

func TestObjectiveAfterFactorSwap(t *testing.T) {
	a, w, h := exactProblem(t)
	fm, err := nmf.NewWithFactors(a, w, h)
	require.NoError(t, err)

	// Mutating the live factor in place is seen by the next computation.
	row, err := fm.W().RawRow(0)
	require.NoError(t, err)
	row[0] += 1
	e, err := fm.ComputeObjectiveError()
	require.NoError(t, err)
	require.InDelta(t, bruteForceError(t, a, fm.W(), fm.H()), e, 1e-9)
	require.Greater(t, e, 0.0)
}
