// SPDX-License-Identifier: MIT

package stats_test

import (
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/lowrank/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestNewTableSizing verifies budget+1 rows with iteration numbers pre-filled.
func TestNewTableSizing(t *testing.T) {
	tb, err := stats.NewTable(3)
	require.NoError(t, err)
	require.Equal(t, 4, tb.Len())
	require.False(t, tb.Touched())

	rows := tb.Rows()
	for i, r := range rows {
		require.Equal(t, i, r.Iteration)
		require.Zero(t, r.ObjectiveError)
	}

	_, err = stats.NewTable(-1)
	require.ErrorIs(t, err, stats.ErrInvalidBudget)
}

// TestWritesAndBounds covers measures, timings and out-of-range iterations.
func TestWritesAndBounds(t *testing.T) {
	tb, err := stats.NewTable(2)
	require.NoError(t, err)

	require.NoError(t, tb.SetTimings(1, 2*time.Second, 3*time.Second))
	require.NoError(t, tb.SetMeasures(1, stats.Measures{NormW: 1.5, NormH: 2.5, DensityW: 1, DensityH: 0.5, ObjectiveError: 0.25}))

	r, err := tb.Row(1)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, r.TotalTime)
	require.Equal(t, 1.5, r.NormW)
	require.Equal(t, 0.25, r.ObjectiveError)
	require.True(t, tb.Written(1))
	require.False(t, tb.Written(0))

	last, ok := tb.Last()
	require.True(t, ok)
	require.Equal(t, 1, last.Iteration)

	require.ErrorIs(t, tb.SetMeasures(3, stats.Measures{}), stats.ErrOutOfRange)
	require.ErrorIs(t, tb.SetTimings(-1, 0, 0), stats.ErrOutOfRange)
	_, err = tb.Row(7)
	require.ErrorIs(t, err, stats.ErrOutOfRange)
}

// TestAsMatrixColumns checks the column order of the matrix form.
func TestAsMatrixColumns(t *testing.T) {
	tb, err := stats.NewTable(1)
	require.NoError(t, err)
	require.NoError(t, tb.SetTimings(1, time.Second, 2*time.Second))
	require.NoError(t, tb.SetMeasures(1, stats.Measures{NormH: 4, NormW: 5, DensityH: 0.6, DensityW: 0.7, ObjectiveError: 0.8}))

	m, err := tb.AsMatrix()
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, stats.NumColumns, m.Cols())

	row, err := m.RawRow(1)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 2, 3, 4, 5, 0.6, 0.7, 0.8}, row)
}

// TestReleaseIdempotent ensures Release can be repeated and disables access.
func TestReleaseIdempotent(t *testing.T) {
	tb, err := stats.NewTable(1)
	require.NoError(t, err)
	tb.Release()
	tb.Release()

	require.Zero(t, tb.Len())
	require.ErrorIs(t, tb.SetMeasures(0, stats.Measures{}), stats.ErrReleased)
	_, err = tb.AsMatrix()
	require.ErrorIs(t, err, stats.ErrReleased)
	_, ok := tb.Last()
	require.False(t, ok)
}

// TestCollector exports the latest row and nothing before the first write.
func TestCollector(t *testing.T) {
	tb, err := stats.NewTable(4)
	require.NoError(t, err)
	c := stats.NewCollector(tb, "lowrank", prometheus.Labels{"run": "unit"})

	require.Equal(t, 0, testutil.CollectAndCount(c))

	require.NoError(t, tb.SetMeasures(0, stats.Measures{ObjectiveError: 9}))
	require.NoError(t, tb.SetMeasures(2, stats.Measures{ObjectiveError: 0.5, NormW: 1, NormH: 2}))
	require.Equal(t, 8, testutil.CollectAndCount(c))

	expected := `
# HELP lowrank_objective_error Frobenius reconstruction error at the latest recorded iteration.
# TYPE lowrank_objective_error gauge
lowrank_objective_error{run="unit"} 0.5
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "lowrank_objective_error"))
}
