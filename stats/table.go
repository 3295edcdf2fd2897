// SPDX-License-Identifier: MIT

// Package stats keeps the per-iteration statistics log of a factorisation run.
//
// A Table is pre-sized from the iteration budget (budget+1 rows, iteration 0
// being the initial state) and rows are addressed by iteration number. The
// solver writes timings, the factor model writes norms, densities and the
// objective error. Rows are never removed.
//
// The table is the one structure that may be read from outside the solver's
// goroutine (metrics scrapes), so it guards its rows with a RWMutex.
package stats

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/katalvlaran/lowrank/matrix"
)

// NumColumns is the width of the matrix form of a Table (see AsMatrix).
const NumColumns = 9

var (
	// ErrOutOfRange aliases the matrix sentinel for an iteration outside the table.
	ErrOutOfRange = matrix.ErrOutOfRange

	// ErrInvalidBudget is returned for a negative iteration budget.
	ErrInvalidBudget = errors.New("stats: iteration budget must be >= 0")

	// ErrReleased is returned by every accessor after Release.
	ErrReleased = errors.New("stats: table released")
)

// Row is one iteration's statistics.
type Row struct {
	Iteration      int
	HTime          time.Duration
	WTime          time.Duration
	TotalTime      time.Duration
	NormH          float64
	NormW          float64
	DensityH       float64
	DensityW       float64
	ObjectiveError float64
}

// Measures are the factor-derived columns written by CollectStats.
type Measures struct {
	NormH          float64
	NormW          float64
	DensityH       float64
	DensityW       float64
	ObjectiveError float64
}

// Table is a fixed-capacity, iteration-indexed statistics log.
type Table struct {
	mu       sync.RWMutex
	rows     []Row
	written  []bool
	last     int // highest written iteration, -1 when none
	released bool
}

// NewTable allocates numIterations+1 zeroed rows; row i has Iteration == i.
func NewTable(numIterations int) (*Table, error) {
	if numIterations < 0 {
		return nil, fmt.Errorf("NewTable(%d): %w", numIterations, ErrInvalidBudget)
	}
	rows := make([]Row, numIterations+1)
	var i int
	for i = range rows {
		rows[i].Iteration = i
	}

	return &Table{rows: rows, written: make([]bool, len(rows)), last: -1}, nil
}

// Len returns the row capacity (budget+1). Zero after Release.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.rows)
}

// Touched reports whether any row has been written.
func (t *Table) Touched() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.last >= 0
}

// check validates the receiver state and the iteration; callers hold the lock.
func (t *Table) check(op string, iteration int) error {
	if t.released {
		return fmt.Errorf("Table.%s: %w", op, ErrReleased)
	}
	if iteration < 0 || iteration >= len(t.rows) {
		return fmt.Errorf("Table.%s(%d): capacity %d: %w", op, iteration, len(t.rows), ErrOutOfRange)
	}

	return nil
}

// markLocked records a write to row i.
func (t *Table) markLocked(i int) {
	t.written[i] = true
	if i > t.last {
		t.last = i
	}
}

// SetMeasures writes the factor-derived columns of row iteration.
func (t *Table) SetMeasures(iteration int, m Measures) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.check("SetMeasures", iteration); err != nil {
		return err
	}
	r := &t.rows[iteration]
	r.NormH, r.NormW = m.NormH, m.NormW
	r.DensityH, r.DensityW = m.DensityH, m.DensityW
	r.ObjectiveError = m.ObjectiveError
	t.markLocked(iteration)

	return nil
}

// SetTimings writes the update durations of row iteration; TotalTime = h + w.
func (t *Table) SetTimings(iteration int, hTime, wTime time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.check("SetTimings", iteration); err != nil {
		return err
	}
	r := &t.rows[iteration]
	r.HTime, r.WTime, r.TotalTime = hTime, wTime, hTime+wTime
	t.markLocked(iteration)

	return nil
}

// Row returns a copy of row iteration.
func (t *Table) Row(iteration int) (Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.check("Row", iteration); err != nil {
		return Row{}, err
	}

	return t.rows[iteration], nil
}

// Written reports whether row iteration has been written.
func (t *Table) Written(iteration int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.check("Written", iteration) != nil {
		return false
	}

	return t.written[iteration]
}

// Last returns the highest-numbered written row.
func (t *Table) Last() (Row, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.released || t.last < 0 {
		return Row{}, false
	}

	return t.rows[t.last], true
}

// Rows returns a copy of all rows (written or not).
func (t *Table) Rows() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return append([]Row(nil), t.rows...)
}

// AsMatrix returns the table as a (budget+1) × 9 matrix with columns
// iteration, H-time, W-time, total-time (seconds), ‖H‖, ‖W‖, density(H),
// density(W), objective error.
func (t *Table) AsMatrix() (*matrix.Dense, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.released {
		return nil, fmt.Errorf("Table.AsMatrix: %w", ErrReleased)
	}
	m, err := matrix.NewDense(len(t.rows), NumColumns)
	if err != nil {
		return nil, err
	}
	var i int
	var row []float64
	var r Row
	for i, r = range t.rows {
		row, _ = m.RawRow(i)
		row[0] = float64(r.Iteration)
		row[1] = r.HTime.Seconds()
		row[2] = r.WTime.Seconds()
		row[3] = r.TotalTime.Seconds()
		row[4] = r.NormH
		row[5] = r.NormW
		row[6] = r.DensityH
		row[7] = r.DensityW
		row[8] = r.ObjectiveError
	}

	return m, nil
}

// Release drops the rows. Idempotent.
func (t *Table) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.rows, t.written = nil, nil
	t.last = -1
	t.released = true
}
