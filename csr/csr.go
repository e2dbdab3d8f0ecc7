// Package csr implements compressed sparse row matrices with a
// symmetric-by-convention storage mode: a symmetric matrix stores one
// triangle only and its matvec reconstructs the other on the fly.
package csr

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Matrix struct {
	NRows     int
	Values    []float64
	ColInd    []int
	RowPtr    []int
	Symmetric bool
}

type entry struct {
	col int
	v   float64
}

// Builder accumulates triplets and compiles them into a Matrix with
// strictly ascending columns within each row.
type Builder struct {
	nrows     int
	symmetric bool
	rows      [][]entry
}

func NewBuilder(nrows int, symmetric bool) *Builder {
	return &Builder{nrows: nrows, symmetric: symmetric, rows: make([][]entry, nrows)}
}

// Add records M[i,j] += v with 0-indexed coordinates. Symmetric builders
// accept only the upper triangle.
func (b *Builder) Add(i, j int, v float64) {
	if i < 0 || i >= b.nrows || j < 0 || j >= b.nrows {
		panic(fmt.Sprintf("%d %d %d", i, j, b.nrows))
	}
	if b.symmetric && j < i {
		panic(fmt.Sprintf("%d %d below the diagonal", i, j))
	}
	b.rows[i] = append(b.rows[i], entry{col: j, v: v})
}

func (b *Builder) Build() *Matrix {
	m := &Matrix{NRows: b.nrows, Symmetric: b.symmetric, RowPtr: make([]int, b.nrows+1)}
	for i, row := range b.rows {
		slices.SortFunc(row, func(x, y entry) int { return cmp.Compare(x.col, y.col) })
		for k := 0; k < len(row); {
			col, v := row[k].col, row[k].v
			for k++; k < len(row) && row[k].col == col; k++ {
				v += row[k].v
			}
			if v == 0 {
				continue
			}
			m.Values = append(m.Values, v)
			m.ColInd = append(m.ColInd, col)
		}
		m.RowPtr[i+1] = len(m.Values)
	}
	return m
}

// NNZ returns the stored non-zero count.
func (m *Matrix) NNZ() int { return len(m.Values) }

// Full expands a symmetric matrix into its fully populated general
// equivalent.
func (m *Matrix) Full() *Matrix {
	if !m.Symmetric {
		return m
	}
	b := NewBuilder(m.NRows, false)
	for i := 0; i < m.NRows; i++ {
		for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
			j := m.ColInd[p]
			b.Add(i, j, m.Values[p])
			if j != i {
				b.Add(j, i, m.Values[p])
			}
		}
	}
	return b.Build()
}

// MulVecSym computes y = M x for a symmetric matrix storing one triangle.
// Stored elements scatter into the mirrored rows while a per-row accumulator
// collects the direct contributions.
func (m *Matrix) MulVecSym(x, y []float64) error {
	if !m.Symmetric {
		return errors.Errorf("not symmetric")
	}
	if len(x) != m.NRows || len(y) != m.NRows {
		return errors.Errorf("%d %d %d", len(x), len(y), m.NRows)
	}
	clear(y)
	m.symRows(x, y, 0, m.NRows)
	return nil
}

// MulVecSymParallel is MulVecSym with the row loop spread over the CPUs.
// The mirrored scatters of different rows collide, so each worker writes a
// private output vector and the results are reduced at the end; there are
// no unsynchronised writes to shared state.
func (m *Matrix) MulVecSymParallel(x, y []float64) error {
	if !m.Symmetric {
		return errors.Errorf("not symmetric")
	}
	if len(x) != m.NRows || len(y) != m.NRows {
		return errors.Errorf("%d %d %d", len(x), len(y), m.NRows)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > m.NRows {
		workers = m.NRows
	}
	if workers <= 1 {
		clear(y)
		m.symRows(x, y, 0, m.NRows)
		return nil
	}

	partials := make([][]float64, workers)
	chunk := (m.NRows + workers - 1) / workers
	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			lo := w * chunk
			hi := min(lo+chunk, m.NRows)
			yw := make([]float64, m.NRows)
			m.symRows(x, yw, lo, hi)
			partials[w] = yw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "")
	}

	clear(y)
	for _, yw := range partials {
		for i, v := range yw {
			y[i] += v
		}
	}
	return nil
}

func (m *Matrix) symRows(x, y []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		var rowx float64
		for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
			j := m.ColInd[p]
			v := m.Values[p]
			y[j] += v * x[i]
			if j != i {
				rowx += v * x[j]
			}
		}
		y[i] += rowx
	}
}

// MulVec computes y = M x for a general matrix.
func (m *Matrix) MulVec(x, y []float64) error {
	if m.Symmetric {
		return errors.Errorf("symmetric storage")
	}
	if len(x) != m.NRows || len(y) != m.NRows {
		return errors.Errorf("%d %d %d", len(x), len(y), m.NRows)
	}
	for i := 0; i < m.NRows; i++ {
		var sum float64
		for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
			sum += m.Values[p] * x[m.ColInd[p]]
		}
		y[i] = sum
	}
	return nil
}

// MulVecRow computes row i of M x for a general matrix.
func (m *Matrix) MulVecRow(x []float64, i int) (float64, error) {
	if m.Symmetric {
		return 0, errors.Errorf("symmetric storage")
	}
	if i < 0 || i >= m.NRows || len(x) != m.NRows {
		return 0, errors.Errorf("%d %d %d", i, len(x), m.NRows)
	}
	var sum float64
	for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
		sum += m.Values[p] * x[m.ColInd[p]]
	}
	return sum, nil
}
