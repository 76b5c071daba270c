// Package matrix provides the dense square count matrix used for
// connectivity tallies, along with its text codecs.
//
// A [Matrix] is N x N, row-major, zero-filled on allocation. Cells only
// grow through [Matrix.Inc]; the one sanctioned destructive edit is
// [Matrix.ZeroDiagonal].
//
// # Codecs
//
// [WriteCSV] emits one row per line, comma-separated decimal integers:
//
//	0,2,0
//	1,0,0
//	0,0,0
//
// A 0 x 0 matrix encodes to zero bytes. [ReadCSV] accepts the same format
// back and rejects ragged or non-square input.
package matrix

import (
	"fmt"
	"slices"
)

// Matrix is a dense N x N matrix of non-negative counts.
type Matrix struct {
	n     int
	cells []int
}

// New allocates a zero-filled n x n matrix. Negative n is treated as 0.
func New(n int) *Matrix {
	if n < 0 {
		n = 0
	}
	return &Matrix{n: n, cells: make([]int, n*n)}
}

// FromRows builds a matrix from row slices.
// It returns an error if rows is not square.
func FromRows(rows [][]int) (*Matrix, error) {
	m := New(len(rows))
	for i, row := range rows {
		if len(row) != m.n {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), m.n)
		}
		copy(m.cells[i*m.n:(i+1)*m.n], row)
	}
	return m, nil
}

// Size returns N.
func (m *Matrix) Size() int {
	return m.n
}

// At returns cell (i, j).
func (m *Matrix) At(i, j int) int {
	return m.cells[m.offset(i, j)]
}

// Set overwrites cell (i, j).
func (m *Matrix) Set(i, j, v int) {
	m.cells[m.offset(i, j)] = v
}

// Inc adds one to cell (i, j).
func (m *Matrix) Inc(i, j int) {
	m.cells[m.offset(i, j)]++
}

// ZeroDiagonal sets every cell (k, k) to zero.
func (m *Matrix) ZeroDiagonal() {
	for k := 0; k < m.n; k++ {
		m.cells[k*m.n+k] = 0
	}
}

// Trace returns the sum of the diagonal.
func (m *Matrix) Trace() int {
	t := 0
	for k := 0; k < m.n; k++ {
		t += m.cells[k*m.n+k]
	}
	return t
}

// Sum returns the total of all cells.
func (m *Matrix) Sum() int {
	s := 0
	for _, v := range m.cells {
		s += v
	}
	return s
}

// Max returns the largest cell value, or 0 for an empty matrix.
func (m *Matrix) Max() int {
	if len(m.cells) == 0 {
		return 0
	}
	return slices.Max(m.cells)
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []int {
	return slices.Clone(m.cells[i*m.n : (i+1)*m.n])
}

// Rows returns a copy of the matrix as row slices.
func (m *Matrix) Rows() [][]int {
	rows := make([][]int, m.n)
	for i := range rows {
		rows[i] = m.Row(i)
	}
	return rows
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, cells: slices.Clone(m.cells)}
}

// Equal reports whether m and o have the same size and cells.
func (m *Matrix) Equal(o *Matrix) bool {
	if o == nil {
		return false
	}
	return m.n == o.n && slices.Equal(m.cells, o.cells)
}

func (m *Matrix) offset(i, j int) int {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("matrix: index (%d, %d) out of range for size %d", i, j, m.n))
	}
	return i*m.n + j
}
