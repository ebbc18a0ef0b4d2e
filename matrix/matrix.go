// Package matrix implements dense Boolean matrices stored as one bitset per row.
//
// All automata, product and closure operations of pathq are expressed on this type.
// A Matrix is not safe for concurrent mutation; readers may share it once it is no
// longer written.
package matrix

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

type Matrix struct {
	rows, cols int
	data       []*bitset.BitSet
}

// New returns an all-false rows x cols matrix.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: negative shape %dx%d", rows, cols))
	}
	m := &Matrix{rows: rows, cols: cols, data: make([]*bitset.BitSet, rows)}
	for i := range m.data {
		m.data[i] = bitset.New(uint(cols))
	}
	return m
}

// Identity returns the n x n matrix with a true diagonal.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.data[i].Set(uint(i))
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) Set(i, j int) {
	m.check(i, j)
	m.data[i].Set(uint(j))
}

func (m *Matrix) Clear(i, j int) {
	m.check(i, j)
	m.data[i].Clear(uint(j))
}

func (m *Matrix) Get(i, j int) bool {
	m.check(i, j)
	return m.data[i].Test(uint(j))
}

func (m *Matrix) check(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range %dx%d", i, j, m.rows, m.cols))
	}
}

// Row exposes row i. The returned bitset is owned by the matrix.
func (m *Matrix) Row(i int) *bitset.BitSet {
	return m.data[i]
}

// RowIndices returns the columns set in row i, in increasing order.
func (m *Matrix) RowIndices(i int) []int {
	var res []int
	row := m.data[i]
	for j, ok := row.NextSet(0); ok; j, ok = row.NextSet(j + 1) {
		res = append(res, int(j))
	}
	return res
}

// Or merges o into m and reports whether any entry changed.
func (m *Matrix) Or(o *Matrix) bool {
	m.sameShape(o)
	changed := false
	for i, row := range m.data {
		if orInto(row, o.data[i]) {
			changed = true
		}
	}
	return changed
}

// AndNot clears from m every entry set in o.
func (m *Matrix) AndNot(o *Matrix) {
	m.sameShape(o)
	for i, row := range m.data {
		row.InPlaceDifference(o.data[i])
	}
}

// OrRowInto merges row src of o into row dst of m and reports whether row dst changed.
func (m *Matrix) OrRowInto(dst int, o *Matrix, src int) bool {
	if m.cols != o.cols {
		panic(fmt.Sprintf("matrix: column mismatch %d != %d", m.cols, o.cols))
	}
	return orInto(m.data[dst], o.data[src])
}

func orInto(dst, src *bitset.BitSet) bool {
	if dst.IsSuperSet(src) {
		return false
	}
	dst.InPlaceUnion(src)
	return true
}

func (m *Matrix) sameShape(o *Matrix) {
	if m.rows != o.rows || m.cols != o.cols {
		panic(fmt.Sprintf("matrix: shape mismatch %dx%d != %dx%d", m.rows, m.cols, o.rows, o.cols))
	}
}

func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, data: make([]*bitset.BitSet, m.rows)}
	for i, row := range m.data {
		c.data[i] = row.Clone()
	}
	return c
}

func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, row := range m.data {
		if !row.Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of true entries.
func (m *Matrix) Count() int {
	n := 0
	for _, row := range m.data {
		n += int(row.Count())
	}
	return n
}

// Any reports whether at least one entry is true.
func (m *Matrix) Any() bool {
	for _, row := range m.data {
		if row.Any() {
			return true
		}
	}
	return false
}

// Each calls fn for every true entry in row-major order.
func (m *Matrix) Each(fn func(i, j int)) {
	for i, row := range m.data {
		for j, ok := row.NextSet(0); ok; j, ok = row.NextSet(j + 1) {
			fn(i, int(j))
		}
	}
}

func (m *Matrix) Transpose() *Matrix {
	t := New(m.cols, m.rows)
	m.Each(func(i, j int) {
		t.data[j].Set(uint(i))
	})
	return t
}

// Mul returns the Boolean product a x b: entry (i,j) is true iff some k has
// a(i,k) and b(k,j).
func Mul(a, b *Matrix) *Matrix {
	if a.cols != b.rows {
		panic(fmt.Sprintf("matrix: cannot multiply %dx%d by %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	res := New(a.rows, b.cols)
	for i, row := range a.data {
		for k, ok := row.NextSet(0); ok; k, ok = row.NextSet(k + 1) {
			res.data[i].InPlaceUnion(b.data[k])
		}
	}
	return res
}

// Kron returns the Kronecker product of a and b. Entry ((i1,i2),(j1,j2)) lives at
// (i1*b.Rows()+i2, j1*b.Cols()+j2) and is true iff a(i1,j1) and b(i2,j2).
func Kron(a, b *Matrix) *Matrix {
	res := New(a.rows*b.rows, a.cols*b.cols)
	for i1, arow := range a.data {
		for j1, ok := arow.NextSet(0); ok; j1, ok = arow.NextSet(j1 + 1) {
			offset := int(j1) * b.cols
			for i2, brow := range b.data {
				dst := res.data[i1*b.rows+i2]
				for j2, ok2 := brow.NextSet(0); ok2; j2, ok2 = brow.NextSet(j2 + 1) {
					dst.Set(uint(offset + int(j2)))
				}
			}
		}
	}
	return res
}

// Closure returns the reflexive-transitive closure of the square matrix m.
// The diagonal is always true; the rest is the least relation containing m that
// is closed under composition.
func (m *Matrix) Closure() *Matrix {
	if m.rows != m.cols {
		panic(fmt.Sprintf("matrix: closure of non-square %dx%d", m.rows, m.cols))
	}
	c := m.Clone()
	for i := 0; i < c.rows; i++ {
		c.data[i].Set(uint(i))
	}
	// Warshall: once k has been processed, row i holds every j reachable
	// through intermediates {0..k}.
	for k := 0; k < c.rows; k++ {
		via := c.data[k]
		for i := 0; i < c.rows; i++ {
			if i != k && c.data[i].Test(uint(k)) {
				c.data[i].InPlaceUnion(via)
			}
		}
	}
	return c
}

func (m *Matrix) String() string {
	var sb strings.Builder
	for _, row := range m.data {
		for j := 0; j < m.cols; j++ {
			if row.Test(uint(j)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
