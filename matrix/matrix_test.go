package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fromPairs(rows, cols int, pairs ...[2]int) *Matrix {
	m := New(rows, cols)
	for _, p := range pairs {
		m.Set(p[0], p[1])
	}
	return m
}

func TestSetGetClear(t *testing.T) {
	m := New(3, 4)
	assert.False(t, m.Any())
	m.Set(2, 3)
	assert.True(t, m.Get(2, 3))
	assert.False(t, m.Get(3-1, 2))
	assert.Equal(t, 1, m.Count())
	m.Clear(2, 3)
	assert.False(t, m.Any())
	assert.Panics(t, func() { m.Set(3, 0) })
}

func TestOrReportsChange(t *testing.T) {
	a := fromPairs(2, 2, [2]int{0, 1})
	b := fromPairs(2, 2, [2]int{0, 1})
	assert.False(t, a.Or(b))
	b.Set(1, 0)
	assert.True(t, a.Or(b))
	assert.True(t, a.Get(1, 0))
}

func TestAndNot(t *testing.T) {
	a := fromPairs(2, 2, [2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1})
	a.AndNot(fromPairs(2, 2, [2]int{0, 1}))
	assert.True(t, a.Equal(fromPairs(2, 2, [2]int{0, 0}, [2]int{1, 1})))
}

func TestMul(t *testing.T) {
	a := fromPairs(2, 3, [2]int{0, 1}, [2]int{1, 2})
	b := fromPairs(3, 2, [2]int{1, 0}, [2]int{2, 1})
	got := Mul(a, b)
	assert.True(t, got.Equal(fromPairs(2, 2, [2]int{0, 0}, [2]int{1, 1})), got.String())
	assert.Panics(t, func() { Mul(a, a) })
}

func TestKron(t *testing.T) {
	a := fromPairs(2, 2, [2]int{0, 1})
	b := fromPairs(2, 2, [2]int{1, 0}, [2]int{1, 1})
	got := Kron(a, b)
	require.Equal(t, 4, got.Rows())
	require.Equal(t, 4, got.Cols())
	// (0,1)x(1,0) -> (1,2); (0,1)x(1,1) -> (1,3)
	assert.True(t, got.Equal(fromPairs(4, 4, [2]int{1, 2}, [2]int{1, 3})), got.String())
}

func TestTranspose(t *testing.T) {
	a := fromPairs(2, 3, [2]int{0, 2}, [2]int{1, 0})
	assert.True(t, a.Transpose().Equal(fromPairs(3, 2, [2]int{2, 0}, [2]int{0, 1})))
}

func TestClosure(t *testing.T) {
	t.Run("chain", func(t *testing.T) {
		m := fromPairs(4, 4, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3})
		c := m.Closure()
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				assert.Equal(t, i <= j, c.Get(i, j), "(%d,%d)", i, j)
			}
		}
	})

	t.Run("zero matrix gets diagonal", func(t *testing.T) {
		c := New(3, 3).Closure()
		assert.True(t, c.Equal(Identity(3)))
	})

	t.Run("idempotent", func(t *testing.T) {
		m := fromPairs(5, 5, [2]int{0, 3}, [2]int{3, 1}, [2]int{1, 0}, [2]int{4, 2})
		c := m.Closure()
		assert.True(t, c.Closure().Equal(c))
		assert.True(t, c.Get(1, 3))
		assert.False(t, c.Get(0, 4))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, New(0, 0).Closure().Rows())
	})
}

func TestEachRowMajor(t *testing.T) {
	m := fromPairs(2, 2, [2]int{1, 0}, [2]int{0, 1}, [2]int{0, 0})
	var got [][2]int
	m.Each(func(i, j int) { got = append(got, [2]int{i, j}) })
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}, {1, 0}}, got)
	assert.Equal(t, []int{0, 1}, m.RowIndices(0))
}
