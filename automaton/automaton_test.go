package automaton

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liran-funaro/pathq/matrix"
)

// abStar accepts (ab)*.
func abStar() *Automaton[string] {
	fa := FA[string]{Start: []string{"q0"}, Final: []string{"q0"}}
	fa.AddTransition("q0", Terminal("a"), "q1")
	fa.AddTransition("q1", Terminal("b"), "q0")
	return New(fa)
}

// anyA accepts a+ over a two-state NFA with a nondeterministic loop.
func anyA() *Automaton[int] {
	fa := FA[int]{Start: []int{0}, Final: []int{1}}
	fa.AddTransition(0, Terminal("a"), 0)
	fa.AddTransition(0, Terminal("a"), 1)
	return New(fa)
}

func TestNewIndexesStates(t *testing.T) {
	fa := FA[string]{States: []string{"x"}, Start: []string{"q0"}, Final: []string{"q1"}}
	fa.AddTransition("q0", Terminal("a"), "q1")
	fa.AddTransition("q1", Terminal("a"), "q2")
	a := New(fa)

	require.Equal(t, 4, a.StateCount())
	assert.Equal(t, []string{"x", "q0", "q1", "q2"}, a.States())
	for i, s := range a.States() {
		idx, ok := a.Index(s)
		require.True(t, ok)
		assert.Equal(t, i, idx)
		assert.Equal(t, s, a.State(i))
	}
	assert.Equal(t, []int{1}, a.StartIndices())
	assert.Equal(t, []int{2}, a.FinalIndices())
	assert.Equal(t, []Symbol{Terminal("a")}, a.Alphabet())
	m := a.Matrix(Terminal("a"))
	require.NotNil(t, m)
	assert.Equal(t, 4, m.Rows())
	assert.True(t, m.Get(1, 2))
	assert.True(t, m.Get(2, 3))
	assert.Equal(t, 2, m.Count())
}

func TestEmptyAutomaton(t *testing.T) {
	a := New(FA[int]{})
	assert.Equal(t, 0, a.StateCount())
	assert.Empty(t, a.Alphabet())
	assert.False(t, a.Accepts(nil))
	assert.True(t, a.IsEmpty())
	assert.Equal(t, 0, Closure(a).Rows())

	p := Intersect(a, abStar())
	assert.Equal(t, 0, p.StateCount())
	assert.Empty(t, p.Alphabet())
}

func TestAccepts(t *testing.T) {
	a := abStar()
	for _, x := range []struct {
		word []string
		want bool
	}{
		{nil, true},
		{[]string{"a", "b"}, true},
		{[]string{"a", "b", "a", "b"}, true},
		{[]string{"a"}, false},
		{[]string{"b", "a"}, false},
		{[]string{"c"}, false},
	} {
		assert.Equal(t, x.want, a.Accepts(Terminals(x.word...)), "%v", x.word)
	}

	n := anyA()
	assert.False(t, n.Accepts(nil))
	assert.True(t, n.Accepts(Terminals("a")))
	assert.True(t, n.Accepts(Terminals("a", "a", "a")))
	assert.False(t, n.Accepts(Terminals("a", "b")))
}

func TestSymbolKindsAreDistinct(t *testing.T) {
	fa := FA[int]{Start: []int{0}, Final: []int{1}}
	fa.AddTransition(0, Nonterminal("S"), 1)
	a := New(fa)
	assert.True(t, a.Accepts([]Symbol{Nonterminal("S")}))
	assert.False(t, a.Accepts([]Symbol{Terminal("S")}))
	assert.Equal(t, "<S>", Nonterminal("S").String())
}

func TestIntersect(t *testing.T) {
	a, b := abStar(), anyA()
	p := Intersect(a, b)

	assert.Equal(t, a.StateCount()*b.StateCount(), p.StateCount())
	for i, s1 := range a.States() {
		for j, s2 := range b.States() {
			idx, ok := p.Index(Pair[string, int]{s1, s2})
			require.True(t, ok)
			assert.Equal(t, i*b.StateCount()+j, idx)
		}
	}
	// b has no "b" transitions, so the product only keeps "a".
	assert.Equal(t, []Symbol{Terminal("a")}, p.Alphabet())
	assert.False(t, p.Accepts(Terminals("a", "b")))
	assert.True(t, p.IsEmpty())

	q := Intersect(anyA(), anyA())
	assert.True(t, q.Accepts(Terminals("a", "a")))
	assert.False(t, q.IsEmpty())
	assert.Len(t, q.StartIndices(), 1)
	assert.Len(t, q.FinalIndices(), 1)
}

func TestIntersectStateCount(t *testing.T) {
	fa := FA[int]{States: []int{0, 1, 2}}
	big := New(fa)
	for _, other := range []*Automaton[int]{big, anyA(), New(FA[int]{})} {
		p := Intersect(big, other)
		assert.Equal(t, big.StateCount()*other.StateCount(), p.StateCount())
	}
}

func TestClosure(t *testing.T) {
	c := Closure(abStar())
	assert.True(t, c.Closure().Equal(c))
	for i := 0; i < c.Rows(); i++ {
		assert.True(t, c.Get(i, i))
	}
	assert.True(t, c.Get(0, 1))
	assert.True(t, c.Get(1, 0))
}

func TestWithTransitionsLeavesReceiver(t *testing.T) {
	a := abStar()
	extra := matrix.New(a.StateCount(), a.StateCount())
	extra.Set(1, 1)
	b := a.WithTransitions(map[Symbol]*matrix.Matrix{
		Terminal("a"):    extra,
		Nonterminal("S"): extra,
	})

	assert.False(t, a.Matrix(Terminal("a")).Get(1, 1))
	assert.Nil(t, a.Matrix(Nonterminal("S")))
	assert.True(t, b.Matrix(Terminal("a")).Get(1, 1))
	assert.True(t, b.Matrix(Terminal("a")).Get(0, 1))
	assert.True(t, b.Matrix(Nonterminal("S")).Get(1, 1))
	assert.Equal(t, a.States(), b.States())
	assert.Equal(t, a.StartIndices(), b.StartIndices())
}

func TestWriteDot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, abStar().WriteDot(&buf, "G"))
	out := buf.String()
	assert.Contains(t, out, "digraph G {")
	assert.Contains(t, out, `0[label="q0",shape=box,style=filled,color=green];`)
	assert.Contains(t, out, `0 -> 1[label="a"];`)
	assert.Contains(t, out, `1 -> 0[label="b"];`)
}
