package graph

import (
	"bytes"
	"cmp"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liran-funaro/pathq/automaton"
)

func chain() *Graph[int] {
	g := New[int]()
	g.AddEdge(0, "a", 1)
	g.AddEdge(1, "b", 2)
	return g
}

func TestGraph(t *testing.T) {
	g := chain()
	g.AddNode(7)
	g.AddNode(1)
	g.AddEdge(0, "a", 1)

	assert.Equal(t, []int{0, 1, 2, 7}, g.Nodes())
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, []string{"a", "b"}, g.Labels())
	assert.True(t, g.HasNode(7))
	assert.False(t, g.HasNode(3))
	assert.Equal(t, Info{Nodes: 4, Edges: 3, Labels: []string{"a", "b"}}, Stats(g))
}

func TestCandidates(t *testing.T) {
	g := chain()
	assert.Equal(t, []int{0, 1, 2}, g.Candidates(nil))
	assert.Empty(t, g.Candidates([]int{}))
	assert.Equal(t, []int{2, 0}, g.Candidates([]int{2, 9, 0, 2}))
}

func TestAutomaton(t *testing.T) {
	g := chain()
	a := Automaton(g, []int{0}, nil)
	require.Equal(t, 3, a.StateCount())
	for i, n := range g.Nodes() {
		idx, ok := a.Index(n)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
	assert.Equal(t, []int{0}, a.StartIndices())
	assert.Equal(t, []int{0, 1, 2}, a.FinalIndices())
	assert.True(t, a.Matrix(automaton.Terminal("a")).Get(0, 1))
	assert.True(t, a.Accepts(automaton.Terminals("a", "b")))
	assert.False(t, a.Accepts(automaton.Terminals("b")))

	empty := Automaton(g, []int{}, []int{42})
	assert.Empty(t, empty.StartIndices())
	assert.Empty(t, empty.FinalIndices())
	assert.True(t, empty.IsEmpty())
}

func TestPairSet(t *testing.T) {
	s := NewPairSet[int]()
	s.Add(1, 2)
	s.Add(0, 5)
	s.Add(1, 2)
	s.Add(0, 1)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(1, 2))
	assert.False(t, s.Contains(2, 1))
	assert.Equal(t, []Pair[int]{{0, 1}, {0, 5}, {1, 2}}, s.Sorted(cmp.Compare[int]))
	assert.True(t, s.Equal(NewPairSet(Pair[int]{0, 5}, Pair[int]{1, 2}, Pair[int]{0, 1})))
	assert.False(t, s.Equal(NewPairSet(Pair[int]{0, 5})))
	assert.False(t, s.Equal(NewPairSet(Pair[int]{0, 5}, Pair[int]{1, 2}, Pair[int]{1, 0})))
}

func TestTwoCycles(t *testing.T) {
	g, err := TwoCycles(3, 2, [2]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 6, g.NodeCount())
	assert.Equal(t, 7, g.EdgeCount())
	assert.Equal(t, []Edge[int]{
		{0, "a", 1}, {1, "a", 2}, {2, "a", 3}, {3, "a", 0},
		{0, "b", 4}, {4, "b", 5}, {5, "b", 0},
	}, g.Edges())

	_, err = TwoCycles(0, 2, [2]string{"a", "b"})
	assert.True(t, errors.Is(err, ErrBadCycleSize))
}

func TestReadEdgeList(t *testing.T) {
	src := `# comment
0 1 a

1 2 b
lonely
`
	g, err := ReadEdgeList(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "lonely"}, g.Nodes())
	assert.Equal(t, []Edge[string]{{"0", "a", "1"}, {"1", "b", "2"}}, g.Edges())

	_, err = ReadEdgeList(strings.NewReader("0 1 a\n0 1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadEdgeLine))
	assert.Contains(t, err.Error(), "line 2")
}

func TestEdgeListRoundTrip(t *testing.T) {
	g := chain()
	g.AddNode(9)
	var buf bytes.Buffer
	require.NoError(t, WriteEdgeList(&buf, g))
	assert.Equal(t, "9\n0 1 a\n1 2 b\n", buf.String())

	back, err := ReadEdgeList(&buf)
	require.NoError(t, err)
	assert.Equal(t, Stats(g), Stats(back))
}

func TestReadYAML(t *testing.T) {
	src := `
nodes: [x]
edges:
  - {from: "0", to: "1", label: a}
  - from: "1"
    to: "2"
    label: b
`
	g, err := ReadYAML(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "0", "1", "2"}, g.Nodes())
	assert.Equal(t, []string{"a", "b"}, g.Labels())

	g, err = ReadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())

	_, err = ReadYAML(strings.NewReader("edges: [{from: a, label: x}]"))
	assert.True(t, errors.Is(err, ErrBadYAMLEdge))
}

func TestFiles(t *testing.T) {
	g, err := TwoCycles(2, 2, [2]string{"a", "b"})
	require.NoError(t, err)
	dir := t.TempDir()
	for _, name := range []string{"g.txt", "g.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, g))
		back, err := ReadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, Stats(g), Stats(back), name)
		assert.Equal(t, []string{"0", "1", "2", "3", "4"}, back.Nodes(), name)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
