package cfpq

import (
	"cmp"
	"context"
	"strings"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liran-funaro/pathq/grammar"
	"github.com/liran-funaro/pathq/graph"
	"github.com/liran-funaro/pathq/rpq"
	"github.com/liran-funaro/pathq/rsm"
)

type engineFunc func(ctx context.Context, cfg *grammar.CFG, g *graph.Graph[int], start, final []int, opts ...Option) (graph.PairSet[int], error)

func tensorFromCFG(ctx context.Context, cfg *grammar.CFG, g *graph.Graph[int], start, final []int, opts ...Option) (graph.PairSet[int], error) {
	return Tensor(ctx, rsm.FromCFG(cfg), g, start, final, opts...)
}

var engines = map[string]engineFunc{
	"hellings": Hellings[int],
	"matrix":   Matrix[int],
	"tensor":   tensorFromCFG,
}

func parse(t *testing.T, text string) *grammar.CFG {
	t.Helper()
	cfg, err := grammar.Parse(text)
	require.NoError(t, err)
	return cfg
}

func pathGraph(labels ...string) *graph.Graph[int] {
	g := graph.New[int]()
	g.AddNode(0)
	for i, l := range labels {
		g.AddEdge(i, l, i+1)
	}
	return g
}

func sorted(s graph.PairSet[int]) []graph.Pair[int] {
	return s.Sorted(cmp.Compare[int])
}

func TestScenario(t *testing.T) {
	cfg := parse(t, "S -> a S b | $")
	g := pathGraph("a", "b")
	for name, run := range engines {
		res, err := run(context.Background(), cfg, g, []int{0}, []int{2})
		require.NoError(t, err, name)
		assert.Equal(t, []graph.Pair[int]{{From: 0, To: 2}}, sorted(res), name)

		res, err = run(context.Background(), cfg, g, nil, nil)
		require.NoError(t, err, name)
		for _, v := range g.Nodes() {
			assert.True(t, res.Contains(v, v), "%s: (%d,%d)", name, v, v)
		}
		assert.Equal(t, 4, res.Len(), name)
	}
}

func TestNestedPairs(t *testing.T) {
	cfg := parse(t, "S -> a S b | $")
	g := pathGraph("a", "a", "b", "b")
	want := []graph.Pair[int]{{From: 0, To: 0}, {From: 0, To: 4}, {From: 1, To: 1}, {From: 1, To: 3}, {From: 2, To: 2}, {From: 3, To: 3}, {From: 4, To: 4}}
	for name, run := range engines {
		res, err := run(context.Background(), cfg, g, nil, nil)
		require.NoError(t, err, name)
		assert.Empty(t, gocmp.Diff(want, sorted(res)), name)
	}
}

func twoCycles(t *testing.T, n, m int) *graph.Graph[int] {
	g, err := graph.TwoCycles(n, m, [2]string{"a", "b"})
	require.NoError(t, err)
	return g
}

func TestEnginesAgree(t *testing.T) {
	grammars := []string{
		"S -> a S b | a b",
		"S -> a S b | $",
		"S -> S S | a S b | $",
		"S -> A B\nA -> a | a A\nB -> b | B b",
		"S -> a B c | c\nB -> $ | b",
		"S -> U\nU -> U a",
	}
	graphs := []*graph.Graph[int]{
		twoCycles(t, 3, 2),
		twoCycles(t, 2, 2),
		pathGraph("a", "a", "b", "a", "b", "b"),
	}
	candidates := [][2][]int{{nil, nil}, {[]int{0}, nil}, {[]int{1, 2}, []int{0, 3}}, {[]int{}, []int{}}}
	for _, text := range grammars {
		cfg := parse(t, text)
		for gi, g := range graphs {
			for _, c := range candidates {
				want, err := Hellings(context.Background(), cfg, g, c[0], c[1])
				require.NoError(t, err)
				for name, run := range engines {
					got, err := run(context.Background(), cfg, g, c[0], c[1])
					require.NoError(t, err)
					assert.Empty(t, gocmp.Diff(sorted(want), sorted(got)),
						"%s on graph %d, %q, start=%v final=%v", name, gi, text, c[0], c[1])
				}
			}
		}
	}
}

func TestMonotonicCandidates(t *testing.T) {
	cfg := parse(t, "S -> a S b | a b")
	g := twoCycles(t, 3, 2)
	for name, run := range engines {
		small, err := run(context.Background(), cfg, g, []int{0}, []int{0})
		require.NoError(t, err, name)
		large, err := run(context.Background(), cfg, g, []int{0, 1, 4}, []int{0, 3, 5})
		require.NoError(t, err, name)
		all, err := run(context.Background(), cfg, g, nil, nil)
		require.NoError(t, err, name)

		assert.NotZero(t, small.Len(), name)
		for p := range small {
			assert.True(t, large.Contains(p.From, p.To), "%s: %v", name, p)
		}
		for p := range large {
			assert.True(t, all.Contains(p.From, p.To), "%s: %v", name, p)
			assert.Contains(t, []int{0, 1, 4}, p.From, name)
			assert.Contains(t, []int{0, 3, 5}, p.To, name)
		}
	}
}

func TestRegularGrammarsMatchRegexQueries(t *testing.T) {
	for _, x := range []struct {
		grammar, expr string
	}{
		{"S -> a S | b", "a* b"},
		{"S -> $ | a S", "a*"},
		{"S -> S S | a | b", "(a|b)+"},
		{"S -> a A\nA -> b | b A", "a b+"},
	} {
		cfg := parse(t, x.grammar)
		g := twoCycles(t, 3, 2)
		want, err := rpq.Tensor(context.Background(), x.expr, g, nil, nil)
		require.NoError(t, err)
		for name, run := range engines {
			got, err := run(context.Background(), cfg, g, nil, nil)
			require.NoError(t, err)
			assert.Empty(t, gocmp.Diff(sorted(want), sorted(got)), "%s %q", name, x.grammar)
		}
	}
}

func TestTensorFrontEndsAgree(t *testing.T) {
	cfg := parse(t, "S -> a S b | a b")
	fromText, err := rsm.FromText("S -> a S b | a b", "S")
	require.NoError(t, err)
	fromEBNF, err := rsm.FromEBNF("anbn", strings.NewReader(`S = "a" [ S ] "b" .`), "S")
	require.NoError(t, err)

	g := twoCycles(t, 3, 2)
	want, err := Matrix(context.Background(), cfg, g, nil, nil)
	require.NoError(t, err)
	require.NotZero(t, want.Len())
	for name, r := range map[string]*rsm.RSM{"cfg": rsm.FromCFG(cfg), "text": fromText, "ebnf": fromEBNF} {
		got, err := Tensor(context.Background(), r, g, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, gocmp.Diff(sorted(want), sorted(got)), name)
	}
}

func TestTerminalNamedLikeVariable(t *testing.T) {
	// A graph label "S" must not be taken for a derivation of S.
	g := graph.New[int]()
	g.AddEdge(0, "S", 1)
	cfg := parse(t, "S -> a")
	for name, run := range engines {
		res, err := run(context.Background(), cfg, g, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Len(), name)
	}
}

func TestEmptyInputs(t *testing.T) {
	cfg := parse(t, "S -> a S b | $")
	for name, run := range engines {
		res, err := run(context.Background(), cfg, graph.New[int](), nil, nil)
		require.NoError(t, err, name)
		assert.Equal(t, 0, res.Len(), name)

		res, err = run(context.Background(), &grammar.CFG{Start: "S"}, pathGraph("a"), nil, nil)
		require.NoError(t, err, name)
		assert.Equal(t, 0, res.Len(), name)
	}
}

func TestRoundLimitAndCancel(t *testing.T) {
	cfg := parse(t, "S -> a S b | $")
	g := pathGraph("a", "a", "b", "b")
	for name, run := range engines {
		_, err := run(context.Background(), cfg, g, nil, nil, WithMaxRounds(1))
		assert.True(t, errors.Is(err, ErrRoundLimit), name)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = run(ctx, cfg, g, nil, nil)
		assert.True(t, errors.Is(err, context.Canceled), name)
	}
}
