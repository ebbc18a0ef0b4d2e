package rpq

import (
	"context"

	"github.com/liran-funaro/pathq/graph"
	"github.com/liran-funaro/pathq/internal/engine"
	"github.com/liran-funaro/pathq/matrix"
	"github.com/liran-funaro/pathq/regex"
)

// MultiSourceBFS compiles expr and answers the query over g by breadth-first
// search from every start node at once. It returns the same pairs as Tensor.
func MultiSourceBFS[N comparable](ctx context.Context, expr string, g *graph.Graph[N], start, final []N, opts ...Option) (graph.PairSet[N], error) {
	d, err := regex.Compile(expr)
	if err != nil {
		return nil, err
	}
	return MultiSourceBFSDFA(ctx, d, g, start, final, opts...)
}

// MultiSourceBFSDFA is MultiSourceBFS for a compiled expression.
func MultiSourceBFSDFA[N comparable](ctx context.Context, d *regex.DFA, g *graph.Graph[N], start, final []N, opts ...Option) (graph.PairSet[N], error) {
	_, run := engine.Start(ctx, "rpq.msbfs", opts)
	res, err := msbfs(run, d, g, start, final)
	run.Finish(res.Len(), err)
	return res, err
}

type labelStep struct {
	graph *matrix.Matrix // n x n
	query *matrix.Matrix // k x k
}

// msbfs keeps one block of k rows per start node. Row j*k+q of the frontier
// holds the graph nodes reached from start node j with the query automaton in
// state q.
func msbfs[N comparable](run *engine.Run, d *regex.DFA, g *graph.Graph[N], start, final []N) (graph.PairSet[N], error) {
	ga := graph.Automaton(g, start, final)
	ra := d.Automaton()
	res := graph.NewPairSet[N]()
	starts := ga.StartIndices()
	if len(starts) == 0 || len(ga.FinalIndices()) == 0 {
		return res, nil
	}

	k, n := ra.StateCount(), ga.StateCount()
	var steps []labelStep
	for _, sym := range ra.Alphabet() {
		if ga.HasSymbol(sym) {
			steps = append(steps, labelStep{graph: ga.Matrix(sym), query: ra.Matrix(sym)})
		}
	}

	frontier := matrix.New(k*len(starts), n)
	for j, s := range starts {
		for _, q := range ra.StartIndices() {
			frontier.Set(j*k+q, s)
		}
	}
	visited := frontier.Clone()

	for frontier.Any() {
		if err := run.Round(); err != nil {
			return nil, err
		}
		next := matrix.New(k*len(starts), n)
		for _, step := range steps {
			moved := matrix.Mul(frontier, step.graph)
			for j := range starts {
				for q := 0; q < k; q++ {
					row := j*k + q
					if moved.Row(row).None() {
						continue
					}
					for _, to := range step.query.RowIndices(q) {
						next.OrRowInto(j*k+to, moved, row)
					}
				}
			}
		}
		next.AndNot(visited)
		visited.Or(next)
		frontier = next
	}
	run.Log().WithField("visited", visited.Count()).Debug("frontier exhausted")

	for j, s := range starts {
		for _, f := range ra.FinalIndices() {
			for _, v := range visited.RowIndices(j*k + f) {
				if ga.IsFinal(v) {
					res.Add(ga.State(s), ga.State(v))
				}
			}
		}
	}
	return res, nil
}
