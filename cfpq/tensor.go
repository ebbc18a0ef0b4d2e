package cfpq

import (
	"context"

	"github.com/liran-funaro/pathq/automaton"
	"github.com/liran-funaro/pathq/graph"
	"github.com/liran-funaro/pathq/internal/engine"
	"github.com/liran-funaro/pathq/matrix"
	"github.com/liran-funaro/pathq/rsm"
)

// Tensor answers the query by repeatedly closing the product of the graph and
// the flattened machine r. Every complete traversal of a box found in the
// closure becomes a graph edge labeled with the box's tag, until no new edge
// appears.
func Tensor[N comparable](ctx context.Context, r *rsm.RSM, g *graph.Graph[N], start, final []N, opts ...Option) (graph.PairSet[N], error) {
	_, run := engine.Start(ctx, "cfpq.tensor", opts)
	res, err := tensor(run, r, g, start, final)
	run.Finish(res.Len(), err)
	return res, err
}

func tensor[N comparable](run *engine.Run, r *rsm.RSM, g *graph.Graph[N], start, final []N) (graph.PairSet[N], error) {
	ga := graph.Automaton(g, start, final)
	ra := r.Automaton()
	tags := r.Tags()
	n, k := ga.StateCount(), ra.StateCount()

	for {
		if err := run.Round(); err != nil {
			return nil, err
		}
		reach := automaton.Closure(automaton.Intersect(ga, ra))

		extra := make(map[automaton.Symbol]*matrix.Matrix)
		for x := 0; x < n*k; x++ {
			gi, ri := x/k, x%k
			if !ra.IsStart(ri) {
				continue
			}
			box := ra.State(ri).Box
			sym := tags[box]
			known := ga.Matrix(sym)
			for _, y := range reach.RowIndices(x) {
				gj, rj := y/k, y%k
				if !ra.IsFinal(rj) || ra.State(rj).Box != box {
					continue
				}
				if known != nil && known.Get(gi, gj) {
					continue
				}
				m, ok := extra[sym]
				if !ok {
					m = matrix.New(n, n)
					extra[sym] = m
				}
				m.Set(gi, gj)
			}
		}
		if len(extra) == 0 {
			break
		}
		ga = ga.WithTransitions(extra)
	}
	run.Log().WithField("states", n*k).Debug("no new summary edges")

	res := graph.NewPairSet[N]()
	m := ga.Matrix(tags[r.Start])
	if m == nil {
		return res, nil
	}
	for _, s := range ga.StartIndices() {
		for _, f := range m.RowIndices(s) {
			if ga.IsFinal(f) {
				res.Add(ga.State(s), ga.State(f))
			}
		}
	}
	return res, nil
}
