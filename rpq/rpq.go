// Package rpq answers regular path queries: it finds every pair of graph nodes
// joined by a path whose label word matches a query expression.
//
// Two engines compute the same relation. Tensor closes the full product of
// the graph and the query automaton; MultiSourceBFS propagates a frontier
// from all start nodes at once without building the product.
package rpq

import (
	"context"

	"github.com/liran-funaro/pathq/automaton"
	"github.com/liran-funaro/pathq/graph"
	"github.com/liran-funaro/pathq/internal/engine"
	"github.com/liran-funaro/pathq/regex"
)

type Option = engine.Option

var (
	WithLogger    = engine.WithLogger
	WithMaxRounds = engine.WithMaxRounds
	ErrRoundLimit = engine.ErrRoundLimit
)

// Tensor compiles expr and answers the query over g. A nil start or final
// slice stands for every node. A malformed expression fails with a
// *regex.QuerySyntaxError before any automaton is built.
func Tensor[N comparable](ctx context.Context, expr string, g *graph.Graph[N], start, final []N, opts ...Option) (graph.PairSet[N], error) {
	d, err := regex.Compile(expr)
	if err != nil {
		return nil, err
	}
	return TensorDFA(ctx, d, g, start, final, opts...)
}

// TensorDFA answers the query of a compiled expression over g.
func TensorDFA[N comparable](ctx context.Context, d *regex.DFA, g *graph.Graph[N], start, final []N, opts ...Option) (graph.PairSet[N], error) {
	_, run := engine.Start(ctx, "rpq.tensor", opts)
	res, err := tensor(run, d, g, start, final)
	run.Finish(res.Len(), err)
	return res, err
}

func tensor[N comparable](run *engine.Run, d *regex.DFA, g *graph.Graph[N], start, final []N) (graph.PairSet[N], error) {
	ga := graph.Automaton(g, start, final)
	ra := d.Automaton()
	res := graph.NewPairSet[N]()
	if len(ga.StartIndices()) == 0 || len(ga.FinalIndices()) == 0 {
		return res, nil
	}

	product := automaton.Intersect(ga, ra)
	run.Log().WithField("states", product.StateCount()).Debug("product built")
	if err := run.Round(); err != nil {
		return nil, err
	}
	reach := automaton.Closure(product)

	k := ra.StateCount()
	for _, gs := range ga.StartIndices() {
		for _, rs := range ra.StartIndices() {
			row := reach.Row(gs*k + rs)
			for _, gf := range ga.FinalIndices() {
				for _, rf := range ra.FinalIndices() {
					if row.Test(uint(gf*k + rf)) {
						res.Add(ga.State(gs), ga.State(gf))
						break
					}
				}
			}
		}
	}
	return res, nil
}
