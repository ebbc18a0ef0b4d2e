// Package cfpq answers context-free path queries: it finds every pair of graph
// nodes joined by a path whose label word is derived by a grammar.
//
// Hellings and Matrix work on the weak Chomsky normal form of the grammar;
// Tensor works on its recursive state machine. All three return the same
// pairs.
package cfpq

import (
	"context"

	"github.com/liran-funaro/pathq/automaton"
	"github.com/liran-funaro/pathq/grammar"
	"github.com/liran-funaro/pathq/graph"
	"github.com/liran-funaro/pathq/internal/engine"
	"github.com/liran-funaro/pathq/matrix"
)

type Option = engine.Option

var (
	WithLogger    = engine.WithLogger
	WithMaxRounds = engine.WithMaxRounds
	ErrRoundLimit = engine.ErrRoundLimit
)

// Matrix answers the query with one n x n matrix per variable, grown by
// Boolean products until no matrix changes. A nil start or final slice stands
// for every node.
func Matrix[N comparable](ctx context.Context, cfg *grammar.CFG, g *graph.Graph[N], start, final []N, opts ...Option) (graph.PairSet[N], error) {
	_, run := engine.Start(ctx, "cfpq.matrix", opts)
	res, err := matrixCFPQ(run, grammar.ToWeakCNF(cfg), g, start, final)
	run.Finish(res.Len(), err)
	return res, err
}

func matrixCFPQ[N comparable](run *engine.Run, w *grammar.WeakCNF, g *graph.Graph[N], start, final []N) (graph.PairSet[N], error) {
	ga := graph.Automaton(g, start, final)
	n := ga.StateCount()

	mats := make(map[grammar.Variable]*matrix.Matrix)
	for _, v := range w.Variables() {
		mats[v] = matrix.New(n, n)
	}
	for _, r := range w.Terminals {
		if m := ga.Matrix(automaton.Terminal(r.Terminal)); m != nil {
			mats[r.Head].Or(m)
		}
	}
	for _, v := range w.NullableVariables() {
		for i := 0; i < n; i++ {
			mats[v].Set(i, i)
		}
	}

	for changed := true; changed; {
		if err := run.Round(); err != nil {
			return nil, err
		}
		changed = false
		for _, r := range w.Binaries {
			if mats[r.Head].Or(matrix.Mul(mats[r.Left], mats[r.Right])) {
				changed = true
			}
		}
	}

	res := graph.NewPairSet[N]()
	m := mats[w.Start]
	for _, s := range ga.StartIndices() {
		for _, f := range m.RowIndices(s) {
			if ga.IsFinal(f) {
				res.Add(ga.State(s), ga.State(f))
			}
		}
	}
	return res, nil
}
