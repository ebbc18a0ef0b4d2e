package cfpq

import (
	"context"

	"github.com/liran-funaro/pathq/grammar"
	"github.com/liran-funaro/pathq/graph"
	"github.com/liran-funaro/pathq/internal/engine"
)

// Hellings answers the query by saturating a set of (from, variable, to)
// triples with a FIFO worklist. Every new triple is combined with all known
// triples on both sides, so the result does not depend on processing order.
func Hellings[N comparable](ctx context.Context, cfg *grammar.CFG, g *graph.Graph[N], start, final []N, opts ...Option) (graph.PairSet[N], error) {
	_, run := engine.Start(ctx, "cfpq.hellings", opts)
	res, err := hellings(run, grammar.ToWeakCNF(cfg), g, start, final)
	run.Finish(res.Len(), err)
	return res, err
}

type triple struct {
	from, v, to int
}

type rhs struct {
	other, head int
}

// tripleSet is the saturated relation, indexed by both endpoints.
type tripleSet struct {
	all    map[triple]struct{}
	byFrom map[int][]triple
	byTo   map[int][]triple
	queue  []triple
}

func (s *tripleSet) add(t triple) {
	if _, ok := s.all[t]; ok {
		return
	}
	s.all[t] = struct{}{}
	s.byFrom[t.from] = append(s.byFrom[t.from], t)
	s.byTo[t.to] = append(s.byTo[t.to], t)
	s.queue = append(s.queue, t)
}

func hellings[N comparable](run *engine.Run, w *grammar.WeakCNF, g *graph.Graph[N], start, final []N) (graph.PairSet[N], error) {
	ga := graph.Automaton(g, start, final)
	vars := make(map[grammar.Variable]int)
	for i, v := range w.Variables() {
		vars[v] = i
	}
	byTerminal := make(map[string][]int)
	for _, r := range w.Terminals {
		byTerminal[r.Terminal] = append(byTerminal[r.Terminal], vars[r.Head])
	}
	// byLeft[a] lists (b, head) for head -> a b; byRight[b] lists (a, head).
	byLeft := make(map[int][]rhs)
	byRight := make(map[int][]rhs)
	for _, r := range w.Binaries {
		l, rr, h := vars[r.Left], vars[r.Right], vars[r.Head]
		byLeft[l] = append(byLeft[l], rhs{other: rr, head: h})
		byRight[rr] = append(byRight[rr], rhs{other: l, head: h})
	}

	s := &tripleSet{
		all:    make(map[triple]struct{}),
		byFrom: make(map[int][]triple),
		byTo:   make(map[int][]triple),
	}
	for _, e := range g.Edges() {
		from, _ := ga.Index(e.From)
		to, _ := ga.Index(e.To)
		for _, h := range byTerminal[e.Label] {
			s.add(triple{from, h, to})
		}
	}
	for _, v := range w.NullableVariables() {
		for i := 0; i < ga.StateCount(); i++ {
			s.add(triple{i, vars[v], i})
		}
	}

	for len(s.queue) > 0 {
		if err := run.Round(); err != nil {
			return nil, err
		}
		batch := s.queue
		s.queue = nil
		for _, t := range batch {
			// t followed by a known triple.
			for _, next := range s.byFrom[t.to] {
				for _, r := range byLeft[t.v] {
					if r.other == next.v {
						s.add(triple{t.from, r.head, next.to})
					}
				}
			}
			// A known triple followed by t.
			for _, prev := range s.byTo[t.from] {
				for _, r := range byRight[t.v] {
					if r.other == prev.v {
						s.add(triple{prev.from, r.head, t.to})
					}
				}
			}
		}
	}
	run.Log().WithField("triples", len(s.all)).Debug("saturated")

	res := graph.NewPairSet[N]()
	startVar := vars[w.Start]
	for _, i := range ga.StartIndices() {
		for _, t := range s.byFrom[i] {
			if t.v == startVar && ga.IsFinal(t.to) {
				res.Add(ga.State(i), ga.State(t.to))
			}
		}
	}
	return res, nil
}
