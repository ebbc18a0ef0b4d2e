// Package automaton represents finite automata as per-symbol Boolean adjacency
// matrices over densely indexed states.
//
// An Automaton is agnostic to determinism: a DFA and an NFA share the same
// representation, and every query engine only relies on the matrices and the
// start/final index sets.
//
// # Lifecycle
//
// An Automaton is built once, either from an FA description with New or by one
// of the combinators (Intersect, WithTransitions), and is read-only afterwards.
// The state index bijection never changes after construction, so matrices,
// index sets and state values can be shared safely between readers.
package automaton

import (
	"slices"

	"github.com/liran-funaro/pathq/matrix"
)

type Transition[S comparable] struct {
	From  S
	Label Symbol
	To    S
}

// FA describes a finite automaton by its states and transitions. States lists
// states that might not appear anywhere else (isolated graph nodes); it may be
// left empty.
type FA[S comparable] struct {
	States      []S
	Start       []S
	Final       []S
	Transitions []Transition[S]
}

// AddTransition appends a transition to the description.
func (fa *FA[S]) AddTransition(from S, label Symbol, to S) {
	fa.Transitions = append(fa.Transitions, Transition[S]{From: from, Label: label, To: to})
}

type Automaton[S comparable] struct {
	states   []S
	index    map[S]int
	matrices map[Symbol]*matrix.Matrix
	start    []int
	final    []int
	isStart  []bool
	isFinal  []bool
}

// New builds the Boolean automaton of fa. States are indexed in order of first
// appearance: explicit states, start states, final states, then transition
// endpoints.
func New[S comparable](fa FA[S]) *Automaton[S] {
	b := newBuilder[S](len(fa.States))
	for _, s := range fa.States {
		b.state(s)
	}
	for _, s := range fa.Start {
		b.state(s)
	}
	for _, s := range fa.Final {
		b.state(s)
	}
	for _, t := range fa.Transitions {
		b.state(t.From)
		b.state(t.To)
	}

	for _, t := range fa.Transitions {
		b.matrix(t.Label).Set(b.index[t.From], b.index[t.To])
	}
	for _, s := range fa.Start {
		b.start[b.index[s]] = struct{}{}
	}
	for _, s := range fa.Final {
		b.final[b.index[s]] = struct{}{}
	}
	return b.build()
}

func (a *Automaton[S]) StateCount() int {
	return len(a.states)
}

// States returns the states ordered by index. The slice must not be modified.
func (a *Automaton[S]) States() []S {
	return a.states
}

// Index returns the dense index of s.
func (a *Automaton[S]) Index(s S) (int, bool) {
	i, ok := a.index[s]
	return i, ok
}

// State returns the state stored at index i.
func (a *Automaton[S]) State(i int) S {
	return a.states[i]
}

// Alphabet returns the symbols with at least one transition, sorted.
func (a *Automaton[S]) Alphabet() []Symbol {
	res := make([]Symbol, 0, len(a.matrices))
	for sym := range a.matrices {
		res = append(res, sym)
	}
	slices.SortFunc(res, compareSymbols)
	return res
}

// Matrix returns the transition matrix of sym, or nil if sym is not in the
// alphabet. The matrix is owned by the automaton and must not be modified.
func (a *Automaton[S]) Matrix(sym Symbol) *matrix.Matrix {
	return a.matrices[sym]
}

func (a *Automaton[S]) HasSymbol(sym Symbol) bool {
	_, ok := a.matrices[sym]
	return ok
}

// StartIndices returns the sorted indices of start states.
func (a *Automaton[S]) StartIndices() []int { return a.start }

// FinalIndices returns the sorted indices of final states.
func (a *Automaton[S]) FinalIndices() []int { return a.final }

func (a *Automaton[S]) IsStart(i int) bool { return a.isStart[i] }
func (a *Automaton[S]) IsFinal(i int) bool { return a.isFinal[i] }

// Adjacency returns the union of all transition matrices.
func (a *Automaton[S]) Adjacency() *matrix.Matrix {
	res := matrix.New(len(a.states), len(a.states))
	for _, m := range a.matrices {
		res.Or(m)
	}
	return res
}

// Closure returns the reflexive-transitive reachability relation of a,
// ignoring labels: entry (i,j) is true iff state j is reachable from state i in
// zero or more steps.
func Closure[S comparable](a *Automaton[S]) *matrix.Matrix {
	return a.Adjacency().Closure()
}

// Accepts reports whether a accepts word. Symbols outside the alphabet reject.
func (a *Automaton[S]) Accepts(word []Symbol) bool {
	type config struct {
		pos   int
		state int
	}
	seen := make(map[config]bool)
	var stack []config
	for _, s := range a.start {
		stack = append(stack, config{0, s})
	}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[c] {
			continue
		}
		seen[c] = true
		if c.pos == len(word) {
			if a.isFinal[c.state] {
				return true
			}
			continue
		}
		m := a.matrices[word[c.pos]]
		if m == nil {
			continue
		}
		for _, next := range m.RowIndices(c.state) {
			stack = append(stack, config{c.pos + 1, next})
		}
	}
	return false
}

// IsEmpty reports whether a accepts no word at all.
func (a *Automaton[S]) IsEmpty() bool {
	if len(a.start) == 0 || len(a.final) == 0 {
		return true
	}
	reach := Closure(a)
	for _, s := range a.start {
		for _, f := range a.final {
			if reach.Get(s, f) {
				return false
			}
		}
	}
	return true
}

// WithTransitions returns a copy of a whose matrices are extended by extra.
// The state indexing is shared with a; a itself is left untouched. Every extra
// matrix must be StateCount x StateCount.
func (a *Automaton[S]) WithTransitions(extra map[Symbol]*matrix.Matrix) *Automaton[S] {
	b := builderFrom(a)
	for sym, m := range extra {
		b.matrix(sym).Or(m)
	}
	return b.build()
}
