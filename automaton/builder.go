package automaton

import (
	"slices"

	"github.com/liran-funaro/pathq/matrix"
)

// builder assembles an Automaton. All states must be registered before the
// first call to matrix, since matrices are allocated with the final state count.
type builder[S comparable] struct {
	states   []S
	index    map[S]int
	matrices map[Symbol]*matrix.Matrix
	start    map[int]struct{}
	final    map[int]struct{}
}

func newBuilder[S comparable](capacity int) *builder[S] {
	return &builder[S]{
		states:   make([]S, 0, capacity),
		index:    make(map[S]int, capacity),
		matrices: make(map[Symbol]*matrix.Matrix),
		start:    make(map[int]struct{}),
		final:    make(map[int]struct{}),
	}
}

// builderFrom starts from a copy of a's matrices. The state slice and index map
// are immutable once built, so they are shared rather than copied.
func builderFrom[S comparable](a *Automaton[S]) *builder[S] {
	b := &builder[S]{
		states:   a.states,
		index:    a.index,
		matrices: make(map[Symbol]*matrix.Matrix, len(a.matrices)),
		start:    make(map[int]struct{}, len(a.start)),
		final:    make(map[int]struct{}, len(a.final)),
	}
	for sym, m := range a.matrices {
		b.matrices[sym] = m.Clone()
	}
	for _, i := range a.start {
		b.start[i] = struct{}{}
	}
	for _, i := range a.final {
		b.final[i] = struct{}{}
	}
	return b
}

func (b *builder[S]) state(s S) int {
	if i, ok := b.index[s]; ok {
		return i
	}
	i := len(b.states)
	b.states = append(b.states, s)
	b.index[s] = i
	return i
}

func (b *builder[S]) matrix(sym Symbol) *matrix.Matrix {
	m, ok := b.matrices[sym]
	if !ok {
		m = matrix.New(len(b.states), len(b.states))
		b.matrices[sym] = m
	}
	return m
}

func (b *builder[S]) build() *Automaton[S] {
	n := len(b.states)
	a := &Automaton[S]{
		states:   b.states,
		index:    b.index,
		matrices: make(map[Symbol]*matrix.Matrix, len(b.matrices)),
		start:    sortedIndices(b.start),
		final:    sortedIndices(b.final),
		isStart:  make([]bool, n),
		isFinal:  make([]bool, n),
	}
	// The alphabet only holds symbols that label at least one transition.
	for sym, m := range b.matrices {
		if m.Any() {
			a.matrices[sym] = m
		}
	}
	for _, i := range a.start {
		a.isStart[i] = true
	}
	for _, i := range a.final {
		a.isFinal[i] = true
	}
	return a
}

func sortedIndices(set map[int]struct{}) []int {
	res := make([]int, 0, len(set))
	for i := range set {
		res = append(res, i)
	}
	slices.Sort(res)
	return res
}
