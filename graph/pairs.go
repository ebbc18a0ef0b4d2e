package graph

import (
	"slices"
)

// Pair is a (start, final) answer of a path query.
type Pair[N comparable] struct {
	From N `yaml:"from"`
	To   N `yaml:"to"`
}

// PairSet is a set of node pairs. The zero value is nil; use NewPairSet before
// adding.
type PairSet[N comparable] map[Pair[N]]struct{}

func NewPairSet[N comparable](pairs ...Pair[N]) PairSet[N] {
	s := make(PairSet[N], len(pairs))
	for _, p := range pairs {
		s[p] = struct{}{}
	}
	return s
}

func (s PairSet[N]) Add(from, to N) {
	s[Pair[N]{From: from, To: to}] = struct{}{}
}

func (s PairSet[N]) Contains(from, to N) bool {
	_, ok := s[Pair[N]{From: from, To: to}]
	return ok
}

func (s PairSet[N]) Len() int { return len(s) }

// Slice returns the pairs in unspecified order.
func (s PairSet[N]) Slice() []Pair[N] {
	res := make([]Pair[N], 0, len(s))
	for p := range s {
		res = append(res, p)
	}
	return res
}

// Sorted returns the pairs ordered by From, then To, according to cmp.
func (s PairSet[N]) Sorted(cmp func(a, b N) int) []Pair[N] {
	res := s.Slice()
	slices.SortFunc(res, func(a, b Pair[N]) int {
		if c := cmp(a.From, b.From); c != 0 {
			return c
		}
		return cmp(a.To, b.To)
	})
	return res
}

func (s PairSet[N]) Equal(o PairSet[N]) bool {
	if len(s) != len(o) {
		return false
	}
	for p := range s {
		if _, ok := o[p]; !ok {
			return false
		}
	}
	return true
}
