package automaton

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/liran-funaro/pathq/matrix"
)

// Pair is a state of a product automaton.
type Pair[A, B comparable] struct {
	First  A
	Second B
}

// Intersect builds the synchronized product of a and b. The state (s1, s2) is
// stored at index a.Index(s1)*b.StateCount() + b.Index(s2). Only symbols present
// in both alphabets survive; start and final sets are Cartesian products.
func Intersect[A, B comparable](a *Automaton[A], b *Automaton[B]) *Automaton[Pair[A, B]] {
	na, nb := a.StateCount(), b.StateCount()
	res := newBuilder[Pair[A, B]](na * nb)
	for _, s1 := range a.states {
		for _, s2 := range b.states {
			res.state(Pair[A, B]{First: s1, Second: s2})
		}
	}

	var shared []Symbol
	for _, sym := range a.Alphabet() {
		if b.HasSymbol(sym) {
			shared = append(shared, sym)
		}
	}

	// Kronecker products of different symbols are independent.
	products := make([]*matrix.Matrix, len(shared))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sym := range shared {
		g.Go(func() error {
			products[i] = matrix.Kron(a.matrices[sym], b.matrices[sym])
			return nil
		})
	}
	// Kron never fails, so Wait only joins.
	_ = g.Wait()
	for i, sym := range shared {
		res.matrices[sym] = products[i]
	}

	for _, i := range a.start {
		for _, j := range b.start {
			res.start[i*nb+j] = struct{}{}
		}
	}
	for _, i := range a.final {
		for _, j := range b.final {
			res.final[i*nb+j] = struct{}{}
		}
	}
	return res.build()
}
