package graph

import (
	"github.com/pkg/errors"
)

var ErrBadCycleSize = errors.New("cycle size must be positive")

// TwoCycles builds two directed cycles sharing node 0. The first cycle is
// 0 -> 1 -> ... -> n -> 0 labeled labels[0], the second is
// 0 -> n+1 -> ... -> n+m -> 0 labeled labels[1].
func TwoCycles(n, m int, labels [2]string) (*Graph[int], error) {
	if n <= 0 || m <= 0 {
		return nil, errors.Wrapf(ErrBadCycleSize, "two-cycles %d %d", n, m)
	}
	g := New[int]()
	for i := 0; i <= n+m; i++ {
		g.AddNode(i)
	}
	for i := 0; i < n; i++ {
		g.AddEdge(i, labels[0], i+1)
	}
	g.AddEdge(n, labels[0], 0)

	g.AddEdge(0, labels[1], n+1)
	for i := n + 1; i < n+m; i++ {
		g.AddEdge(i, labels[1], i+1)
	}
	g.AddEdge(n+m, labels[1], 0)
	return g, nil
}
