// Package graph holds directed edge-labeled multigraphs, the node-pair sets
// returned by path queries, and the file formats graphs are loaded from.
package graph

import (
	"slices"

	"github.com/liran-funaro/pathq/automaton"
)

type Edge[N comparable] struct {
	From  N
	Label string
	To    N
}

// Graph is a directed multigraph with string edge labels. Nodes keep their
// insertion order.
type Graph[N comparable] struct {
	nodes []N
	index map[N]int
	edges []Edge[N]
}

func New[N comparable]() *Graph[N] {
	return &Graph[N]{index: make(map[N]int)}
}

// AddNode adds n if it is not already a node of g.
func (g *Graph[N]) AddNode(n N) {
	if _, ok := g.index[n]; ok {
		return
	}
	g.index[n] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// AddEdge adds an edge and both of its endpoints. Parallel edges are kept.
func (g *Graph[N]) AddEdge(from N, label string, to N) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges = append(g.edges, Edge[N]{From: from, Label: label, To: to})
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph[N]) Nodes() []N { return g.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph[N]) Edges() []Edge[N] { return g.edges }

func (g *Graph[N]) NodeCount() int { return len(g.nodes) }
func (g *Graph[N]) EdgeCount() int { return len(g.edges) }

func (g *Graph[N]) HasNode(n N) bool {
	_, ok := g.index[n]
	return ok
}

// Labels returns the distinct edge labels, sorted.
func (g *Graph[N]) Labels() []string {
	set := make(map[string]struct{})
	var res []string
	for _, e := range g.edges {
		if _, ok := set[e.Label]; !ok {
			set[e.Label] = struct{}{}
			res = append(res, e.Label)
		}
	}
	slices.Sort(res)
	return res
}

// Candidates resolves a candidate node list: nil means every node, unknown
// nodes are dropped and duplicates removed.
func (g *Graph[N]) Candidates(nodes []N) []N {
	if nodes == nil {
		return g.nodes
	}
	res := make([]N, 0, len(nodes))
	seen := make(map[N]struct{}, len(nodes))
	for _, n := range nodes {
		if _, ok := seen[n]; ok || !g.HasNode(n) {
			continue
		}
		seen[n] = struct{}{}
		res = append(res, n)
	}
	return res
}

// Automaton returns the Boolean automaton of g: every node is a state, every
// edge a terminal transition. start and final are resolved with Candidates.
// Node i of g is state i of the automaton.
func Automaton[N comparable](g *Graph[N], start, final []N) *automaton.Automaton[N] {
	fa := automaton.FA[N]{
		States: g.nodes,
		Start:  g.Candidates(start),
		Final:  g.Candidates(final),
	}
	fa.Transitions = make([]automaton.Transition[N], len(g.edges))
	for i, e := range g.edges {
		fa.Transitions[i] = automaton.Transition[N]{From: e.From, Label: automaton.Terminal(e.Label), To: e.To}
	}
	return automaton.New(fa)
}

// Info summarizes a graph.
type Info struct {
	Nodes  int      `yaml:"nodes"`
	Edges  int      `yaml:"edges"`
	Labels []string `yaml:"labels"`
}

func Stats[N comparable](g *Graph[N]) Info {
	return Info{
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
		Labels: g.Labels(),
	}
}
