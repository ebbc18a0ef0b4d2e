package regex

import (
	"slices"

	"github.com/liran-funaro/pathq/automaton"
)

// DFA is a partial deterministic automaton: a missing transition rejects.
// State 0 is always the start state.
type DFA struct {
	trans  []map[automaton.Symbol]int
	accept []bool
}

func (d *DFA) StateCount() int { return len(d.trans) }

// Start returns the start state.
func (d *DFA) Start() int { return 0 }

func (d *DFA) IsFinal(s int) bool { return d.accept[s] }

// Next returns the successor of s on sym.
func (d *DFA) Next(s int, sym automaton.Symbol) (int, bool) {
	t, ok := d.trans[s][sym]
	return t, ok
}

// Alphabet returns every symbol labeling a transition, sorted.
func (d *DFA) Alphabet() []automaton.Symbol {
	set := make(map[automaton.Symbol]struct{})
	for _, tr := range d.trans {
		for sym := range tr {
			set[sym] = struct{}{}
		}
	}
	return sortedSymbols(set)
}

func (d *DFA) Accepts(word []automaton.Symbol) bool {
	s := d.Start()
	for _, sym := range word {
		next, ok := d.Next(s, sym)
		if !ok {
			return false
		}
		s = next
	}
	return d.accept[s]
}

// FA describes d for automaton.New. States are the DFA state numbers.
func (d *DFA) FA() automaton.FA[int] {
	fa := automaton.FA[int]{Start: []int{d.Start()}}
	for s := range d.trans {
		fa.States = append(fa.States, s)
		if d.accept[s] {
			fa.Final = append(fa.Final, s)
		}
		for _, sym := range sortedSymbols(symbolSet(d.trans[s])) {
			fa.AddTransition(s, sym, d.trans[s][sym])
		}
	}
	return fa
}

// Automaton returns the Boolean automaton of d.
func (d *DFA) Automaton() *automaton.Automaton[int] {
	return automaton.New(d.FA())
}

// Determinize runs the subset construction on n. Only non-empty subsets become
// states, so the result has no dead sink state.
func Determinize(n *NFA) *DFA {
	b := dfaBuilder{
		nfa: n,
		tab: make(map[string]int),
		res: &DFA{},
	}

	st := make([]bool, n.StateCount())
	st[n.start] = true
	// The DFA start state is the nil-closure of the NFA start state; it gets
	// index 0 since it is created first.
	b.get(st)

	for len(b.todo) > 0 {
		v := b.todo[len(b.todo)-1]
		b.todo = b.todo[:len(b.todo)-1]
		set := b.sets[v]

		moves := make(map[automaton.Symbol][]bool)
		for _, i := range set {
			for _, e := range n.edges[i] {
				if e.epsilon {
					continue
				}
				next, ok := moves[e.label]
				if !ok {
					next = make([]bool, n.StateCount())
					moves[e.label] = next
				}
				next[e.dst] = true
			}
		}
		for _, sym := range sortedSymbols(symbolSet(moves)) {
			b.res.trans[v][sym] = b.get(moves[sym])
		}
	}
	return b.res
}

type dfaBuilder struct {
	nfa  *NFA
	tab  map[string]int
	sets [][]int
	todo []int
	res  *DFA
}

// nilClose adds every state reachable through epsilon moves.
func (b *dfaBuilder) nilClose(st []bool) {
	var stack []int
	for i, v := range st {
		if v {
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range b.nfa.edges[i] {
			if e.epsilon && !st[e.dst] {
				st[e.dst] = true
				stack = append(stack, e.dst)
			}
		}
	}
}

func (b *dfaBuilder) get(st []bool) int {
	b.nilClose(st)
	buf := make([]byte, len(st))
	var set []int
	for i, v := range st {
		if v {
			buf[i] = '1'
			set = append(set, i)
		} else {
			buf[i] = '0'
		}
	}
	if id, found := b.tab[string(buf)]; found {
		return id
	}
	id := len(b.res.trans)
	b.tab[string(buf)] = id
	b.sets = append(b.sets, set)
	b.res.trans = append(b.res.trans, make(map[automaton.Symbol]int))
	b.res.accept = append(b.res.accept, st[b.nfa.accept])
	b.todo = append(b.todo, id)
	return id
}

func symbolSet[V any](m map[automaton.Symbol]V) map[automaton.Symbol]struct{} {
	set := make(map[automaton.Symbol]struct{}, len(m))
	for sym := range m {
		set[sym] = struct{}{}
	}
	return set
}

func sortedSymbols(set map[automaton.Symbol]struct{}) []automaton.Symbol {
	res := make([]automaton.Symbol, 0, len(set))
	for sym := range set {
		res = append(res, sym)
	}
	slices.SortFunc(res, func(a, b automaton.Symbol) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return res
}
