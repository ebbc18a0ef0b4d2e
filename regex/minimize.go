package regex

import (
	"fmt"
	"strings"

	"github.com/liran-funaro/pathq/automaton"
)

// Minimize returns the minimal partial DFA accepting the language of d.
// Unreachable states and states that cannot reach a final state are removed,
// except for the start state which is always kept. States are renumbered in
// breadth-first order from the start, following the sorted alphabet, so two
// DFAs of the same language minimize to identical results.
func Minimize(d *DFA) *DFA {
	alphabet := d.Alphabet()
	live := liveStates(d)

	// Moore refinement: start from the accepting split and refine on the
	// classes of successors until the number of classes stops growing.
	class := make([]int, d.StateCount())
	for s := range class {
		if !live[s] {
			class[s] = -1
		} else if d.accept[s] {
			class[s] = 1
		}
	}
	count := 0
	for {
		tab := make(map[string]int)
		next := make([]int, len(class))
		var sig strings.Builder
		for s := range class {
			if !live[s] {
				next[s] = -1
				continue
			}
			sig.Reset()
			fmt.Fprintf(&sig, "%d", class[s])
			for _, sym := range alphabet {
				t, ok := d.trans[s][sym]
				if !ok || !live[t] {
					sig.WriteString(",-")
					continue
				}
				fmt.Fprintf(&sig, ",%d", class[t])
			}
			id, found := tab[sig.String()]
			if !found {
				id = len(tab)
				tab[sig.String()] = id
			}
			next[s] = id
		}
		class = next
		if len(tab) == count {
			break
		}
		count = len(tab)
	}

	// Canonical numbering.
	order := make(map[int]int)
	rep := make([]int, 0, count)
	order[class[d.Start()]] = 0
	rep = append(rep, d.Start())
	res := &DFA{}
	for i := 0; i < len(rep); i++ {
		s := rep[i]
		res.trans = append(res.trans, make(map[automaton.Symbol]int))
		res.accept = append(res.accept, d.accept[s])
		for _, sym := range alphabet {
			t, ok := d.trans[s][sym]
			if !ok || !live[t] {
				continue
			}
			id, found := order[class[t]]
			if !found {
				id = len(rep)
				order[class[t]] = id
				rep = append(rep, t)
			}
			res.trans[i][sym] = id
		}
	}
	return res
}

// liveStates marks the states that are reachable from the start and can reach
// a final state. The start state is always live.
func liveStates(d *DFA) []bool {
	n := d.StateCount()
	reach := make([]bool, n)
	reach[d.Start()] = true
	stack := []int{d.Start()}
	rev := make([][]int, n)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range d.trans[s] {
			rev[t] = append(rev[t], s)
			if !reach[t] {
				reach[t] = true
				stack = append(stack, t)
			}
		}
	}

	live := make([]bool, n)
	for s := 0; s < n; s++ {
		if reach[s] && d.accept[s] {
			live[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range rev[s] {
			if !live[p] {
				live[p] = true
				stack = append(stack, p)
			}
		}
	}
	live[d.Start()] = true
	return live
}
