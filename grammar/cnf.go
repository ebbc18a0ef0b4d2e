package grammar

import (
	"fmt"
	"slices"
	"strings"

	"github.com/liran-funaro/pathq/automaton"
)

type TerminalRule struct {
	Head     Variable
	Terminal string
}

type BinaryRule struct {
	Head, Left, Right Variable
}

// WeakCNF is a grammar whose rules are A -> a or A -> B C. Variables deriving
// the empty word are listed in Nullable instead of having empty rules.
type WeakCNF struct {
	Start     Variable
	Terminals []TerminalRule
	Binaries  []BinaryRule
	Nullable  map[Variable]bool
}

// Variables returns every variable of the grammar, sorted.
func (w *WeakCNF) Variables() []Variable {
	set := map[Variable]struct{}{w.Start: {}}
	for _, r := range w.Terminals {
		set[r.Head] = struct{}{}
	}
	for _, r := range w.Binaries {
		set[r.Head] = struct{}{}
		set[r.Left] = struct{}{}
		set[r.Right] = struct{}{}
	}
	for v := range w.Nullable {
		set[v] = struct{}{}
	}
	res := make([]Variable, 0, len(set))
	for v := range set {
		res = append(res, v)
	}
	slices.Sort(res)
	return res
}

// NullableVariables returns the nullable variables, sorted.
func (w *WeakCNF) NullableVariables() []Variable {
	var res []Variable
	for v, ok := range w.Nullable {
		if ok {
			res = append(res, v)
		}
	}
	slices.Sort(res)
	return res
}

func (w *WeakCNF) String() string {
	var b strings.Builder
	for _, r := range w.Terminals {
		fmt.Fprintf(&b, "%s -> %s\n", r.Head, r.Terminal)
	}
	for _, r := range w.Binaries {
		fmt.Fprintf(&b, "%s -> %s %s\n", r.Head, r.Left, r.Right)
	}
	for _, v := range w.NullableVariables() {
		fmt.Fprintf(&b, "%s -> $\n", v)
	}
	return b.String()
}

// ToWeakCNF normalizes cfg. Terminals inside longer bodies are moved to fresh
// variables, long bodies are split into chains of binary rules, unit rules are
// replaced by the bodies they reach, and empty bodies are recorded in the
// nullable set. Variables that derive no word or cannot be reached from the
// start are pruned. The result generates exactly the words cfg generates,
// including the empty word.
func ToWeakCNF(cfg *CFG) *WeakCNF {
	names := newNamer(cfg)
	prods := binarize(cfg.Productions, names)
	null := nullable(prods)
	prods = removeUnits(prods)

	w := &WeakCNF{Start: cfg.Start, Nullable: make(map[Variable]bool)}
	seenT := make(map[TerminalRule]bool)
	seenB := make(map[BinaryRule]bool)
	for _, p := range prods {
		switch len(p.Body) {
		case 1:
			r := TerminalRule{Head: p.Head, Terminal: p.Body[0].Name}
			if !seenT[r] {
				seenT[r] = true
				w.Terminals = append(w.Terminals, r)
			}
		case 2:
			r := BinaryRule{Head: p.Head, Left: Variable(p.Body[0].Name), Right: Variable(p.Body[1].Name)}
			if !seenB[r] {
				seenB[r] = true
				w.Binaries = append(w.Binaries, r)
			}
		}
	}
	for v, ok := range null {
		if ok {
			w.Nullable[v] = true
		}
	}
	w.prune()
	return w
}

// namer hands out variable names unused by the grammar.
type namer struct {
	used map[Variable]bool
	term map[string]Variable
}

func newNamer(cfg *CFG) *namer {
	n := &namer{used: make(map[Variable]bool), term: make(map[string]Variable)}
	for _, v := range cfg.Variables() {
		n.used[v] = true
	}
	return n
}

func (n *namer) fresh(base string) Variable {
	v := Variable(base)
	for i := 1; n.used[v]; i++ {
		v = Variable(fmt.Sprintf("%s#%d", base, i))
	}
	n.used[v] = true
	return v
}

// terminal returns the variable deriving exactly the terminal t.
func (n *namer) terminal(t string) Variable {
	if v, ok := n.term[t]; ok {
		return v
	}
	v := n.fresh("T[" + t + "]")
	n.term[t] = v
	return v
}

// binarize leaves bodies of length zero or one alone and rewrites longer ones
// into binary rules over variables only.
func binarize(prods []Production, names *namer) []Production {
	var res []Production
	termRules := make(map[Variable]bool)
	for _, p := range prods {
		if len(p.Body) < 2 {
			res = append(res, p)
			continue
		}
		body := make([]automaton.Symbol, len(p.Body))
		for i, s := range p.Body {
			if s.IsNonterminal() {
				body[i] = s
				continue
			}
			v := names.terminal(s.Name)
			if !termRules[v] {
				termRules[v] = true
				res = append(res, Production{Head: v, Body: []automaton.Symbol{s}})
			}
			body[i] = v.Symbol()
		}
		head := p.Head
		for len(body) > 2 {
			next := names.fresh(string(p.Head))
			res = append(res, Production{Head: head, Body: []automaton.Symbol{body[0], next.Symbol()}})
			head, body = next, body[1:]
		}
		res = append(res, Production{Head: head, Body: body})
	}
	return res
}

// removeUnits replaces every unit rule A -> B by A -> x for each non-unit body
// x of a variable reachable from A through unit rules. Empty bodies are
// dropped.
func removeUnits(prods []Production) []Production {
	isUnit := func(p Production) bool {
		return len(p.Body) == 1 && p.Body[0].IsNonterminal()
	}
	units := make(map[Variable][]Variable)
	bodies := make(map[Variable][]Production)
	var heads []Variable
	for _, p := range prods {
		if _, ok := bodies[p.Head]; !ok {
			heads = append(heads, p.Head)
			bodies[p.Head] = nil
		}
		switch {
		case isUnit(p):
			units[p.Head] = append(units[p.Head], Variable(p.Body[0].Name))
		case len(p.Body) > 0:
			bodies[p.Head] = append(bodies[p.Head], p)
		}
	}

	var res []Production
	for _, a := range heads {
		seen := map[Variable]bool{a: true}
		stack := []Variable{a}
		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, p := range bodies[b] {
				res = append(res, Production{Head: a, Body: p.Body})
			}
			for _, c := range units[b] {
				if !seen[c] {
					seen[c] = true
					stack = append(stack, c)
				}
			}
		}
	}
	return res
}

// prune drops variables that derive no word, then variables unreachable from
// the start.
func (w *WeakCNF) prune() {
	gen := make(map[Variable]bool)
	for v := range w.Nullable {
		gen[v] = true
	}
	for _, r := range w.Terminals {
		gen[r.Head] = true
	}
	for changed := true; changed; {
		changed = false
		for _, r := range w.Binaries {
			if !gen[r.Head] && gen[r.Left] && gen[r.Right] {
				gen[r.Head] = true
				changed = true
			}
		}
	}
	w.Binaries = slices.DeleteFunc(w.Binaries, func(r BinaryRule) bool {
		return !gen[r.Head] || !gen[r.Left] || !gen[r.Right]
	})

	reach := map[Variable]bool{w.Start: true}
	for changed := true; changed; {
		changed = false
		for _, r := range w.Binaries {
			if reach[r.Head] && (!reach[r.Left] || !reach[r.Right]) {
				reach[r.Left], reach[r.Right] = true, true
				changed = true
			}
		}
	}
	w.Binaries = slices.DeleteFunc(w.Binaries, func(r BinaryRule) bool { return !reach[r.Head] })
	w.Terminals = slices.DeleteFunc(w.Terminals, func(r TerminalRule) bool { return !reach[r.Head] })
	for v := range w.Nullable {
		if !reach[v] {
			delete(w.Nullable, v)
		}
	}
}
