// Package rsm builds recursive state machines: one minimal automaton ("box")
// per nonterminal, whose transitions are terminals or calls of other boxes.
package rsm

import (
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/liran-funaro/pathq/automaton"
	"github.com/liran-funaro/pathq/grammar"
	"github.com/liran-funaro/pathq/regex"
)

var ErrNoStartBox = errors.New("no box for the start nonterminal")

// Box is the automaton of one nonterminal. Calls of other boxes are
// transitions labeled with their nonterminal tag.
type Box struct {
	Name grammar.Variable
	DFA  *regex.DFA
}

// State is a state of the flattened machine: an inner state of a box.
type State struct {
	Box   grammar.Variable
	Inner int
}

type RSM struct {
	Start grammar.Variable
	Boxes map[grammar.Variable]*Box
	tags  map[grammar.Variable]automaton.Symbol
}

func newRSM(start grammar.Variable, boxes map[grammar.Variable]*Box) (*RSM, error) {
	if _, ok := boxes[start]; !ok {
		return nil, errors.Wrapf(ErrNoStartBox, "%q", start)
	}
	r := &RSM{Start: start, Boxes: boxes, tags: make(map[grammar.Variable]automaton.Symbol, len(boxes))}
	for name := range boxes {
		r.tags[name] = name.Symbol()
	}
	return r, nil
}

// Names returns the box names, sorted.
func (r *RSM) Names() []grammar.Variable {
	res := make([]grammar.Variable, 0, len(r.Boxes))
	for name := range r.Boxes {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}

// Tags maps every box to the nonterminal tag labeling its calls and the
// summary edges it produces.
func (r *RSM) Tags() map[grammar.Variable]automaton.Symbol {
	return r.tags
}

// Automaton flattens r into a single automaton: the union of all boxes, with
// every box start state a start state and every box final state a final
// state.
func (r *RSM) Automaton() *automaton.Automaton[State] {
	var fa automaton.FA[State]
	for _, name := range r.Names() {
		box := r.Boxes[name]
		inner := box.DFA.FA()
		for _, s := range inner.States {
			fa.States = append(fa.States, State{Box: name, Inner: s})
		}
		for _, s := range inner.Start {
			fa.Start = append(fa.Start, State{Box: name, Inner: s})
		}
		for _, s := range inner.Final {
			fa.Final = append(fa.Final, State{Box: name, Inner: s})
		}
		for _, t := range inner.Transitions {
			fa.AddTransition(State{Box: name, Inner: t.From}, t.Label, State{Box: name, Inner: t.To})
		}
	}
	return automaton.New(fa)
}

// FromCFG builds one box per variable of cfg, accepting the union of its
// bodies.
func FromCFG(cfg *grammar.CFG) *RSM {
	nfas := make(map[grammar.Variable]*regex.NFA)
	for _, v := range cfg.Variables() {
		n := regex.NewNFA()
		n.SetAccept(n.NewState())
		nfas[v] = n
	}
	for _, p := range cfg.Productions {
		n := nfas[p.Head]
		if len(p.Body) == 0 {
			n.AddEpsilon(n.Start(), n.Accept())
			continue
		}
		cur := n.Start()
		for i, sym := range p.Body {
			next := n.Accept()
			if i < len(p.Body)-1 {
				next = n.NewState()
			}
			n.AddEdge(cur, sym, next)
			cur = next
		}
	}

	boxes := make(map[grammar.Variable]*Box, len(nfas))
	for v, n := range nfas {
		boxes[v] = &Box{Name: v, DFA: regex.Minimize(regex.Determinize(n))}
	}
	// cfg.Variables always includes the start variable.
	r, _ := newRSM(cfg.Start, boxes)
	return r
}

// FromText reads boxes given as query expressions, one "Head -> expr" per
// line:
//
//	S -> a S b | $
//
// Names starting with an upper-case letter inside expressions are calls.
// Several lines with the same head are alternatives.
func FromText(text string, start grammar.Variable) (*RSM, error) {
	var heads []grammar.Variable
	bodies := make(map[grammar.Variable][]string)
	for i, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		head, body, ok := strings.Cut(s, "->")
		if !ok {
			return nil, errors.Wrapf(grammar.ErrMissingArrow, "line %d", i+1)
		}
		head = strings.TrimSpace(head)
		if strings.ContainsAny(head, " \t") || !grammar.IsVariableName(head) {
			return nil, errors.Wrapf(grammar.ErrBadHead, "line %d: %q", i+1, head)
		}
		if _, err := regex.Parse(body); err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		v := grammar.Variable(head)
		if _, ok := bodies[v]; !ok {
			heads = append(heads, v)
		}
		bodies[v] = append(bodies[v], body)
	}

	boxes := make(map[grammar.Variable]*Box, len(heads))
	for _, v := range heads {
		expr := "(" + strings.Join(bodies[v], ")|(") + ")"
		d, err := regex.Compile(expr, regex.WithNonterminals(grammar.IsVariableName))
		if err != nil {
			return nil, errors.Wrapf(err, "box %s", v)
		}
		boxes[v] = &Box{Name: v, DFA: d}
	}
	return newRSM(start, boxes)
}
