package rsm

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/exp/ebnf"

	"github.com/liran-funaro/pathq/automaton"
	"github.com/liran-funaro/pathq/grammar"
	"github.com/liran-funaro/pathq/regex"
)

var ErrUnsupportedExpression = errors.New("unsupported EBNF expression")

// FromEBNF reads an EBNF grammar in the notation of golang.org/x/exp/ebnf.
// Every production becomes a box, production names are calls and quoted
// tokens are terminals:
//
//	S = "a" [ S ] "b" .
//
// Character ranges have no meaning over edge labels and are rejected.
func FromEBNF(name string, src io.Reader, start string) (*RSM, error) {
	g, err := ebnf.Parse(name, src)
	if err != nil {
		return nil, errors.Wrap(err, "parse grammar")
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, errors.Wrap(err, "verify grammar")
	}

	boxes := make(map[grammar.Variable]*Box, len(g))
	for prodName, prod := range g {
		c := ebnfCompiler{nfa: regex.NewNFA()}
		c.nfa.SetAccept(c.nfa.NewState())
		if err := c.compile(prod.Expr, c.nfa.Start(), c.nfa.Accept()); err != nil {
			return nil, errors.Wrapf(err, "compile production %q", prodName)
		}
		v := grammar.Variable(prodName)
		boxes[v] = &Box{Name: v, DFA: regex.Minimize(regex.Determinize(c.nfa))}
	}
	return newRSM(grammar.Variable(start), boxes)
}

type ebnfCompiler struct {
	nfa *regex.NFA
}

// compile adds transitions for expr between entry and exit.
func (c *ebnfCompiler) compile(expr ebnf.Expression, entry, exit int) error {
	switch e := expr.(type) {
	case nil:
		c.nfa.AddEpsilon(entry, exit)
	case *ebnf.Name:
		c.nfa.AddEdge(entry, automaton.Nonterminal(e.String), exit)
	case *ebnf.Token:
		c.nfa.AddEdge(entry, automaton.Terminal(e.String), exit)
	case ebnf.Sequence:
		cur := entry
		for i, sub := range e {
			next := exit
			if i < len(e)-1 {
				next = c.nfa.NewState()
			}
			if err := c.compile(sub, cur, next); err != nil {
				return err
			}
			cur = next
		}
		if len(e) == 0 {
			c.nfa.AddEpsilon(entry, exit)
		}
	case ebnf.Alternative:
		for _, sub := range e {
			if err := c.compile(sub, entry, exit); err != nil {
				return err
			}
		}
	case *ebnf.Group:
		return c.compile(e.Body, entry, exit)
	case *ebnf.Option:
		c.nfa.AddEpsilon(entry, exit)
		return c.compile(e.Body, entry, exit)
	case *ebnf.Repetition:
		loop := c.nfa.NewState()
		c.nfa.AddEpsilon(entry, loop)
		c.nfa.AddEpsilon(loop, exit)
		return c.compile(e.Body, loop, loop)
	default:
		return errors.Wrapf(ErrUnsupportedExpression, "%T", expr)
	}
	return nil
}
