// Package regex compiles path query expressions into minimal deterministic
// automata over whole-word symbols.
//
// The alphabet is made of symbols, not runes: `subClassOf type*` is the
// concatenation of the symbol "subClassOf" with the closure of "type".
//
//	expr     := cat ('|' cat)*
//	cat      := closure*              (juxtaposition or '.')
//	closure  := term ('*' | '+' | '?')*
//	term     := symbol | '$' | '(' expr ')'
//
// '$' and an empty alternative both denote the empty word. '+' is the postfix
// one-or-more operator, not union: write `a | b`, never `a + b`, for a choice.
package regex

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/liran-funaro/pathq/automaton"
)

// NFA is a nondeterministic automaton with epsilon moves, a single start state
// and a single accepting state. It is the common input of Determinize for both
// query expressions and grammar boxes.
type NFA struct {
	edges  [][]nfaEdge
	start  int
	accept int
}

type nfaEdge struct {
	epsilon bool
	label   automaton.Symbol
	dst     int
}

// NewNFA returns an NFA with a fresh start state that is also accepting.
func NewNFA() *NFA {
	n := &NFA{}
	n.start = n.NewState()
	n.accept = n.start
	return n
}

func (n *NFA) NewState() int {
	n.edges = append(n.edges, nil)
	return len(n.edges) - 1
}

func (n *NFA) AddEdge(src int, label automaton.Symbol, dst int) {
	n.edges[src] = append(n.edges[src], nfaEdge{label: label, dst: dst})
}

func (n *NFA) AddEpsilon(src, dst int) {
	n.edges[src] = append(n.edges[src], nfaEdge{epsilon: true, dst: dst})
}

func (n *NFA) Start() int      { return n.start }
func (n *NFA) Accept() int     { return n.accept }
func (n *NFA) SetStart(s int)  { n.start = s }
func (n *NFA) SetAccept(s int) { n.accept = s }
func (n *NFA) StateCount() int { return len(n.edges) }

const (
	tSymbol = iota
	tAlt
	tStar
	tPlus
	tQuest
	tLpar
	tRpar
	tDot
	tEpsilon
)

type token struct {
	kind   int
	text   string
	offset int
}

const operators = "|*+?().$"

func tokenize(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		r, size := utf8.DecodeRuneInString(expr[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, &QuerySyntaxError{Expr: expr, Offset: i, Err: ErrInvalidCharacter}
		}
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		if k := strings.IndexRune(operators, r); k >= 0 {
			tokens = append(tokens, token{kind: tAlt + k, text: string(r), offset: i})
			i += size
			continue
		}
		start := i
		for i < len(expr) {
			r, size = utf8.DecodeRuneInString(expr[i:])
			if unicode.IsSpace(r) || strings.ContainsRune(operators, r) || (r == utf8.RuneError && size <= 1) {
				break
			}
			i += size
		}
		tokens = append(tokens, token{kind: tSymbol, text: expr[start:i], offset: start})
	}
	return tokens, nil
}

// Option configures how symbol names are classified.
type Option func(*options)

type options struct {
	isNonterminal func(string) bool
}

// WithNonterminals makes every symbol name accepted by pred a nonterminal tag
// instead of a terminal label.
func WithNonterminals(pred func(name string) bool) Option {
	return func(o *options) {
		o.isNonterminal = pred
	}
}

func applyOptions(opts []Option) options {
	o := options{isNonterminal: func(string) bool { return false }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse builds a Thompson NFA for expr.
func Parse(expr string, opts ...Option) (*NFA, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	b := nfaBuilder{
		expr:    expr,
		tokens:  tokens,
		options: applyOptions(opts),
		nfa:     &NFA{},
	}
	start, end := b.pRe()
	if b.err != nil {
		return nil, b.err
	}
	b.nfa.start, b.nfa.accept = start, end
	return b.nfa, nil
}

type nfaBuilder struct {
	expr     string
	tokens   []token
	pos      int
	isNested bool
	options  options
	nfa      *NFA
	err      error
}

// reportError keeps the first error only.
func (b *nfaBuilder) reportError(err error) {
	if b.err != nil {
		return
	}
	offset := len(b.expr)
	if b.pos < len(b.tokens) {
		offset = b.tokens[b.pos].offset
	}
	b.err = &QuerySyntaxError{Expr: b.expr, Offset: offset, Err: err}
}

func (b *nfaBuilder) peek() (token, bool) {
	if b.err != nil || b.pos >= len(b.tokens) {
		return token{}, false
	}
	return b.tokens[b.pos], true
}

func (b *nfaBuilder) symbol(name string) automaton.Symbol {
	if b.options.isNonterminal(name) {
		return automaton.Nonterminal(name)
	}
	return automaton.Terminal(name)
}

func (b *nfaBuilder) epsilon() (start, end int) {
	start, end = b.nfa.NewState(), b.nfa.NewState()
	b.nfa.AddEpsilon(start, end)
	return
}

func (b *nfaBuilder) pTerm() (start, end int) {
	t, ok := b.peek()
	if !ok {
		return b.epsilon()
	}
	switch t.kind {
	case tStar, tPlus, tQuest:
		b.reportError(ErrBareClosure)
		return b.epsilon()
	case tLpar:
		b.pos++
		oldIsNested := b.isNested
		b.isNested = true
		start, end = b.pRe()
		b.isNested = oldIsNested
		if t, ok := b.peek(); !ok || t.kind != tRpar {
			b.reportError(ErrUnmatchedLpar)
			return
		}
	case tEpsilon:
		start, end = b.epsilon()
	case tSymbol:
		start, end = b.nfa.NewState(), b.nfa.NewState()
		b.nfa.AddEdge(start, b.symbol(t.text), end)
	default:
		b.reportError(ErrUnexpectedToken)
		return b.epsilon()
	}
	b.pos++
	return
}

func (b *nfaBuilder) pClosure() (start, end int) {
	start, end = b.pTerm()
	for {
		t, ok := b.peek()
		if !ok {
			return
		}
		switch t.kind {
		case tStar:
			nStart, nEnd := b.nfa.NewState(), b.nfa.NewState()
			b.nfa.AddEpsilon(nStart, start)
			b.nfa.AddEpsilon(end, start)
			b.nfa.AddEpsilon(end, nEnd)
			b.nfa.AddEpsilon(nStart, nEnd)
			start, end = nStart, nEnd
		case tPlus:
			nStart, nEnd := b.nfa.NewState(), b.nfa.NewState()
			b.nfa.AddEpsilon(nStart, start)
			b.nfa.AddEpsilon(end, start)
			b.nfa.AddEpsilon(end, nEnd)
			start, end = nStart, nEnd
		case tQuest:
			nStart := b.nfa.NewState()
			b.nfa.AddEpsilon(nStart, start)
			b.nfa.AddEpsilon(nStart, end)
			start = nStart
		default:
			return
		}
		b.pos++
	}
}

func (b *nfaBuilder) pCat() (start, end int) {
	start, end = b.epsilon()
	for {
		t, ok := b.peek()
		if !ok || t.kind == tAlt || t.kind == tRpar {
			return
		}
		if t.kind == tDot {
			b.pos++
			continue
		}
		nStart, nEnd := b.pClosure()
		b.nfa.AddEpsilon(end, nStart)
		end = nEnd
	}
}

func (b *nfaBuilder) pRe() (start, end int) {
	start, end = b.pCat()
	for {
		t, ok := b.peek()
		if !ok {
			return
		}
		if t.kind == tRpar {
			if !b.isNested {
				b.reportError(ErrUnmatchedRpar)
			}
			return
		}
		if t.kind != tAlt {
			b.reportError(ErrUnexpectedToken)
			return
		}
		b.pos++
		nStart, nEnd := b.pCat()
		tmp := b.nfa.NewState()
		b.nfa.AddEpsilon(tmp, start)
		b.nfa.AddEpsilon(tmp, nStart)
		start = tmp
		tmp = b.nfa.NewState()
		b.nfa.AddEpsilon(end, tmp)
		b.nfa.AddEpsilon(nEnd, tmp)
		end = tmp
	}
}
