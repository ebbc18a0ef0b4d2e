// Package grammar models context-free grammars and normalizes them into the
// weak Chomsky normal form consumed by the context-free path query engines.
package grammar

import (
	"bufio"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/liran-funaro/pathq/automaton"
)

var (
	ErrMissingArrow = errors.New("expected 'Head -> body'")
	ErrBadHead      = errors.New("production head must be a single variable")
)

// Variable names a nonterminal.
type Variable string

// Symbol returns the nonterminal tag of v.
func (v Variable) Symbol() automaton.Symbol {
	return automaton.Nonterminal(string(v))
}

// Production is Head -> Body. Body items are terminals or nonterminal tags; an
// empty body derives the empty word.
type Production struct {
	Head Variable
	Body []automaton.Symbol
}

func (p Production) String() string {
	if len(p.Body) == 0 {
		return string(p.Head) + " -> $"
	}
	parts := make([]string, len(p.Body))
	for i, s := range p.Body {
		parts[i] = s.Name
	}
	return string(p.Head) + " -> " + strings.Join(parts, " ")
}

type CFG struct {
	Start       Variable
	Productions []Production
}

// Add appends the production head -> body.
func (c *CFG) Add(head Variable, body ...automaton.Symbol) {
	c.Productions = append(c.Productions, Production{Head: head, Body: body})
}

// Variables returns every variable used as a head or in a body, sorted. The
// start variable is always included.
func (c *CFG) Variables() []Variable {
	set := map[Variable]struct{}{c.Start: {}}
	for _, p := range c.Productions {
		set[p.Head] = struct{}{}
		for _, s := range p.Body {
			if s.IsNonterminal() {
				set[Variable(s.Name)] = struct{}{}
			}
		}
	}
	res := make([]Variable, 0, len(set))
	for v := range set {
		res = append(res, v)
	}
	slices.Sort(res)
	return res
}

// String prints one line per head in the format read by Parse.
func (c *CFG) String() string {
	var heads []Variable
	bodies := make(map[Variable][]string)
	for _, p := range c.Productions {
		if _, ok := bodies[p.Head]; !ok {
			heads = append(heads, p.Head)
		}
		body := strings.TrimPrefix(p.String(), string(p.Head)+" -> ")
		bodies[p.Head] = append(bodies[p.Head], body)
	}
	var b strings.Builder
	for _, h := range heads {
		b.WriteString(string(h))
		b.WriteString(" -> ")
		b.WriteString(strings.Join(bodies[h], " | "))
		b.WriteString("\n")
	}
	return b.String()
}

// Nullable returns the variables deriving the empty word. Terminals are never
// nullable.
func (c *CFG) Nullable() map[Variable]bool {
	return nullable(c.Productions)
}

func nullable(prods []Production) map[Variable]bool {
	res := make(map[Variable]bool)
	for changed := true; changed; {
		changed = false
		for _, p := range prods {
			if res[p.Head] {
				continue
			}
			all := true
			for _, s := range p.Body {
				if !s.IsNonterminal() || !res[Variable(s.Name)] {
					all = false
					break
				}
			}
			if all {
				res[p.Head] = true
				changed = true
			}
		}
	}
	return res
}

// Generates reports whether c derives word.
func (c *CFG) Generates(word []string) bool {
	return ToWeakCNF(c).Generates(word)
}

type Option func(*options)

type options struct {
	start Variable
}

// WithStart sets the start variable. The default is S.
func WithStart(v Variable) Option {
	return func(o *options) {
		o.start = v
	}
}

// IsVariableName reports whether name denotes a variable: it starts with an
// upper-case letter.
func IsVariableName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func isEpsilon(name string) bool {
	return name == "$" || name == "ε" || name == "epsilon"
}

// Parse reads a grammar, one or more productions per line:
//
//	S -> a S b | $
//
// Names starting with an upper-case letter are variables, anything else is a
// terminal, and $, ε or epsilon stand for the empty word. Blank lines and
// lines starting with '#' are skipped. Only the first error is reported.
func Parse(text string, opts ...Option) (*CFG, error) {
	o := options{start: "S"}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := &CFG{Start: o.start}

	scanner := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		head, body, ok := strings.Cut(s, "->")
		if !ok {
			return nil, errors.Wrapf(ErrMissingArrow, "line %d", line)
		}
		head = strings.TrimSpace(head)
		if strings.ContainsFunc(head, unicode.IsSpace) || !IsVariableName(head) {
			return nil, errors.Wrapf(ErrBadHead, "line %d: %q", line, head)
		}
		for _, alt := range strings.Split(body, "|") {
			var syms []automaton.Symbol
			for _, name := range strings.Fields(alt) {
				switch {
				case isEpsilon(name):
				case IsVariableName(name):
					syms = append(syms, automaton.Nonterminal(name))
				default:
					syms = append(syms, automaton.Terminal(name))
				}
			}
			cfg.Add(Variable(head), syms...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read grammar")
	}
	return cfg, nil
}
