package automaton

import "cmp"

type SymbolKind int

const (
	// TerminalLabel marks symbols read from graph edges and query expressions.
	TerminalLabel SymbolKind = iota
	// NonterminalTag marks box calls of a recursive automaton and the summary
	// edges derived from them.
	NonterminalTag
)

// Symbol labels a transition. Two symbols are equal only if both name and kind
// match, so a terminal "S" never collides with the nonterminal tag "S".
type Symbol struct {
	Name string
	Kind SymbolKind
}

func Terminal(name string) Symbol {
	return Symbol{Name: name, Kind: TerminalLabel}
}

func Nonterminal(name string) Symbol {
	return Symbol{Name: name, Kind: NonterminalTag}
}

func (s Symbol) IsNonterminal() bool {
	return s.Kind == NonterminalTag
}

func (s Symbol) String() string {
	if s.Kind == NonterminalTag {
		return "<" + s.Name + ">"
	}
	return s.Name
}

// Terminals converts a list of names into terminal symbols.
func Terminals(names ...string) []Symbol {
	res := make([]Symbol, len(names))
	for i, n := range names {
		res[i] = Terminal(n)
	}
	return res
}

func compareSymbols(a, b Symbol) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
