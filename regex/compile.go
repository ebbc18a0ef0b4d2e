package regex

// Compile parses expr and returns its minimal DFA.
func Compile(expr string, opts ...Option) (*DFA, error) {
	nfa, err := Parse(expr, opts...)
	if err != nil {
		return nil, err
	}
	return Minimize(Determinize(nfa)), nil
}

// MustCompile is like Compile but panics on a malformed expression.
func MustCompile(expr string, opts ...Option) *DFA {
	d, err := Compile(expr, opts...)
	if err != nil {
		panic(err)
	}
	return d
}
