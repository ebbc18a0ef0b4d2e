package automaton

import (
	"fmt"
	"io"
	"strings"
)

// WriteDot prints a in DOT format. Start states are boxes, final states are
// filled green.
//
//	$ dot -Tsvg input.dot -o output.svg
func (a *Automaton[S]) WriteDot(out io.Writer, id string) error {
	w := dotWriter{out: out}
	w.printf("digraph %v {\n", id)
	for i, s := range a.states {
		var attrs []string
		attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprint(s)))
		if a.isStart[i] {
			attrs = append(attrs, "shape=box")
		}
		if a.isFinal[i] {
			attrs = append(attrs, "style=filled", "color=green")
		}
		w.printf("  %d[%s];\n", i, strings.Join(attrs, ","))
	}
	for _, sym := range a.Alphabet() {
		style := ""
		if sym.IsNonterminal() {
			style = ",color=blue"
		}
		a.matrices[sym].Each(func(i, j int) {
			w.printf("  %d -> %d[label=%q%s];\n", i, j, sym.Name, style)
		})
	}
	w.printf("}\n")
	return w.err
}

type dotWriter struct {
	out io.Writer
	err error
}

// printf keeps the first write error and drops everything after it.
func (w *dotWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}
