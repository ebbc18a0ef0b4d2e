package exec

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/liran-funaro/pathq/graph"
	"github.com/liran-funaro/pathq/regex"
)

func (p *Params) addGraphFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.GraphFilename, "graph", "", "graph file (.yaml/.yml or edge list)")
	_ = cmd.MarkFlagRequired("graph")
}

func (p *Params) addCandidateFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&p.StartNodes, "start", nil, "start nodes (default all)")
	cmd.Flags().StringSliceVar(&p.FinalNodes, "final", nil, "final nodes (default all)")
}

// candidates returns nil for an unset flag, so that every node is used, and
// a non-nil slice otherwise, even when empty.
func candidates(cmd *cobra.Command, name string, values []string) []string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	if values == nil {
		return []string{}
	}
	return values
}

func (p *Params) runSingle(cmd *cobra.Command, q Query) error {
	g, err := graph.ReadFile(p.GraphFilename)
	if err != nil {
		return err
	}
	q.Start = candidates(cmd, "start", p.StartNodes)
	q.Final = candidates(cmd, "final", p.FinalNodes)
	res, err := p.RunQuery(cmd.Context(), g, q)
	if err != nil {
		return err
	}
	res.Query = ""
	return p.writeResults([]Result{res})
}

func (p *Params) rpqCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpq",
		Short: "Answer a regular path query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return p.runSingle(cmd, Query{Name: "rpq", Kind: KindRPQ, Engine: p.RPQEngine, Regex: p.Regex})
		},
	}
	p.addGraphFlag(cmd)
	p.addCandidateFlags(cmd)
	cmd.Flags().StringVar(&p.Regex, "regex", "", "query expression")
	cmd.Flags().StringVar(&p.RPQEngine, "engine", "tensor", "engine: tensor or msbfs")
	_ = cmd.MarkFlagRequired("regex")
	return cmd
}

func (p *Params) cfpqCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cfpq",
		Short: "Answer a context-free path query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := Query{Name: "cfpq", Kind: KindCFPQ, Engine: p.CFPQEngine, Symbol: p.Symbol}
			var err error
			if p.EBNFFilename != "" {
				q.EBNF, err = readFile(p.EBNFFilename)
			} else {
				q.Grammar, err = readFile(p.GrammarFilename)
			}
			if err != nil {
				return errors.Wrap(err, "grammar")
			}
			return p.runSingle(cmd, q)
		},
	}
	p.addGraphFlag(cmd)
	p.addCandidateFlags(cmd)
	cmd.Flags().StringVar(&p.GrammarFilename, "grammar", "", "grammar file, one 'Head -> body | body' per line")
	cmd.Flags().StringVar(&p.EBNFFilename, "ebnf", "", "EBNF grammar file")
	cmd.Flags().StringVar(&p.Symbol, "symbol", "S", "start nonterminal")
	cmd.Flags().StringVar(&p.CFPQEngine, "engine", "", "engine: hellings, matrix or tensor (default hellings, tensor for --ebnf)")
	cmd.MarkFlagsOneRequired("grammar", "ebnf")
	cmd.MarkFlagsMutuallyExclusive("grammar", "ebnf")
	return cmd
}

func (p *Params) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run JOB.hcl",
		Short: "Run every query of a job file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return p.RunJob(cmd.Context(), args[0])
		},
	}
}

func (p *Params) infoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print node and edge counts and the labels of a graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(p.GraphFilename)
			if err != nil {
				return err
			}
			return p.writeInfo(graph.Stats(g))
		},
	}
	p.addGraphFlag(cmd)
	return cmd
}

func (p *Params) genCommand() *cobra.Command {
	gen := &cobra.Command{
		Use:   "gen",
		Short: "Generate graphs",
	}
	var (
		labels []string
		out    string
	)
	twoCycles := &cobra.Command{
		Use:   "two-cycles N M",
		Short: "Two labeled cycles of N and M edges sharing node 0",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "first cycle size")
			}
			m, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrap(err, "second cycle size")
			}
			if len(labels) != 2 {
				return errors.Errorf("expected two labels, got %d", len(labels))
			}
			g, err := graph.TwoCycles(n, m, [2]string{labels[0], labels[1]})
			if err != nil {
				return err
			}
			if out == "" {
				return graph.WriteEdgeList(p.Stdout, g)
			}
			p.logger().WithField("out", out).Info("writing graph")
			return graph.WriteFile(out, g)
		},
	}
	twoCycles.Flags().StringSliceVar(&labels, "labels", []string{"a", "b"}, "labels of the two cycles")
	twoCycles.Flags().StringVar(&out, "out", "", "output file, stdout when empty")
	gen.AddCommand(twoCycles)
	return gen
}

func (p *Params) dotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Print the minimal automaton of a query expression in DOT format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := regex.Compile(p.Regex)
			if err != nil {
				return err
			}
			return d.Automaton().WriteDot(p.Stdout, "query")
		},
	}
	cmd.Flags().StringVar(&p.Regex, "regex", "", "query expression")
	_ = cmd.MarkFlagRequired("regex")
	return cmd
}
