package exec

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/liran-funaro/pathq/cfpq"
	"github.com/liran-funaro/pathq/grammar"
	"github.com/liran-funaro/pathq/graph"
	"github.com/liran-funaro/pathq/rpq"
	"github.com/liran-funaro/pathq/rsm"
)

const (
	KindRPQ  = "rpq"
	KindCFPQ = "cfpq"
)

// Query is one path query over a loaded graph. Regex is used by rpq queries,
// Grammar or EBNF (source text) by cfpq queries. Nil Start or Final means
// every node.
type Query struct {
	Name    string
	Kind    string
	Engine  string
	Regex   string
	Grammar string
	EBNF    string
	Symbol  string
	Start   []string
	Final   []string
}

// Result is the answer of a named query.
type Result struct {
	Query string               `yaml:"query,omitempty"`
	Pairs []graph.Pair[string] `yaml:"pairs"`
}

// RunQuery dispatches q to its engine.
func (p *Params) RunQuery(ctx context.Context, g *graph.Graph[string], q Query) (Result, error) {
	log := p.logger().WithFields(logrus.Fields{"query": q.Name, "kind": q.Kind, "engine": q.Engine})
	opts := []rpq.Option{rpq.WithLogger(log), rpq.WithMaxRounds(p.MaxRounds)}

	var (
		res graph.PairSet[string]
		err error
	)
	switch q.Kind {
	case KindRPQ:
		res, err = runRPQ(ctx, g, q, opts)
	case KindCFPQ:
		res, err = runCFPQ(ctx, g, q, opts)
	default:
		err = errors.Wrapf(ErrUnknownKind, "%q", q.Kind)
	}
	if err != nil {
		return Result{}, errors.Wrapf(err, "query %s", q.Name)
	}
	log.WithField("pairs", res.Len()).Info("query answered")
	return Result{Query: q.Name, Pairs: res.Sorted(strings.Compare)}, nil
}

func runRPQ(ctx context.Context, g *graph.Graph[string], q Query, opts []rpq.Option) (graph.PairSet[string], error) {
	if q.Regex == "" {
		return nil, errors.Wrap(ErrNoQuery, "rpq needs a regex")
	}
	switch q.Engine {
	case "", "tensor":
		return rpq.Tensor(ctx, q.Regex, g, q.Start, q.Final, opts...)
	case "msbfs":
		return rpq.MultiSourceBFS(ctx, q.Regex, g, q.Start, q.Final, opts...)
	default:
		return nil, errors.Wrapf(ErrUnknownEngine, "rpq %q", q.Engine)
	}
}

func runCFPQ(ctx context.Context, g *graph.Graph[string], q Query, opts []cfpq.Option) (graph.PairSet[string], error) {
	symbol := q.Symbol
	if symbol == "" {
		symbol = "S"
	}

	if q.EBNF != "" {
		if q.Engine != "" && q.Engine != "tensor" {
			return nil, errors.Wrapf(ErrUnknownEngine, "ebnf grammars run on the tensor engine, not %q", q.Engine)
		}
		r, err := rsm.FromEBNF(q.Name, strings.NewReader(q.EBNF), symbol)
		if err != nil {
			return nil, err
		}
		return cfpq.Tensor(ctx, r, g, q.Start, q.Final, opts...)
	}

	if q.Grammar == "" {
		return nil, errors.Wrap(ErrNoQuery, "cfpq needs a grammar")
	}
	cfg, err := grammar.Parse(q.Grammar, grammar.WithStart(grammar.Variable(symbol)))
	if err != nil {
		return nil, errors.Wrap(err, "parse grammar")
	}
	switch q.Engine {
	case "", "hellings":
		return cfpq.Hellings(ctx, cfg, g, q.Start, q.Final, opts...)
	case "matrix":
		return cfpq.Matrix(ctx, cfg, g, q.Start, q.Final, opts...)
	case "tensor":
		return cfpq.Tensor(ctx, rsm.FromCFG(cfg), g, q.Start, q.Final, opts...)
	default:
		return nil, errors.Wrapf(ErrUnknownEngine, "cfpq %q", q.Engine)
	}
}
