package exec

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"

	"github.com/liran-funaro/pathq/graph"
)

// Job is a batch of queries over one graph, read from an HCL file:
//
//	graph = "${env.DATA}/edges.txt"
//
//	query "anbn" {
//	  kind    = "cfpq"
//	  engine  = "matrix"
//	  grammar = <<EOT
//	S -> a S b | $
//	EOT
//	  start = ["0"]
//	}
//
// A relative graph path is resolved against the job file's directory.
type Job struct {
	Graph   string     `hcl:"graph"`
	Queries []JobQuery `hcl:"query,block"`
}

type JobQuery struct {
	Name    string   `hcl:"name,label"`
	Kind    string   `hcl:"kind"`
	Engine  string   `hcl:"engine,optional"`
	Regex   string   `hcl:"regex,optional"`
	Grammar string   `hcl:"grammar,optional"`
	EBNF    string   `hcl:"ebnf,optional"`
	Symbol  string   `hcl:"symbol,optional"`
	Start   []string `hcl:"start,optional"`
	Final   []string `hcl:"final,optional"`
}

func (q JobQuery) query() Query {
	return Query{
		Name:    q.Name,
		Kind:    q.Kind,
		Engine:  q.Engine,
		Regex:   q.Regex,
		Grammar: q.Grammar,
		EBNF:    q.EBNF,
		Symbol:  q.Symbol,
		Start:   q.Start,
		Final:   q.Final,
	}
}

// envContext exposes the process environment as the env object.
func envContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// LoadJob parses and decodes a job file.
func LoadJob(path string) (*Job, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parse job %s", path)
	}

	var job Job
	if diags := gohcl.DecodeBody(file.Body, envContext(), &job); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decode job %s", path)
	}
	if !filepath.IsAbs(job.Graph) {
		job.Graph = filepath.Join(filepath.Dir(path), job.Graph)
	}
	return &job, nil
}

// RunJob runs every query of the job file in order and writes all results.
func (p *Params) RunJob(ctx context.Context, path string) error {
	job, err := LoadJob(path)
	if err != nil {
		return err
	}
	g, err := graph.ReadFile(job.Graph)
	if err != nil {
		return err
	}
	p.logger().WithField("job", path).WithField("queries", len(job.Queries)).Info("running job")

	results := make([]Result, 0, len(job.Queries))
	for _, q := range job.Queries {
		res, err := p.RunQuery(ctx, g, q.query())
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	return p.writeResults(results)
}
