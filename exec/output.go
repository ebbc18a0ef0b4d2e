package exec

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/liran-funaro/pathq/graph"
)

// writeResults prints results in the selected output format. The text format
// is one "from to" line per pair, prefixed by the query name when it has one.
func (p *Params) writeResults(results []Result) error {
	switch p.Output {
	case "", "text":
		w := bufio.NewWriter(p.Stdout)
		for _, r := range results {
			prefix := ""
			if r.Query != "" {
				prefix = r.Query + " "
			}
			for _, pair := range r.Pairs {
				if _, err := fmt.Fprintf(w, "%s%s %s\n", prefix, pair.From, pair.To); err != nil {
					return errors.Wrap(err, "write results")
				}
			}
		}
		return errors.Wrap(w.Flush(), "write results")
	case "yaml":
		return p.writeYAML(results)
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", p.Output)
	}
}

func (p *Params) writeInfo(info graph.Info) error {
	switch p.Output {
	case "", "text":
		_, err := fmt.Fprintf(p.Stdout, "nodes: %d\nedges: %d\nlabels: %s\n",
			info.Nodes, info.Edges, strings.Join(info.Labels, ", "))
		return errors.Wrap(err, "write info")
	case "yaml":
		return p.writeYAML(info)
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", p.Output)
	}
}

func (p *Params) writeYAML(v any) error {
	enc := yaml.NewEncoder(p.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return errors.Wrap(enc.Close(), "encode yaml")
}
