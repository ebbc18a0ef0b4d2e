package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrBadEdgeLine = errors.New("expected 'from to label'")
	ErrBadYAMLEdge = errors.New("edge needs both 'from' and 'to'")
)

// ReadEdgeList reads one edge per line as "from to label", separated by
// whitespace. A line holding a single node id declares an isolated node.
// Blank lines and lines starting with '#' are skipped. Parsing stops at the
// first malformed line.
func ReadEdgeList(r io.Reader) (*Graph[string], error) {
	g := New[string]()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		switch len(fields) {
		case 1:
			g.AddNode(fields[0])
		case 3:
			g.AddEdge(fields[0], fields[2], fields[1])
		default:
			return nil, errors.Wrapf(ErrBadEdgeLine, "line %d", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read edge list")
	}
	return g, nil
}

// WriteEdgeList writes g in the format read by ReadEdgeList. Isolated nodes
// are written on their own line.
func WriteEdgeList[N comparable](w io.Writer, g *Graph[N]) error {
	bw := bufio.NewWriter(w)
	touched := make(map[N]struct{}, g.NodeCount())
	for _, e := range g.edges {
		touched[e.From] = struct{}{}
		touched[e.To] = struct{}{}
	}
	for _, n := range g.nodes {
		if _, ok := touched[n]; !ok {
			if _, err := fmt.Fprintf(bw, "%v\n", n); err != nil {
				return errors.Wrap(err, "write edge list")
			}
		}
	}
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(bw, "%v %v %s\n", e.From, e.To, e.Label); err != nil {
			return errors.Wrap(err, "write edge list")
		}
	}
	return errors.Wrap(bw.Flush(), "write edge list")
}

type yamlGraph struct {
	Nodes []string   `yaml:"nodes,omitempty"`
	Edges []yamlEdge `yaml:"edges"`
}

type yamlEdge struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Label string `yaml:"label"`
}

// ReadYAML reads a graph document:
//
//	nodes: [a, b, c]      # optional, for isolated nodes
//	edges:
//	  - {from: a, to: b, label: x}
func ReadYAML(r io.Reader) (*Graph[string], error) {
	var doc yamlGraph
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode yaml graph")
	}
	g := New[string]()
	for _, n := range doc.Nodes {
		g.AddNode(n)
	}
	for i, e := range doc.Edges {
		if e.From == "" || e.To == "" {
			return nil, errors.Wrapf(ErrBadYAMLEdge, "edge %d", i)
		}
		g.AddEdge(e.From, e.Label, e.To)
	}
	return g, nil
}

// WriteYAML writes g in the format read by ReadYAML. Node ids are formatted
// with fmt.
func WriteYAML[N comparable](w io.Writer, g *Graph[N]) error {
	doc := yamlGraph{
		Nodes: make([]string, len(g.nodes)),
		Edges: make([]yamlEdge, len(g.edges)),
	}
	for i, n := range g.nodes {
		doc.Nodes[i] = fmt.Sprint(n)
	}
	for i, e := range g.edges {
		doc.Edges[i] = yamlEdge{From: fmt.Sprint(e.From), To: fmt.Sprint(e.To), Label: e.Label}
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode yaml graph")
	}
	return errors.Wrap(enc.Close(), "encode yaml graph")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ReadFile loads a graph file. Files ending in .yaml or .yml are read with
// ReadYAML, anything else as an edge list.
func ReadFile(path string) (*Graph[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open graph")
	}
	defer func() { _ = f.Close() }()

	var g *Graph[string]
	if isYAML(path) {
		g, err = ReadYAML(f)
	} else {
		g, err = ReadEdgeList(f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return g, nil
}

// WriteFile saves g, choosing the format from the file extension like
// ReadFile.
func WriteFile[N comparable](path string, g *Graph[N]) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create graph")
	}
	if isYAML(path) {
		err = WriteYAML(f, g)
	} else {
		err = WriteEdgeList(f, g)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "save %s", path)
}
