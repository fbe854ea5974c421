// Package validate implements the per-schema checkers behind the
// schemacheck validator: foreign-key resolution, template
// cross-referencing, constraint consistency and dependency-graph
// analysis.
//
// Each checker is a stateless value whose Check method inspects one
// schema (plus, where relevant, the full set) and returns its findings
// as two ordered string lists: errors, then warnings. Checkers never
// return Go errors; every predictable failure becomes a diagnostic
// entry so a single pass always evaluates the whole schema set.
//
// The template-syntax and graph capabilities are optional. Both are
// modeled as small interfaces with explicit no-op implementations, so
// their absence degrades the relevant checks silently instead of
// failing the run.
package validate

import (
	"text/template/parse"

	"github.com/syssam/schemacheck/graph"
)

// GraphAnalyzer is the optional directed-graph capability used by
// [DependencyChecker]: cycle enumeration and shortest-path lengths over
// the foreign-key graph.
type GraphAnalyzer interface {
	// Cycles enumerates the elementary cycles of the graph described by
	// nodes and directed edges.
	Cycles(nodes []string, edges [][2]string) [][]string

	// PathLengths returns the shortest-path distance from the given
	// node to every node reachable from it.
	PathLengths(nodes []string, edges [][2]string, from string) map[string]int
}

// NopGraph is the absent graph capability. It reports no findings,
// degrading dependency analysis to a no-op.
type NopGraph struct{}

// Cycles returns no cycles.
func (NopGraph) Cycles([]string, [][2]string) [][]string { return nil }

// PathLengths returns no reachable nodes.
func (NopGraph) PathLengths([]string, [][2]string, string) map[string]int { return nil }

// DirectedGraph returns the graph-package-backed analyzer.
func DirectedGraph() GraphAnalyzer { return directedGraph{} }

type directedGraph struct{}

func (directedGraph) Cycles(nodes []string, edges [][2]string) [][]string {
	return build(nodes, edges).Cycles()
}

func (directedGraph) PathLengths(nodes []string, edges [][2]string, from string) map[string]int {
	return build(nodes, edges).PathLengths(from)
}

func build(nodes []string, edges [][2]string) *graph.Directed {
	g := graph.New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

// SyntaxChecker is the optional template-syntax capability used by
// [TemplateChecker]. A nil error means the content parsed, or that the
// capability declined to judge it.
type SyntaxChecker interface {
	CheckSyntax(content string) error
}

// NopSyntax is the absent syntax capability; it accepts everything.
type NopSyntax struct{}

// CheckSyntax reports no findings.
func (NopSyntax) CheckSyntax(string) error { return nil }

// TemplateSyntax validates double-brace action syntax using the
// standard template parser. Identifiers are not resolved, so templates
// written for engines with the same delimiter grammar still parse;
// foreign control-flow markers outside the delimiters pass through as
// literal text.
type TemplateSyntax struct{}

// CheckSyntax parses content and returns the parser's error, if any.
func (TemplateSyntax) CheckSyntax(content string) error {
	t := parse.New("template")
	t.Mode = parse.SkipFuncCheck
	_, err := t.Parse(content, "", "", make(map[string]*parse.Tree))
	return err
}
