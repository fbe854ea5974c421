package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/schemacheck/schema"
)

// DefaultMaxDepth is the dependency-chain depth above which the
// dependency checker warns.
const DefaultMaxDepth = 10

// DependencyChecker builds the directed foreign-key graph over the
// full schema set and reports elementary cycles as errors plus
// excessively deep chains from the schema under validation as
// warnings. A nil Graph capability disables the check entirely.
type DependencyChecker struct {
	// Graph is the optional graph capability. Nil degrades the check
	// to a no-op.
	Graph GraphAnalyzer

	// MaxDepth is the deep-chain threshold; zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// Check analyzes the foreign-key graph of all from the point of view
// of the named schema.
func (c DependencyChecker) Check(schemaName string, sc *schema.Schema, all *schema.Set) (errs, warns []string) {
	if c.Graph == nil {
		return nil, nil
	}
	maxDepth := c.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}

	nodes, edges := dependencyEdges(all)

	for _, cycle := range c.Graph.Cycles(nodes, edges) {
		rendered := strings.Join(append(cycle, cycle[0]), " -> ")
		errs = append(errs, fmt.Sprintf("Circular dependency detected: %s", rendered))
	}

	depths := c.Graph.PathLengths(nodes, edges, schemaName)
	for _, target := range sortedNodes(depths) {
		if depths[target] > maxDepth {
			warns = append(warns, fmt.Sprintf("Deep dependency chain detected for '%s' (depth: %d, max recommended: %d)",
				schemaName, depths[target], maxDepth))
		}
	}
	return errs, warns
}

// dependencyEdges flattens the set's foreign keys into a node list and
// directed edge list. Targets that do not resolve to an existing schema
// are left out; the foreign-key checker already reported them and they
// must not distort the graph.
func dependencyEdges(all *schema.Set) (nodes []string, edges [][2]string) {
	nodes = all.Names()
	for _, name := range nodes {
		sc, ok := all.Schema(name)
		if !ok {
			continue
		}
		for _, entry := range sc.ForeignKeys() {
			fk, err := entry.Target.Normalize()
			if err != nil {
				continue
			}
			if all.Has(fk.Schema) {
				edges = append(edges, [2]string{name, fk.Schema})
			}
		}
	}
	return nodes, edges
}

func sortedNodes(depths map[string]int) []string {
	names := make([]string, 0, len(depths))
	for n := range depths {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
