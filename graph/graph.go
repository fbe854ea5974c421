// Package graph provides the directed-graph support behind the
// dependency analysis: construction, elementary-cycle enumeration,
// descendant enumeration and shortest-path lengths.
//
// Graphs here are small (one node per schema), so the package favors
// determinism over asymptotics: adjacency lists are kept in insertion
// order and traversals visit neighbors in that order, making cycle and
// depth reports stable across runs.
package graph

// Directed is a directed graph over string-named nodes.
// The zero value is not usable; create one with New.
type Directed struct {
	nodes []string
	index map[string]int
	adj   map[string][]string
	edges map[[2]string]struct{}
}

// New returns an empty directed graph.
func New() *Directed {
	return &Directed{
		index: make(map[string]int),
		adj:   make(map[string][]string),
		edges: make(map[[2]string]struct{}),
	}
}

// AddNode inserts a node. Adding an existing node is a no-op.
func (g *Directed) AddNode(name string) {
	if _, ok := g.index[name]; ok {
		return
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
}

// AddEdge inserts a directed edge, creating missing endpoints.
// Duplicate edges are ignored.
func (g *Directed) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if _, ok := g.edges[key]; ok {
		return
	}
	g.edges[key] = struct{}{}
	g.adj[from] = append(g.adj[from], to)
}

// Nodes returns the node names in insertion order.
func (g *Directed) Nodes() []string { return g.nodes }

// Has reports whether the node exists.
func (g *Directed) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// IsAcyclic reports whether the graph contains no directed cycle.
func (g *Directed) IsAcyclic() bool {
	const (
		unseen = iota
		active
		done
	)
	state := make(map[string]int, len(g.nodes))
	var visit func(n string) bool
	visit = func(n string) bool {
		state[n] = active
		for _, m := range g.adj[n] {
			switch state[m] {
			case active:
				return false
			case unseen:
				if !visit(m) {
					return false
				}
			}
		}
		state[n] = done
		return true
	}
	for _, n := range g.nodes {
		if state[n] == unseen && !visit(n) {
			return false
		}
	}
	return true
}

// Cycles enumerates all elementary cycles. Each cycle is returned once,
// rooted at its lowest-index node, without repeating the root at the
// end. Node order within a cycle follows edge direction.
func (g *Directed) Cycles() [][]string {
	var cycles [][]string
	for _, root := range g.nodes {
		rootIdx := g.index[root]
		var (
			path   []string
			onPath = map[string]bool{}
			walk   func(n string)
		)
		walk = func(n string) {
			path = append(path, n)
			onPath[n] = true
			for _, m := range g.adj[n] {
				switch {
				case m == root:
					cycle := make([]string, len(path))
					copy(cycle, path)
					cycles = append(cycles, cycle)
				case g.index[m] > rootIdx && !onPath[m]:
					// Restricting the walk to higher-index nodes roots
					// every cycle at its minimal node exactly once.
					walk(m)
				}
			}
			path = path[:len(path)-1]
			onPath[n] = false
		}
		walk(root)
	}
	return cycles
}

// Descendants returns every node reachable from start, excluding start
// itself. Order is by breadth-first discovery.
func (g *Directed) Descendants(start string) []string {
	var out []string
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, m := range g.adj[n] {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
			queue = append(queue, m)
		}
	}
	return out
}

// PathLengths returns the shortest-path distance from start to every
// reachable node, excluding start itself.
func (g *Directed) PathLengths(start string) map[string]int {
	dist := make(map[string]int)
	if !g.Has(start) {
		return dist
	}
	seen := map[string]bool{start: true}
	queue := []string{start}
	depth := map[string]int{start: 0}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, m := range g.adj[n] {
			if seen[m] {
				continue
			}
			seen[m] = true
			depth[m] = depth[n] + 1
			dist[m] = depth[m]
			queue = append(queue, m)
		}
	}
	return dist
}
