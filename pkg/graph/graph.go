// Package graph holds the module dependency graph: directed edges from
// module-path nodes to the dependency identifiers they reference
// (submodule sources, resource addresses). Nodes are vivified lazily as
// they are referenced; an edge may point at an identifier that is never
// independently analyzed (a remote module source, for instance) and such
// nodes carry nothing beyond their ID. Cycles are representable and valid.
package graph

import (
	"fmt"
	"sort"
	"sync"
)

// Node is one graph vertex. Analyzed marks identifiers that correspond
// to a module record produced during this run; everything else is an
// opaque dependency identifier.
type Node struct {
	ID       string
	Analyzed bool
}

// Edge is a directed (source, target) pair in string-ID space.
type Edge struct {
	Source string
	Target string
}

// Graph is safe for concurrent use. Analysis itself is sequential today,
// but readers (reporting, the serve API) may inspect it from other
// goroutines once analysis completes.
type Graph struct {
	mu      sync.RWMutex
	nodes   []*Node
	edges   [][]int
	reverse [][]int
	idMap   map[string]int
}

func New() *Graph {
	return &Graph{
		nodes: make([]*Node, 0, 64),
		idMap: make(map[string]int),
	}
}

// vivify returns the index for id, creating an unanalyzed node when the
// identifier has not been seen. Callers must hold the write lock.
func (g *Graph) vivify(id string) int {
	if idx, ok := g.idMap[id]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.idMap[id] = idx
	g.nodes = append(g.nodes, &Node{ID: id})
	g.edges = append(g.edges, nil)
	g.reverse = append(g.reverse, nil)
	return idx
}

// AddNode registers an analyzed module node.
func (g *Graph) AddNode(id string) {
	if id == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[g.vivify(id)].Analyzed = true
}

// AddEdge records source -> target, creating either endpoint on demand.
// Duplicate edges collapse.
func (g *Graph) AddEdge(source, target string) {
	if source == "" || target == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	srcIdx := g.vivify(source)
	dstIdx := g.vivify(target)

	for _, t := range g.edges[srcIdx] {
		if t == dstIdx {
			return
		}
	}
	g.edges[srcIdx] = append(g.edges[srcIdx], dstIdx)
	g.reverse[dstIdx] = append(g.reverse[dstIdx], srcIdx)
}

// HasNode reports whether the identifier exists in the graph.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.idMap[id]
	return ok
}

// Nodes returns a snapshot of all nodes, sorted by ID for determinism.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns a snapshot of all edges, sorted for determinism.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Edge
	for srcIdx, targets := range g.edges {
		for _, dstIdx := range targets {
			out = append(out, Edge{Source: g.nodes[srcIdx].ID, Target: g.nodes[dstIdx].ID})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Downstream lists the identifiers the given node depends on.
func (g *Graph) Downstream(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx, ok := g.idMap[id]
	if !ok {
		return nil
	}
	var out []string
	for _, t := range g.edges[idx] {
		out = append(out, g.nodes[t].ID)
	}
	sort.Strings(out)
	return out
}

// Upstream lists the nodes that depend on the given identifier.
func (g *Graph) Upstream(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx, ok := g.idMap[id]
	if !ok {
		return nil
	}
	var out []string
	for _, s := range g.reverse[idx] {
		out = append(out, g.nodes[s].ID)
	}
	sort.Strings(out)
	return out
}

// DumpStats renders a one-line size summary for logs.
func (g *Graph) DumpStats() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	total := 0
	for _, e := range g.edges {
		total += len(e)
	}
	return fmt.Sprintf("Nodes: %d | Edges: %d", len(g.nodes), total)
}
