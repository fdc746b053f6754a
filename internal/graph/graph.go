package graph

import (
	"encoding/json"
	"path"
	"sort"

	"codedigest/internal/lang"
)

// ModuleNode is one admitted source file's position in the dependency graph.
// Edge sets are kept as maps during construction and serialized as sorted
// slices, so identical runs marshal identically.
type ModuleNode struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Language lang.Language `json:"language"`

	outgoing map[string]struct{}
	incoming map[string]struct{}
}

// Imports returns the outgoing dependency ids in lexicographic order.
func (n *ModuleNode) Imports() []string { return sortedKeys(n.outgoing) }

// ImportedBy returns the incoming dependency ids in lexicographic order.
func (n *ModuleNode) ImportedBy() []string { return sortedKeys(n.incoming) }

// InDegree is the node's incoming-dependency count, the centrality proxy
// used for digest ranking.
func (n *ModuleNode) InDegree() int { return len(n.incoming) }

func (n *ModuleNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string        `json:"id"`
		Name       string        `json:"name"`
		Language   lang.Language `json:"language"`
		Imports    []string      `json:"imports"`
		ImportedBy []string      `json:"importedBy"`
	}{n.ID, n.Name, n.Language, n.Imports(), n.ImportedBy()})
}

// DependencyGraph maps node ids to nodes. Built in one pass per run and
// immutable once the run's build completes; a new run produces a fresh graph.
type DependencyGraph struct {
	nodes map[string]*ModuleNode
	ids   []string // insertion order, also lexicographic (pass 1 walks sorted paths)
}

// New returns an empty graph.
func New() *DependencyGraph {
	return &DependencyGraph{nodes: make(map[string]*ModuleNode)}
}

// AddNode registers a module for the given file path. Duplicate adds are
// no-ops. Pass 1 of the build calls this for every admitted, classifiable
// file before any edge exists.
func (g *DependencyGraph) AddNode(id string, l lang.Language) *ModuleNode {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &ModuleNode{
		ID:       id,
		Name:     path.Base(id),
		Language: l,
		outgoing: make(map[string]struct{}),
		incoming: make(map[string]struct{}),
	}
	g.nodes[id] = n
	g.ids = append(g.ids, id)
	return n
}

// AddEdge records that from imports to. Both endpoints must already be
// nodes; self-edges and edges to unknown ids are discarded, so no dangling
// edge is ever persisted. Duplicate edges collapse. Edges are symmetric:
// from's outgoing gains to, and to's incoming gains from.
func (g *DependencyGraph) AddEdge(from, to string) {
	if from == to {
		return
	}
	src, ok := g.nodes[from]
	if !ok {
		return
	}
	dst, ok := g.nodes[to]
	if !ok {
		return
	}
	src.outgoing[to] = struct{}{}
	dst.incoming[from] = struct{}{}
}

// Node returns the node for an id.
func (g *DependencyGraph) Node(id string) (*ModuleNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the node count.
func (g *DependencyGraph) Len() int { return len(g.nodes) }

// IDs returns node ids in stable (insertion = lexicographic) order.
func (g *DependencyGraph) IDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Nodes returns the nodes in stable order.
func (g *DependencyGraph) Nodes() []*ModuleNode {
	out := make([]*ModuleNode, 0, len(g.ids))
	for _, id := range g.ids {
		out = append(out, g.nodes[id])
	}
	return out
}

// EdgeCount returns the number of directed edges.
func (g *DependencyGraph) EdgeCount() int {
	total := 0
	for _, n := range g.nodes {
		total += len(n.outgoing)
	}
	return total
}

func (g *DependencyGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Nodes())
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
