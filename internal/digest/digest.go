package digest

import (
	"fmt"
	"sort"
	"strings"

	"codedigest/internal/apisurface"
	"codedigest/internal/graph"
)

// DefaultTopN caps the central-module list.
const DefaultTopN = 5

// CentralModule is one entry of the bounded top-N ranking.
type CentralModule struct {
	ID         string `json:"id"`
	Dependents int    `json:"dependents"`
}

// Digest is the bounded summary of a run's graph and API surface. It is a
// derived view, regenerated wholesale on demand and never mutated in place.
// No field carries unbounded content: every multi-item field is a count or a
// capped top-N list.
type Digest struct {
	ModuleCount       int             `json:"moduleCount"`
	EdgeCount         int             `json:"edgeCount"`
	CentralModules    []CentralModule `json:"centralModules"`
	EndpointCount     int             `json:"endpointCount"`
	EndpointsByMethod map[string]int  `json:"endpointsByMethod"`
	ExportCount       int             `json:"exportCount"`
	ExportsByKind     map[string]int  `json:"exportsByKind"`
}

// Generate produces the digest. Pure and idempotent: the same graph and
// surface always yield the same digest; empty inputs yield zero counts, not
// an error.
func Generate(g *graph.DependencyGraph, s *apisurface.Surface, topN int) *Digest {
	if topN <= 0 {
		topN = DefaultTopN
	}
	d := &Digest{
		EndpointsByMethod: make(map[string]int),
		ExportsByKind:     make(map[string]int),
	}

	if g != nil {
		d.ModuleCount = g.Len()
		d.EdgeCount = g.EdgeCount()
		d.CentralModules = topByInDegree(g, topN)
	}
	if s != nil {
		d.EndpointCount = len(s.Endpoints)
		for _, ep := range s.Endpoints {
			d.EndpointsByMethod[ep.Method]++
		}
		for _, lib := range s.Libraries {
			for _, exp := range lib.Exports {
				d.ExportCount++
				d.ExportsByKind[string(exp.Kind)]++
			}
		}
	}
	return d
}

// topByInDegree ranks nodes by incoming-edge count descending; ties are
// broken by stable input order, so the list never exceeds n and is
// reproducible across runs.
func topByInDegree(g *graph.DependencyGraph, n int) []CentralModule {
	nodes := g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].InDegree() > nodes[j].InDegree()
	})
	if len(nodes) > n {
		nodes = nodes[:n]
	}
	out := make([]CentralModule, 0, len(nodes))
	for _, node := range nodes {
		if node.InDegree() == 0 {
			continue
		}
		out = append(out, CentralModule{ID: node.ID, Dependents: node.InDegree()})
	}
	return out
}

// Render formats the digest as a short human-readable block for context
// assembly. Output size is bounded by construction.
func (d *Digest) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Modules: %d (%d dependency edges)\n", d.ModuleCount, d.EdgeCount)
	if len(d.CentralModules) > 0 {
		sb.WriteString("Most depended-on modules:\n")
		for _, m := range d.CentralModules {
			fmt.Fprintf(&sb, "  %s (%d dependents)\n", m.ID, m.Dependents)
		}
	}
	fmt.Fprintf(&sb, "Endpoints: %d", d.EndpointCount)
	if d.EndpointCount > 0 {
		sb.WriteString(" (")
		sb.WriteString(joinCounts(d.EndpointsByMethod))
		sb.WriteString(")")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Exports: %d", d.ExportCount)
	if d.ExportCount > 0 {
		sb.WriteString(" (")
		sb.WriteString(joinCounts(d.ExportsByKind))
		sb.WriteString(")")
	}
	return sb.String()
}

func joinCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}
