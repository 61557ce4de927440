// # internal/analyzer/graph.go
package analyzer

import (
	"sort"
	"strings"

	"riskmap/internal/parser"
)

// buildEdges resolves every import of every file into dependency edges.
// Files are visited in sorted order so repeated runs over the same facts
// produce the same edge sequence. Self-edges are dropped here, before the
// adjacency maps are built.
func buildEdges(facts map[string]*parser.FileFacts, resolver *Resolver) map[string][]Edge {
	paths := make([]string, 0, len(facts))
	for p := range facts {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	edges := make(map[string][]Edge, len(facts))
	for _, from := range paths {
		for _, imp := range facts[from].Imports {
			for _, target := range resolver.Resolve(imp, from) {
				if target == from {
					continue
				}
				edges[from] = append(edges[from], Edge{
					Source:   from,
					Target:   target,
					Kind:     EdgeImport,
					Strength: edgeStrength(imp.Kind),
					Details: map[string]string{
						"module":         imp.Module,
						"imported_items": strings.Join(imp.Items, ","),
						"import_type":    string(imp.Kind),
					},
				})
			}
		}
	}
	return edges
}

func edgeStrength(kind parser.ImportKind) float64 {
	if kind == parser.ImportFrom {
		return 1.0
	}
	return 0.8
}

// buildGraphs turns the edge lists into forward and reverse adjacency.
// Both maps carry a key for every scanned file, so downstream ranking can
// index either map with any file id without a presence check.
func buildGraphs(facts map[string]*parser.FileFacts, edges map[string][]Edge) (forward, reverse map[string]map[string]bool) {
	forward = make(map[string]map[string]bool, len(facts))
	reverse = make(map[string]map[string]bool, len(facts))

	for p := range facts {
		forward[p] = make(map[string]bool)
		reverse[p] = make(map[string]bool)
	}

	for from, list := range edges {
		for _, e := range list {
			forward[from][e.Target] = true
			if reverse[e.Target] == nil {
				reverse[e.Target] = make(map[string]bool)
			}
			reverse[e.Target][from] = true
		}
	}
	return forward, reverse
}
