// # internal/analyzer/analysis.go
package analyzer

import (
	"sort"
	"time"
)

type EdgeKind string

const (
	EdgeImport    EdgeKind = "import"
	EdgeCall      EdgeKind = "call"      // reserved
	EdgeInherit   EdgeKind = "inherit"   // reserved
	EdgeReference EdgeKind = "reference" // reserved
)

// Edge is a directed dependency: the source file's behavior depends on the
// target file's content. Strength reflects import specificity, not
// importance: 1.0 for "from X import name", 0.8 for whole-module imports.
type Edge struct {
	Source   string
	Target   string
	Kind     EdgeKind
	Details  map[string]string
	Strength float64
}

type RiskScore struct {
	Overall     float64
	Factors     map[string]float64
	Explanation string
}

type FileAnalysis struct {
	Path         string
	Dependencies []Edge
	Dependents   []string
	Metrics      map[string]float64
	Risk         *RiskScore
}

// ImpactScore is a blast-radius proxy: the share of this file's graph
// neighborhood that sits downstream of it. A pure sink (only dependents)
// scores 1.0; an isolated file scores 0.0.
func (fa *FileAnalysis) ImpactScore() float64 {
	dependents := len(fa.Dependents)
	total := len(fa.Dependencies) + dependents
	if total < 1 {
		total = 1
	}
	return float64(dependents) / float64(total)
}

// CodebaseAnalysis is the aggregate built by one full scan. It is never
// mutated after Analyze returns; a rescan builds a fresh one.
type CodebaseAnalysis struct {
	Files                  map[string]*FileAnalysis
	DependencyGraph        map[string]map[string]bool
	ReverseDependencyGraph map[string]map[string]bool
	TotalFiles             int
	TotalLines             int
	MostRiskyFiles         []string
	MostImpactfulFiles     []string
	GeneratedAt            time.Time
}

func (ca *CodebaseAnalysis) GetFileAnalysis(path string) (*FileAnalysis, bool) {
	fa, ok := ca.Files[path]
	return fa, ok
}

// GetDependencies returns the sorted file ids this file depends on.
func (ca *CodebaseAnalysis) GetDependencies(path string) []string {
	return sortedKeys(ca.DependencyGraph[path])
}

// GetDependents returns the sorted file ids depending on this file.
func (ca *CodebaseAnalysis) GetDependents(path string) []string {
	return sortedKeys(ca.ReverseDependencyGraph[path])
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
