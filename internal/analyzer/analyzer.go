// # internal/analyzer/analyzer.go
package analyzer

import (
	"fmt"
	"sort"
	"time"

	"riskmap/internal/config"
	rerr "riskmap/internal/errors"
	"riskmap/internal/parser"
)

// Analyzer turns one scan's facts into a CodebaseAnalysis: resolve imports
// to edges, build the adjacency maps, score every file, rank. Each call
// builds a fresh aggregate; nothing is updated incrementally.
type Analyzer struct {
	scorer *Scorer
}

func New(cfg *config.Config) *Analyzer {
	return &Analyzer{scorer: NewScorer(cfg.Risk)}
}

// Analyze never panics out: any unexpected failure mid-computation is
// returned as a structured error instead of crashing the caller.
func (a *Analyzer) Analyze(facts map[string]*parser.FileFacts) (analysis *CodebaseAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			analysis = nil
			err = rerr.Wrap(fmt.Errorf("%v", r), rerr.CodeAnalysisFailed, "analysis panicked")
		}
	}()

	paths := make([]string, 0, len(facts))
	for p := range facts {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	resolver := NewResolver(paths)
	edges := buildEdges(facts, resolver)
	forward, reverse := buildGraphs(facts, edges)

	analysis = &CodebaseAnalysis{
		Files:                  make(map[string]*FileAnalysis, len(facts)),
		DependencyGraph:        forward,
		ReverseDependencyGraph: reverse,
		TotalFiles:             len(facts),
		GeneratedAt:            time.Now(),
	}

	for _, p := range paths {
		fa := &FileAnalysis{
			Path:         p,
			Dependencies: edges[p],
			Dependents:   sortedKeys(reverse[p]),
			Metrics:      a.scorer.Metrics(facts[p]),
		}
		fa.Risk = a.scorer.Score(fa)

		analysis.Files[p] = fa
		analysis.TotalLines += facts[p].TotalLines
	}

	analysis.MostRiskyFiles = rankBy(paths, func(p string) float64 {
		return analysis.Files[p].Risk.Overall
	})
	analysis.MostImpactfulFiles = rankBy(paths, func(p string) float64 {
		return analysis.Files[p].ImpactScore()
	})

	return analysis, nil
}

// rankBy sorts descending by score. The input is already path-sorted, so
// ties resolve the same way on every run over identical facts.
func rankBy(paths []string, score func(string) float64) []string {
	ranked := append([]string(nil), paths...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	return ranked
}
