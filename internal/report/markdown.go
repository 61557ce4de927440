// # internal/report/markdown.go
package report

import (
	"fmt"
	"sort"
	"strings"

	"riskmap/internal/analyzer"
	"riskmap/internal/parser"
)

const defaultTopN = 10

// MarkdownGenerator renders one analysis as a human-readable report.
type MarkdownGenerator struct {
	topN int
}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{topN: defaultTopN}
}

func (m *MarkdownGenerator) Generate(analysis *analyzer.CodebaseAnalysis, facts map[string]*parser.FileFacts) (string, error) {
	var buf strings.Builder

	buf.WriteString("# Codebase Risk Report\n\n")
	buf.WriteString(fmt.Sprintf("Generated: %s\n\n", analysis.GeneratedAt.Format("2006-01-02 15:04:05")))

	buf.WriteString("## Summary\n\n")
	buf.WriteString(fmt.Sprintf("- Files analyzed: %d\n", analysis.TotalFiles))
	buf.WriteString(fmt.Sprintf("- Total lines: %d\n", analysis.TotalLines))
	buf.WriteString(fmt.Sprintf("- Dependency edges: %d\n", countEdges(analysis)))

	failures := parseFailures(facts)
	buf.WriteString(fmt.Sprintf("- Parse failures: %d\n\n", len(failures)))

	if len(failures) > 0 {
		buf.WriteString("## Parse Failures\n\n")
		for _, f := range failures {
			buf.WriteString(fmt.Sprintf("- `%s`: %s\n", f.Path, f.ParseError))
		}
		buf.WriteString("\n")
	}

	buf.WriteString(fmt.Sprintf("## Top %d Risky Files\n\n", m.topN))
	buf.WriteString("| File | Risk | Explanation |\n")
	buf.WriteString("|------|------|-------------|\n")
	for _, path := range topN(analysis.MostRiskyFiles, m.topN) {
		fa := analysis.Files[path]
		buf.WriteString(fmt.Sprintf("| `%s` | %.3f | %s |\n", path, fa.Risk.Overall, fa.Risk.Explanation))
	}
	buf.WriteString("\n")

	buf.WriteString(fmt.Sprintf("## Top %d Impactful Files\n\n", m.topN))
	buf.WriteString("| File | Impact | Dependents |\n")
	buf.WriteString("|------|--------|------------|\n")
	for _, path := range topN(analysis.MostImpactfulFiles, m.topN) {
		fa := analysis.Files[path]
		buf.WriteString(fmt.Sprintf("| `%s` | %.3f | %d |\n", path, fa.ImpactScore(), len(fa.Dependents)))
	}
	buf.WriteString("\n")

	return buf.String(), nil
}

func countEdges(analysis *analyzer.CodebaseAnalysis) int {
	n := 0
	for _, targets := range analysis.DependencyGraph {
		n += len(targets)
	}
	return n
}

func parseFailures(facts map[string]*parser.FileFacts) []*parser.FileFacts {
	var failed []*parser.FileFacts
	for _, f := range facts {
		if f.ParseError != "" {
			failed = append(failed, f)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].Path < failed[j].Path })
	return failed
}

func topN(paths []string, n int) []string {
	if len(paths) < n {
		n = len(paths)
	}
	return paths[:n]
}
