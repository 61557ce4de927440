// # internal/report/tsv.go
package report

import (
	"fmt"
	"sort"
	"strings"

	"riskmap/internal/analyzer"
)

// TSVGenerator emits the dependency edges as tab-separated rows for
// spreadsheet or scripted consumption.
type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

func (t *TSVGenerator) Generate(analysis *analyzer.CodebaseAnalysis) (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\tType\tStrength\tModule\tItems\n")

	paths := make([]string, 0, len(analysis.Files))
	for p := range analysis.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, from := range paths {
		for _, e := range analysis.Files[from].Dependencies {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%.1f\t%s\t%s\n",
				e.Source,
				e.Target,
				e.Kind,
				e.Strength,
				e.Details["module"],
				e.Details["imported_items"],
			))
		}
	}

	return buf.String(), nil
}

// GenerateRisk emits one row per file with its score and factors.
func (t *TSVGenerator) GenerateRisk(analysis *analyzer.CodebaseAnalysis) (string, error) {
	var buf strings.Builder

	buf.WriteString("File\tRisk\tImpact\tComplexity\tDependencies\tDependents\tSize\n")

	for _, path := range analysis.MostRiskyFiles {
		fa := analysis.Files[path]
		buf.WriteString(fmt.Sprintf("%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			path,
			fa.Risk.Overall,
			fa.ImpactScore(),
			fa.Risk.Factors["complexity"],
			fa.Risk.Factors["dependencies"],
			fa.Risk.Factors["dependents"],
			fa.Risk.Factors["size"],
		))
	}

	return buf.String(), nil
}
