// # internal/analyzer/risk.go
package analyzer

import (
	"strings"

	"riskmap/internal/config"
	"riskmap/internal/parser"
)

const explanationThreshold = 0.7

// placeholder until a real coverage signal is wired in
const testCoverageFactor = 0.5

// Scorer computes per-file complexity metrics and combines them with the
// graph signals into a weighted risk score. Pure function of its inputs.
type Scorer struct {
	weights config.Weights
}

func NewScorer(weights config.Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Metrics derives the named complexity metrics for one file. The
// complexity score weights classes heaviest: a class carries more surface
// area than a bare function.
func (s *Scorer) Metrics(facts *parser.FileFacts) map[string]float64 {
	functions := float64(len(facts.Functions))
	classes := float64(len(facts.Classes))
	imports := float64(len(facts.Imports))

	var totalLen, maxLen float64
	for _, fn := range facts.Functions {
		length := float64(fn.EndLine - fn.StartLine)
		totalLen += length
		if length > maxLen {
			maxLen = length
		}
	}
	var avgLen float64
	if len(facts.Functions) > 0 {
		avgLen = totalLen / functions
	}

	return map[string]float64{
		"total_lines":         float64(facts.TotalLines),
		"code_lines":          float64(facts.CodeLines),
		"num_functions":       functions,
		"num_classes":         classes,
		"num_imports":         imports,
		"avg_function_length": avgLen,
		"max_function_length": maxLen,
		"complexity_score":    2*functions + 3*classes + 0.5*imports,
	}
}

// Score combines the five factors into the overall value. Each factor is
// linearly clamped to [0,1] against a fixed denominator before weighting.
func (s *Scorer) Score(fa *FileAnalysis) *RiskScore {
	factors := map[string]float64{
		"complexity":    clamp01(fa.Metrics["complexity_score"] / 50),
		"dependencies":  clamp01(float64(len(fa.Dependencies)) / 20),
		"dependents":    clamp01(float64(len(fa.Dependents)) / 10),
		"size":          clamp01(fa.Metrics["code_lines"] / 2000),
		"test_coverage": testCoverageFactor,
	}

	overall := factors["complexity"]*s.weights.Complexity +
		factors["dependencies"]*s.weights.Dependencies +
		factors["dependents"]*s.weights.Dependents +
		factors["size"]*s.weights.Size +
		factors["test_coverage"]*s.weights.TestCoverage

	return &RiskScore{
		Overall:     overall,
		Factors:     factors,
		Explanation: explain(factors),
	}
}

// explain lists the factors above the threshold in fixed order.
func explain(factors map[string]float64) string {
	var reasons []string
	if factors["complexity"] > explanationThreshold {
		reasons = append(reasons, "High complexity")
	}
	if factors["dependencies"] > explanationThreshold {
		reasons = append(reasons, "Many dependencies")
	}
	if factors["dependents"] > explanationThreshold {
		reasons = append(reasons, "Many files depend on this")
	}
	if factors["size"] > explanationThreshold {
		reasons = append(reasons, "Large file size")
	}
	if len(reasons) == 0 {
		return "Low to medium risk"
	}
	return strings.Join(reasons, "; ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
