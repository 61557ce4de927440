// # internal/analyzer/analyzer_test.go
package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"riskmap/internal/config"
	"riskmap/internal/parser"
)

func testFacts() map[string]*parser.FileFacts {
	return map[string]*parser.FileFacts{
		"A.py": {
			Path:       "A.py",
			TotalLines: 3,
			CodeLines:  2,
			Variables:  []parser.Variable{{Name: "x", Line: 1}},
		},
		"B.py": {
			Path:       "B.py",
			TotalLines: 5,
			CodeLines:  4,
			Imports: []parser.Import{
				{Module: "A", Items: []string{"x"}, Kind: parser.ImportFrom, Line: 1},
				{Module: "os.path", Kind: parser.ImportPlain, Line: 2},
			},
		},
	}
}

func TestAnalyzeTwoFileCodebase(t *testing.T) {
	a := New(config.Default())

	analysis, err := a.Analyze(testFacts())
	require.NoError(t, err)

	require.Equal(t, 2, analysis.TotalFiles)
	require.Equal(t, 8, analysis.TotalLines)

	fa, ok := analysis.GetFileAnalysis("A.py")
	require.True(t, ok)
	require.Equal(t, []string{"B.py"}, fa.Dependents)
	require.Equal(t, 1.0, fa.ImpactScore())
	require.Empty(t, fa.Dependencies)

	fb, ok := analysis.GetFileAnalysis("B.py")
	require.True(t, ok)
	// os.path is outside the scanned set and yields no edge.
	require.Len(t, fb.Dependencies, 1)
	require.Equal(t, "A.py", fb.Dependencies[0].Target)
	require.Equal(t, EdgeImport, fb.Dependencies[0].Kind)
	require.Equal(t, 1.0, fb.Dependencies[0].Strength)
	require.Equal(t, "x", fb.Dependencies[0].Details["imported_items"])

	require.Equal(t, []string{"A.py"}, analysis.GetDependencies("B.py"))
	require.Equal(t, []string{"B.py"}, analysis.GetDependents("A.py"))
}

func TestReverseGraphCoversAllFiles(t *testing.T) {
	a := New(config.Default())

	analysis, err := a.Analyze(testFacts())
	require.NoError(t, err)

	for path := range analysis.Files {
		_, ok := analysis.DependencyGraph[path]
		require.True(t, ok, "forward key missing for %s", path)
		_, ok = analysis.ReverseDependencyGraph[path]
		require.True(t, ok, "reverse key missing for %s", path)
	}
	require.Empty(t, analysis.ReverseDependencyGraph["B.py"])
}

func TestNoSelfEdges(t *testing.T) {
	a := New(config.Default())

	facts := map[string]*parser.FileFacts{
		"pkg/loop.py": {
			Path:    "pkg/loop.py",
			Imports: []parser.Import{{Module: "loop", Kind: parser.ImportPlain, Line: 1}},
		},
	}

	analysis, err := a.Analyze(facts)
	require.NoError(t, err)
	require.NotContains(t, analysis.DependencyGraph["pkg/loop.py"], "pkg/loop.py")
	require.Empty(t, analysis.Files["pkg/loop.py"].Dependencies)
}

func TestWholeModuleEdgeStrength(t *testing.T) {
	a := New(config.Default())

	facts := map[string]*parser.FileFacts{
		"util.py": {Path: "util.py"},
		"main.py": {
			Path:    "main.py",
			Imports: []parser.Import{{Module: "util", Kind: parser.ImportPlain, Line: 1}},
		},
		"star.py": {
			Path:    "star.py",
			Imports: []parser.Import{{Module: "util", Items: []string{"*"}, Kind: parser.ImportWildcard, Line: 1}},
		},
	}

	analysis, err := a.Analyze(facts)
	require.NoError(t, err)
	deps := analysis.Files["main.py"].Dependencies
	require.Len(t, deps, 1)
	require.Equal(t, 0.8, deps[0].Strength)

	// wildcard imports carry whole-module strength too
	star := analysis.Files["star.py"].Dependencies
	require.Len(t, star, 1)
	require.Equal(t, "util.py", star[0].Target)
	require.Equal(t, 0.8, star[0].Strength)
}

func TestRankings(t *testing.T) {
	a := New(config.Default())

	analysis, err := a.Analyze(testFacts())
	require.NoError(t, err)

	require.Len(t, analysis.MostRiskyFiles, 2)
	require.Len(t, analysis.MostImpactfulFiles, 2)

	// A.py is a pure sink, so it leads the impact ranking.
	require.Equal(t, "A.py", analysis.MostImpactfulFiles[0])

	riskOf := func(p string) float64 { return analysis.Files[p].Risk.Overall }
	require.GreaterOrEqual(t, riskOf(analysis.MostRiskyFiles[0]), riskOf(analysis.MostRiskyFiles[1]))
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := New(config.Default())

	first, err := a.Analyze(testFacts())
	require.NoError(t, err)
	second, err := a.Analyze(testFacts())
	require.NoError(t, err)

	require.Equal(t, first.MostRiskyFiles, second.MostRiskyFiles)
	require.Equal(t, first.MostImpactfulFiles, second.MostImpactfulFiles)
	for path, fa := range first.Files {
		require.Equal(t, fa.Risk.Overall, second.Files[path].Risk.Overall)
		require.Equal(t, fa.Risk.Explanation, second.Files[path].Risk.Explanation)
	}
}

func TestRiskBounds(t *testing.T) {
	a := New(config.Default())

	analysis, err := a.Analyze(testFacts())
	require.NoError(t, err)

	for _, fa := range analysis.Files {
		require.GreaterOrEqual(t, fa.Risk.Overall, 0.0)
		require.LessOrEqual(t, fa.Risk.Overall, 1.0)
		require.GreaterOrEqual(t, fa.ImpactScore(), 0.0)
		require.LessOrEqual(t, fa.ImpactScore(), 1.0)
		for name, v := range fa.Risk.Factors {
			require.GreaterOrEqual(t, v, 0.0, name)
			require.LessOrEqual(t, v, 1.0, name)
		}
	}
}
