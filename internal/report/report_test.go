// # internal/report/report_test.go
package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"riskmap/internal/analyzer"
	"riskmap/internal/config"
	"riskmap/internal/parser"
)

func testAnalysis(t *testing.T) (*analyzer.CodebaseAnalysis, map[string]*parser.FileFacts) {
	t.Helper()

	facts := map[string]*parser.FileFacts{
		"core.py": {Path: "core.py", TotalLines: 10, CodeLines: 8},
		"app.py": {
			Path:       "app.py",
			TotalLines: 20,
			CodeLines:  15,
			Imports: []parser.Import{
				{Module: "core", Items: []string{"run"}, Kind: parser.ImportFrom, Line: 1},
			},
		},
		"broken.py": {Path: "broken.py", TotalLines: 3, ParseError: "SyntaxError: invalid syntax in broken.py"},
	}

	analysis, err := analyzer.New(config.Default()).Analyze(facts)
	require.NoError(t, err)
	return analysis, facts
}

func TestMarkdownReport(t *testing.T) {
	analysis, facts := testAnalysis(t)

	out, err := NewMarkdownGenerator().Generate(analysis, facts)
	require.NoError(t, err)

	require.Contains(t, out, "# Codebase Risk Report")
	require.Contains(t, out, "Files analyzed: 3")
	require.Contains(t, out, "Parse failures: 1")
	require.Contains(t, out, "`broken.py`: SyntaxError")
	require.Contains(t, out, "`core.py`")
	require.Contains(t, out, "Low to medium risk")
}

func TestTSVEdges(t *testing.T) {
	analysis, _ := testAnalysis(t)

	out, err := NewTSVGenerator().Generate(analysis)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "From\tTo\tType\tStrength\tModule\tItems", lines[0])
	require.Len(t, lines, 2)
	require.Equal(t, "app.py\tcore.py\timport\t1.0\tcore\trun", lines[1])
}

func TestTSVRisk(t *testing.T) {
	analysis, _ := testAnalysis(t)

	out, err := NewTSVGenerator().GenerateRisk(analysis)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4) // header + one row per file
	require.True(t, strings.HasPrefix(lines[0], "File\tRisk\tImpact"))
}
