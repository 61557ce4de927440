// # internal/history/store_test.go
package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"riskmap/internal/analyzer"
	"riskmap/internal/config"
	"riskmap/internal/parser"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadSnapshots(t *testing.T) {
	s := openTestStore(t)

	first := Snapshot{
		Timestamp:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Root:         "/repo",
		FileCount:    12,
		TotalLines:   3400,
		EdgeCount:    20,
		MeanRisk:     0.31,
		MaxRisk:      0.74,
		TopRisky:     []string{"a.py", "b.py"},
		TopImpactful: []string{"core.py"},
	}
	require.NoError(t, s.SaveSnapshot(first))

	second := first
	second.ScanID = ""
	second.Timestamp = first.Timestamp.Add(time.Hour)
	second.FileCount = 13
	require.NoError(t, s.SaveSnapshot(second))

	all, err := s.LoadSnapshots(time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, 12, all[0].FileCount)
	require.Equal(t, 13, all[1].FileCount)
	require.Equal(t, []string{"a.py", "b.py"}, all[0].TopRisky)
	require.Equal(t, []string{"core.py"}, all[0].TopImpactful)
	require.NotEmpty(t, all[1].ScanID)

	recent, err := s.LoadSnapshots(first.Timestamp.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, 13, recent[0].FileCount)
}

func TestOpenRejectsBadPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)

	_, err = Open(t.TempDir())
	require.Error(t, err)
}

func TestNewSnapshotFromAnalysis(t *testing.T) {
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
		"broken.py": {Path: "broken.py", TotalLines: 2, ParseError: "SyntaxError"},
	}

	analysis, err := analyzer.New(config.Default()).Analyze(facts)
	require.NoError(t, err)

	snap := NewSnapshot("/repo", analysis, facts)
	require.NotEmpty(t, snap.ScanID)
	require.Equal(t, 3, snap.FileCount)
	require.Equal(t, 32, snap.TotalLines)
	require.Equal(t, 1, snap.ParseErrorCount)
	require.Equal(t, 1, snap.EdgeCount)
	require.Greater(t, snap.MeanRisk, 0.0)
	require.GreaterOrEqual(t, snap.MaxRisk, snap.MeanRisk)
	require.Len(t, snap.TopRisky, 3)
}
