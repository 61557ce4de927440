// # internal/scanner/scanner_test.go
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"riskmap/internal/config"
	rerr "riskmap/internal/errors"
	"riskmap/internal/parser"
)

func newTestScanner(t *testing.T, cfg *config.Config) *Scanner {
	t.Helper()
	s, err := New(parser.NewParser(parser.NewGrammarLoader()), cfg)
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanCollectsPythonFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.py"), "import os\n")
	writeFile(t, filepath.Join(root, "pkg", "util.py"), "def helper():\n    pass\n")
	writeFile(t, filepath.Join(root, "README.md"), "# docs\n")
	writeFile(t, filepath.Join(root, "script.sh"), "echo hi\n")

	s := newTestScanner(t, config.Default())
	results, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for key, facts := range results {
		require.Equal(t, key, facts.Path)
		require.True(t, strings.HasSuffix(key, ".py"))
		require.NotContains(t, key, "\\")
	}
}

func TestScanAppliesExclusions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "__pycache__", "app.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, ".venv", "lib", "dep.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "tests", "skipme.py"), "x = 1\n")

	cfg := config.Default()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "**/skipme.py")

	s := newTestScanner(t, cfg)
	results, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 1)

	for key := range results {
		require.Equal(t, "app.py", filepath.Base(key))
	}
}

func TestScanSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "big.py"), strings.Repeat("# padding line\n", 200))

	cfg := config.Default()
	cfg.MaxFileSizeMB = 0.000001 // about one byte

	s := newTestScanner(t, cfg)
	results, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestScanRecordsParseFailures(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.py"), "import os\n")
	writeFile(t, filepath.Join(root, "broken.py"), "def broken(:\n")

	s := newTestScanner(t, config.Default())
	results, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var failed int
	for _, facts := range results {
		if facts.ParseError != "" {
			failed++
			require.Empty(t, facts.Imports)
		}
	}
	require.Equal(t, 1, failed)
}

func TestScanRootErrors(t *testing.T) {
	s := newTestScanner(t, config.Default())

	_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, rerr.IsCode(err, rerr.CodePathNotFound))

	file := filepath.Join(t.TempDir(), "plain.py")
	writeFile(t, file, "x = 1\n")
	_, err = s.Scan(context.Background(), file)
	require.Error(t, err)
	require.True(t, rerr.IsCode(err, rerr.CodeNotADirectory))
}

func TestScanRejectsBadPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude.Patterns = []string{"[unterminated"}

	_, err := New(parser.NewParser(parser.NewGrammarLoader()), cfg)
	require.Error(t, err)
	require.True(t, rerr.IsCode(err, rerr.CodeValidation))
}
