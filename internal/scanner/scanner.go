// # internal/scanner/scanner.go
package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"riskmap/internal/config"
	rerr "riskmap/internal/errors"
	"riskmap/internal/parser"
)

// Scanner walks a directory tree, filters Python sources through the
// exclusion globs and size ceiling, and parses every surviving file.
type Scanner struct {
	parser      *parser.Parser
	maxFileSize int64
	excludes    []glob.Glob
	patterns    []string
}

func New(p *parser.Parser, cfg *config.Config) (*Scanner, error) {
	globs := make([]glob.Glob, 0, len(cfg.Exclude.Patterns))
	for _, pattern := range cfg.Exclude.Patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, rerr.AddContext(
				rerr.Wrap(err, rerr.CodeValidation, "invalid exclude pattern"),
				rerr.CtxPattern, pattern)
		}
		globs = append(globs, g)
	}

	return &Scanner{
		parser:      p,
		maxFileSize: int64(cfg.MaxFileSizeMB * 1024 * 1024),
		excludes:    globs,
		patterns:    cfg.Exclude.Patterns,
	}, nil
}

// Scan parses every Python file under root. Per-file parse failures are
// recorded on the returned facts; only root-level problems produce an error.
// Keys are slash-normalized paths as encountered during the walk.
func (s *Scanner) Scan(ctx context.Context, root string) (map[string]*parser.FileFacts, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerr.AddContext(
				rerr.Wrap(err, rerr.CodePathNotFound, "scan root does not exist"),
				rerr.CtxPath, root)
		}
		return nil, rerr.AddContext(
			rerr.Wrap(err, rerr.CodeInternal, "cannot stat scan root"),
			rerr.CtxPath, root)
	}
	if !info.IsDir() {
		return nil, rerr.AddContext(
			rerr.New(rerr.CodeNotADirectory, "scan root is not a directory"),
			rerr.CtxPath, root)
	}

	results := make(map[string]*parser.FileFacts)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("walk error, skipping entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && s.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.parser.Supported(path) {
			return nil
		}
		if s.excluded(path) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			slog.Warn("cannot stat file, skipping", "path", path, "error", err)
			return nil
		}
		if fi.Size() > s.maxFileSize {
			slog.Debug("file exceeds size ceiling, skipping", "path", path, "size", fi.Size())
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("cannot read file, skipping", "path", path, "error", err)
			return nil
		}

		key := filepath.ToSlash(path)
		results[key] = s.parser.ParseFile(key, content)
		return nil
	})
	if err != nil {
		return nil, rerr.AddContext(
			rerr.Wrap(err, rerr.CodeInternal, "directory walk failed"),
			rerr.CtxPath, root)
	}

	slog.Debug("scan complete", "root", root, "files", len(results))
	return results, nil
}

// excluded matches the slash-normalized full path and the bare name against
// every exclusion glob, so both `**/__pycache__/**` and `*.pyc` style
// patterns take effect.
func (s *Scanner) excluded(path string) bool {
	full := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range s.excludes {
		if g.Match(full) || g.Match(base) {
			return true
		}
	}
	return false
}
