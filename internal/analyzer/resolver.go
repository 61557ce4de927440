// # internal/analyzer/resolver.go
package analyzer

import (
	"path"
	"sort"
	"strings"

	"riskmap/internal/parser"
)

// Resolver maps import declarations onto files inside the scanned set.
// No package root is declared anywhere, so every ancestor directory of
// every scanned file is treated as a candidate root: for each (file, root)
// pair the file's path is rendered as a dotted module name and indexed.
// Over-matching across roots is tolerated; the graph's set semantics
// collapse duplicate edges.
type Resolver struct {
	files   map[string]bool
	byModule map[string][]string // dotted module name -> scanned files
}

func NewResolver(paths []string) *Resolver {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	r := &Resolver{
		files:   make(map[string]bool, len(sorted)),
		byModule: make(map[string][]string),
	}

	for _, p := range sorted {
		r.files[p] = true
	}
	for _, p := range sorted {
		for _, name := range moduleNames(p) {
			r.byModule[name] = append(r.byModule[name], p)
		}
	}

	return r
}

// Resolve returns the scanned files an import points at. Misses are silent:
// imports of modules outside the scanned set yield no targets.
func (r *Resolver) Resolve(imp parser.Import, fromPath string) []string {
	if strings.HasPrefix(imp.Module, ".") {
		return r.resolveRelative(imp, fromPath)
	}
	return r.byModule[imp.Module]
}

// resolveRelative walks up one directory per leading dot beyond the first,
// then joins the remaining segments. A bare "from . import x" names its
// targets through the imported items instead of the module path.
func (r *Resolver) resolveRelative(imp parser.Import, fromPath string) []string {
	level := 0
	for level < len(imp.Module) && imp.Module[level] == '.' {
		level++
	}
	rest := imp.Module[level:]

	base := path.Dir(fromPath)
	for i := 1; i < level; i++ {
		base = path.Dir(base)
	}

	if rest != "" {
		target := path.Join(base, strings.ReplaceAll(rest, ".", "/"))
		if hit := r.lookupModuleFile(target); hit != "" {
			return []string{hit}
		}
		return nil
	}

	var targets []string
	for _, item := range imp.Items {
		if item == "*" {
			continue
		}
		if hit := r.lookupModuleFile(path.Join(base, item)); hit != "" {
			targets = append(targets, hit)
		}
	}
	return targets
}

// lookupModuleFile tries <target>.py, then <target>/__init__.py.
func (r *Resolver) lookupModuleFile(target string) string {
	if file := target + ".py"; r.files[file] {
		return file
	}
	if file := target + "/__init__.py"; r.files[file] {
		return file
	}
	return ""
}

// moduleNames renders a file path as a dotted module name under each of
// its ancestor directories. A trailing __init__ segment is stripped, so a
// package marker answers to the package's own name.
func moduleNames(filePath string) []string {
	trimmed := strings.TrimSuffix(filePath, ".py")
	parts := strings.Split(trimmed, "/")
	if last := parts[len(parts)-1]; last == "__init__" {
		parts = parts[:len(parts)-1]
	}

	var names []string
	for start := len(parts) - 1; start >= 0; start-- {
		if parts[start] == "" {
			continue
		}
		names = append(names, strings.Join(parts[start:], "."))
	}
	return names
}
