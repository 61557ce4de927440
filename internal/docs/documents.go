// # internal/docs/documents.go
package docs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"riskmap/internal/analyzer"
	"riskmap/internal/parser"
)

// Document is one retrieval unit handed to an external indexing system:
// plain text plus flat metadata for filtering.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Build renders the scan facts and analysis as retrieval documents: one
// summary per file, one per function, one per class, and one dependency
// document per analyzed file. Files are visited in sorted order so the
// output is identical across runs.
func Build(facts map[string]*parser.FileFacts, analysis *analyzer.CodebaseAnalysis) []Document {
	paths := make([]string, 0, len(facts))
	for p := range facts {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var documents []Document

	for _, path := range paths {
		f := facts[path]
		documents = append(documents, Document{
			Content: fileDocument(f),
			Metadata: map[string]string{
				"type":      "file_summary",
				"file_path": path,
				"language":  f.Language,
			},
		})

		for _, fn := range f.Functions {
			documents = append(documents, Document{
				Content: functionDocument(path, fn),
				Metadata: map[string]string{
					"type":          "function",
					"file_path":     path,
					"function_name": fn.Name,
					"line_start":    fmt.Sprint(fn.StartLine),
					"line_end":      fmt.Sprint(fn.EndLine),
				},
			})
		}

		for _, cls := range f.Classes {
			documents = append(documents, Document{
				Content: classDocument(path, cls),
				Metadata: map[string]string{
					"type":       "class",
					"file_path":  path,
					"class_name": cls.Name,
					"line_start": fmt.Sprint(cls.StartLine),
					"line_end":   fmt.Sprint(cls.EndLine),
				},
			})
		}

		if analysis != nil {
			if fa, ok := analysis.GetFileAnalysis(path); ok {
				documents = append(documents, Document{
					Content: dependenciesDocument(fa),
					Metadata: map[string]string{
						"type":      "dependencies",
						"file_path": path,
					},
				})
			}
		}
	}

	return documents
}

// EncodeJSONL renders the documents one JSON object per line.
func EncodeJSONL(documents []Document) (string, error) {
	var buf strings.Builder
	for _, d := range documents {
		data, err := json.Marshal(d)
		if err != nil {
			return "", err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

func fileDocument(f *parser.FileFacts) string {
	parts := []string{
		fmt.Sprintf("File: %s", f.Path),
		fmt.Sprintf("Language: %s", f.Language),
		fmt.Sprintf("Total lines: %d", f.TotalLines),
		fmt.Sprintf("Code lines: %d", f.CodeLines),
	}

	if len(f.Functions) > 0 {
		names := make([]string, len(f.Functions))
		for i, fn := range f.Functions {
			names[i] = fn.Name
		}
		parts = append(parts, fmt.Sprintf("Functions: %s", strings.Join(names, ", ")))
	}

	if len(f.Classes) > 0 {
		names := make([]string, len(f.Classes))
		for i, cls := range f.Classes {
			names[i] = cls.Name
		}
		parts = append(parts, fmt.Sprintf("Classes: %s", strings.Join(names, ", ")))
	}

	if len(f.Imports) > 0 {
		imports := f.Imports
		if len(imports) > 10 {
			imports = imports[:10]
		}
		modules := make([]string, len(imports))
		for i, imp := range imports {
			modules[i] = imp.Module
		}
		parts = append(parts, fmt.Sprintf("Imports: %s", strings.Join(modules, ", ")))
	}

	if f.ParseError != "" {
		parts = append(parts, fmt.Sprintf("Parse error: %s", f.ParseError))
	}

	return strings.Join(parts, "\n")
}

func functionDocument(path string, fn parser.Function) string {
	parts := []string{
		fmt.Sprintf("Function: %s", fn.Name),
		fmt.Sprintf("File: %s", path),
		fmt.Sprintf("Lines: %d-%d", fn.StartLine, fn.EndLine),
	}

	if len(fn.Params) > 0 {
		names := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			names[i] = p.Name
		}
		parts = append(parts, fmt.Sprintf("Parameters: %s", strings.Join(names, ", ")))
	}

	if fn.Returns != "" {
		parts = append(parts, fmt.Sprintf("Returns: %s", fn.Returns))
	}
	if fn.Doc != "" {
		parts = append(parts, fmt.Sprintf("Docstring: %s", fn.Doc))
	}
	if fn.IsMethod {
		parts = append(parts, fmt.Sprintf("Method of class: %s", fn.Class))
	}
	if fn.IsAsync {
		parts = append(parts, "Type: async function")
	}

	return strings.Join(parts, "\n")
}

func classDocument(path string, cls parser.Class) string {
	parts := []string{
		fmt.Sprintf("Class: %s", cls.Name),
		fmt.Sprintf("File: %s", path),
		fmt.Sprintf("Lines: %d-%d", cls.StartLine, cls.EndLine),
	}

	if len(cls.Bases) > 0 {
		parts = append(parts, fmt.Sprintf("Inherits from: %s", strings.Join(cls.Bases, ", ")))
	}
	if len(cls.Methods) > 0 {
		names := make([]string, len(cls.Methods))
		for i, m := range cls.Methods {
			names[i] = m.Name
		}
		parts = append(parts, fmt.Sprintf("Methods: %s", strings.Join(names, ", ")))
	}
	if cls.Doc != "" {
		parts = append(parts, fmt.Sprintf("Docstring: %s", cls.Doc))
	}

	return strings.Join(parts, "\n")
}

func dependenciesDocument(fa *analyzer.FileAnalysis) string {
	parts := []string{fmt.Sprintf("Dependencies for: %s", fa.Path)}

	if len(fa.Dependencies) > 0 {
		targets := make([]string, 0, len(fa.Dependencies))
		for _, e := range fa.Dependencies {
			targets = append(targets, e.Target)
		}
		if len(targets) > 10 {
			targets = targets[:10]
		}
		parts = append(parts, fmt.Sprintf("Depends on: %s", strings.Join(targets, ", ")))
	}

	if len(fa.Dependents) > 0 {
		dependents := fa.Dependents
		if len(dependents) > 10 {
			dependents = dependents[:10]
		}
		parts = append(parts, fmt.Sprintf("Dependents: %s", strings.Join(dependents, ", ")))
	}

	if fa.Risk != nil {
		parts = append(parts, fmt.Sprintf("Risk score: %.2f", fa.Risk.Overall))
		parts = append(parts, fmt.Sprintf("Risk explanation: %s", fa.Risk.Explanation))
	}

	return strings.Join(parts, "\n")
}
