// # internal/parser/parser.go
package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor // language -> extractor
}

type Extractor interface {
	Extract(root *sitter.Node, source []byte, facts *FileFacts)
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
	}
	p.RegisterExtractor("python", &PythonExtractor{})
	return p
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

// Supported reports whether path carries a recognized source extension.
func (p *Parser) Supported(path string) bool {
	return p.detectLanguage(path) != ""
}

// ParseFile always returns a FileFacts for the given file: parse and decode
// failures are recorded on the fact (ParseError set, fact lists empty)
// instead of being returned as errors, so no file vanishes from a scan.
func (p *Parser) ParseFile(path string, content []byte) *FileFacts {
	facts := &FileFacts{
		Path:     path,
		Language: p.detectLanguage(path),
		ParsedAt: time.Now(),
	}

	countLines(content, facts)

	if facts.Language == "" {
		facts.ParseError = fmt.Sprintf("unsupported language: %s", filepath.Ext(path))
		return facts
	}

	if !utf8.Valid(content) {
		facts.ParseError = "UnicodeDecodeError: file is not valid UTF-8"
		return facts
	}

	grammar := p.loader.Language(facts.Language)
	if grammar == nil {
		facts.ParseError = fmt.Sprintf("grammar not loaded: %s", facts.Language)
		return facts
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		facts.ParseError = "parse failed"
		return facts
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		facts.ParseError = fmt.Sprintf("SyntaxError: invalid syntax in %s", path)
		return facts
	}

	extractor := p.extractors[facts.Language]
	if extractor == nil {
		facts.ParseError = fmt.Sprintf("no extractor for: %s", facts.Language)
		return facts
	}

	extractor.Extract(root, content, facts)
	return facts
}

func (p *Parser) detectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".py":
		return "python"
	default:
		return ""
	}
}

func countLines(content []byte, facts *FileFacts) {
	if len(content) == 0 {
		return
	}

	text := strings.TrimSuffix(string(content), "\n")
	lines := strings.Split(text, "\n")
	facts.TotalLines = len(lines)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		facts.CodeLines++
	}
}
