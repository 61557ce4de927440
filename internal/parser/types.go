// # internal/parser/types.go
package parser

import (
	"time"
)

// FileFacts is the parsed structural summary of one source file. When
// ParseError is set, every fact list is empty; partial results are never
// half-populated.
type FileFacts struct {
	Path       string
	Language   string
	TotalLines int
	CodeLines  int // non-blank, non-comment lines (textual heuristic)
	Functions  []Function
	Classes    []Class
	Imports    []Import
	Variables  []Variable
	ParseError string
	ParsedAt   time.Time
}

type Param struct {
	Name       string
	Annotation string // type text, verbatim source
}

type Function struct {
	Name       string
	StartLine  int // 1-based, inclusive
	EndLine    int
	Params     []Param
	Returns    string // return annotation text
	Decorators []string
	Doc        string
	IsAsync    bool
	IsMethod   bool
	Class      string // owning class name, set iff IsMethod
}

type Class struct {
	Name       string
	StartLine  int
	EndLine    int
	Bases      []string
	Decorators []string
	Doc        string
	Methods    []Function
}

type ImportKind string

const (
	ImportPlain    ImportKind = "import"          // import X
	ImportFrom     ImportKind = "from_import"     // from X import a, b
	ImportWildcard ImportKind = "from_import_all" // from X import *
)

// Import is one import declaration. Module keeps leading dots for relative
// imports; the dot count encodes the relative level.
type Import struct {
	Module string
	Alias  string
	Items  []string // empty means whole-module import
	Kind   ImportKind
	Line   int
}

type Variable struct {
	Name       string
	Line       int
	Annotation string
	Value      string // initializer source text, not an evaluated value
	IsConstant bool   // upper-snake-case name
}
