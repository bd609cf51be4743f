// Package languages provides the per-language syntax-tree analysers that
// turn a parsed tree-sitter tree into draft symbols, import statements,
// and raw calls.
package languages

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/mycelium/graph"
)

// Analyser is the contract every supported language implements, grounded
// on the reference's languages/base.py LanguageAnalyser protocol.
type Analyser interface {
	Extensions() []string
	LanguageName() string
	Language() *sitter.Language
	// IsAvailable reports whether this analyser's grammar is actually
	// usable. VB.NET returns false: the example pack carries no VB.NET
	// tree-sitter grammar, and the pipeline must skip it gracefully
	// rather than fail the run.
	IsAvailable() bool
	ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol
	ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement
	ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall
	BuiltinExclusions() map[string]struct{}
}

// nodeText returns the source slice covered by n.
func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}
