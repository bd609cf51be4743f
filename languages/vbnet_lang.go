package languages

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/mycelium/graph"
)

// VBNetAnalyser declares the .vb extension but has no working grammar:
// the example pack's tree-sitter distribution carries no VB.NET grammar.
// IsAvailable reports false, so the registry leaves it out rather than
// fail the run, exercising spec.md's "missing grammar is not fatal" path:
// .vb files are still recorded by the structure phase, with no language
// tag and no symbols, imports or calls.
type VBNetAnalyser struct{}

func (a *VBNetAnalyser) Extensions() []string       { return []string{".vb"} }
func (a *VBNetAnalyser) LanguageName() string       { return "vbnet" }
func (a *VBNetAnalyser) Language() *sitter.Language { return nil }
func (a *VBNetAnalyser) IsAvailable() bool          { return false }

func (a *VBNetAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	return nil
}

func (a *VBNetAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	return nil
}

func (a *VBNetAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	return nil
}

func (a *VBNetAnalyser) BuiltinExclusions() map[string]struct{} { return nil }
