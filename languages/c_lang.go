package languages

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/viant/mycelium/graph"
)

// CAnalyser extracts symbols, imports, and calls from C source, grounded
// on spec.md §4.3's common rules for quoted-vs-angle-bracket #include
// resolution (quoted includes resolve relative to the including file;
// angle-bracket includes are system headers and never resolve).
type CAnalyser struct{}

func (a *CAnalyser) Extensions() []string       { return []string{".c", ".h"} }
func (a *CAnalyser) LanguageName() string       { return "c" }
func (a *CAnalyser) Language() *sitter.Language { return c.GetLanguage() }
func (a *CAnalyser) IsAvailable() bool          { return true }

func (a *CAnalyser) ExtractSymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	return cFamilySymbols(tree, source, filePath)
}

func cFamilySymbols(tree *sitter.Tree, source []byte, filePath string) []graph.DraftSymbol {
	var out []graph.DraftSymbol
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "function_definition":
			name := cDeclaratorName(n.ChildByFieldName("declarator"), source)
			if name == "" {
				continue
			}
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindFunction, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Visibility: graph.VisibilityPublic, Exported: true,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
		case "struct_specifier", "union_specifier":
			kind := graph.KindStruct
			name := nodeText(n.ChildByFieldName("name"), source)
			if name == "" {
				continue
			}
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: kind, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Visibility: graph.VisibilityPublic, Exported: true,
				ByteStart: int(n.StartByte()), ByteEnd: int(n.EndByte()), HasByteRange: true,
			})
		case "type_definition":
			declarator := n.ChildByFieldName("declarator")
			name := cDeclaratorName(declarator, source)
			if name == "" {
				continue
			}
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindTypedef, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Visibility: graph.VisibilityPublic, Exported: true,
			})
		case "enum_specifier":
			name := nodeText(n.ChildByFieldName("name"), source)
			if name == "" {
				continue
			}
			out = append(out, graph.DraftSymbol{
				Name: name, Kind: graph.KindEnum, File: filePath, Line: int(n.StartPoint().Row) + 1,
				Visibility: graph.VisibilityPublic, Exported: true,
			})
		}
	}
	return out
}

func cDeclaratorName(n *sitter.Node, source []byte) string {
	for n != nil {
		if n.Type() == "identifier" {
			return nodeText(n, source)
		}
		next := n.ChildByFieldName("declarator")
		if next == nil {
			return ""
		}
		n = next
	}
	return ""
}

func (a *CAnalyser) ExtractImports(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	return cFamilyIncludes(tree, source, filePath)
}

func cFamilyIncludes(tree *sitter.Tree, source []byte, filePath string) []graph.ImportStatement {
	var out []graph.ImportStatement
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "preproc_include" {
			pathNode := n.ChildByFieldName("path")
			if pathNode != nil {
				text := nodeText(pathNode, source)
				target := text
				if strings.HasPrefix(text, "\"") {
					target = strings.Trim(text, "\"")
				} else if strings.HasPrefix(text, "<") {
					target = "" // system header, never resolves
				}
				out = append(out, graph.ImportStatement{
					File: filePath, Statement: nodeText(n, source),
					TargetName: target, Line: int(n.StartPoint().Row) + 1,
				})
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return out
}

func (a *CAnalyser) ExtractCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	return cFamilyCalls(tree, source, filePath)
}

func cFamilyCalls(tree *sitter.Tree, source []byte, filePath string) []graph.RawCall {
	var out []graph.RawCall
	var walk func(n, enclosing *sitter.Node)
	walk = func(n *sitter.Node, enclosing *sitter.Node) {
		next := enclosing
		switch n.Type() {
		case "function_definition":
			next = n
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Type() == "identifier" {
				name := nodeText(fn, source)
				callerName := ""
				if enclosing != nil {
					callerName = cDeclaratorName(enclosing.ChildByFieldName("declarator"), source)
				}
				out = append(out, graph.RawCall{
					CallerFile: filePath, CallerName: callerName,
					CalleeName: name, Line: int(n.StartPoint().Row) + 1,
				})
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i), next)
		}
	}
	walk(tree.RootNode(), nil)
	return out
}

var cBuiltins = map[string]struct{}{
	"printf": {}, "fprintf": {}, "sprintf": {}, "scanf": {}, "malloc": {}, "free": {},
	"calloc": {}, "realloc": {}, "memcpy": {}, "memset": {}, "strlen": {}, "strcpy": {},
	"strcmp": {}, "strcat": {}, "memcmp": {}, "exit": {}, "abort": {},
}

func (a *CAnalyser) BuiltinExclusions() map[string]struct{} {
	out := make(map[string]struct{}, len(cBuiltins))
	for k := range cBuiltins {
		out[k] = struct{}{}
	}
	return out
}
